package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Config returns a handler that exposes a caller-provided view of the
// runtime configuration. The view must contain only non-secret values.
func Config(view interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, view)
	}
}
