package endpoint

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root returns a handler for the service status page at /.
func Root(serviceName string) gin.HandlerFunc {
	message := fmt.Sprintf("%s is running", serviceName)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"message": message,
		})
	}
}
