package relay

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/skillsenselab/audio-relay/bus"
	"github.com/skillsenselab/audio-relay/logger"
)

// Gateway accepts client connections and owns one Session per connection.
// Sessions interact only through the bus; the gateway keeps no state
// shared between them beyond a counter.
type Gateway struct {
	bus      *bus.Client
	cfg      Config
	log      *logger.Logger
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// NewGateway creates a gateway publishing through the given bus client.
func NewGateway(busClient *bus.Client, cfg Config, log *logger.Logger) *Gateway {
	cfg.ApplyDefaults()
	return &Gateway{
		bus: busClient,
		cfg: cfg,
		log: log.WithComponent("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the gin handler for the websocket endpoint. Each upgraded
// connection gets a fresh correlation id and a session that runs for the
// connection's lifetime on its own goroutine (net/http serves each
// connection independently, so sessions never block each other).
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			g.log.WithError(err).Warn("WebSocket upgrade failed")
			return
		}
		g.serve(c.Request.Context(), conn)
	}
}

func (g *Gateway) serve(ctx context.Context, conn *websocket.Conn) {
	id := uuid.NewString()
	g.active.Add(1)
	defer g.active.Add(-1)

	g.log.Info("Client connected", map[string]interface{}{
		logger.FieldClientID: id,
	})

	sess := NewSession(id, conn, g.bus, g.cfg, g.log)
	if err := sess.Run(ctx); err != nil {
		// Contained here: one session's failure never reaches the others.
		g.log.WithError(err).Error("Session ended with error", map[string]interface{}{
			logger.FieldClientID: id,
		})
	}
}

// ActiveSessions returns the number of currently connected clients.
func (g *Gateway) ActiveSessions() int64 {
	return g.active.Load()
}
