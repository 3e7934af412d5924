package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/tutorcall-signal/internal/config"
	"github.com/vovakirdan/tutorcall-signal/internal/core"
)

// NewServer builds the HTTP server. The signaling socket is mounted on the mux
// directly because the upgrade hijacks the connection, which gin's response
// wrapper refuses once the 101 is written. Everything else goes to gin.
func NewServer(relay *core.Relay, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(relay, cfg, logger))
	mux.Handle("/", NewRouter(relay, cfg, logger))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter wires the health and api routes onto a gin engine.
func NewRouter(relay *core.Relay, cfg *config.Config, logger *zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(relay.Registry(), logger)
	api := router.Group("/api", LoggerMiddleware(logger))
	api.GET("/rooms/:id", rooms.GetRoom)
	api.GET("/stats", AdminAuthMiddleware(cfg.AdminPasswordHash, logger), rooms.Stats)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
