package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat/internal/config"
)

// NewServer builds the HTTP server: websocket endpoint, health, read-only API
// and, when configured, the static client files.
//
// /ws is mounted on the mux directly. gin's response writer refuses to
// hijack once the 101 has been flushed, which websocket.Accept does.
func NewServer(hub Hub, peers *Peers, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(hub, peers, logger)
	apiGroup := router.Group("/api")
	apiGroup.GET("/roster", api.Roster)
	apiGroup.GET("/stats", api.Stats)

	if cfg.StaticDir != "" {
		router.NoRoute(gin.WrapH(stdhttp.FileServer(stdhttp.Dir(cfg.StaticDir))))
	}

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, peers, cfg.MaxMessageBytes, cfg.SendBuffer, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
