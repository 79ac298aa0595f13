package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/config"
	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/upload"
)

// NewServer builds the HTTP server: health check, websocket endpoint,
// upload intake and static serving of stored uploads.
func NewServer(hub *core.Hub, uploads *upload.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/healthz", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.WSMessagesPerMinute, logger)))

	uploadHandlers := NewUploadHandlers(uploads, logger)
	router.POST("/api/upload", uploadHandlers.Upload)
	router.Static(strings.TrimSuffix(upload.URLPrefix, "/"), uploads.Dir())

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
