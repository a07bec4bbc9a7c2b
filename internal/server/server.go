package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"FeedSummarizer/internal/config"
)

var setModeOnce sync.Once

// New assembles the gin engine with webhook and health routes.
func New(cfg config.ServerConfig, webhook *WebhookHandler) *http.Server {
	setModeOnce.Do(func() { gin.SetMode(gin.ReleaseMode) })

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	engine.Any("/webhook", webhook.Handle)

	return &http.Server{
		Addr:    cfg.Addr,
		Handler: engine,
	}
}
