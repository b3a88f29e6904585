package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fbdash/internal/apperr"
	"fbdash/internal/config"
	"fbdash/internal/services"
	"fbdash/internal/webhook"
)

type Handler struct {
	config    *config.Config
	dashboard *services.Dashboard
	processor *webhook.Processor
	loc       *time.Location
	logger    *logrus.Logger
}

func New(cfg *config.Config, dashboard *services.Dashboard, processor *webhook.Processor,
	loc *time.Location, logger *logrus.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		config:    cfg,
		dashboard: dashboard,
		processor: processor,
		loc:       loc,
		logger:    logger,
	}
}

// Router wires middleware and every route onto a fresh gin engine.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(h.logger))

	// Health endpoints
	router.GET("/healthz", h.HealthCheck)

	// Facebook webhook
	// Secrets are checked before the body is read or its signature verified.
	hook := router.Group("/api/webhook")
	receive := []gin.HandlerFunc{h.RequireWebhookConfig, LimitBody(MaxWebhookBody)}
	if h.config.VerifySignature {
		receive = append(receive, VerifySignature(h.config.AppSecret, h.logger))
	}
	hook.POST("", append(receive, h.ReceiveEvent)...)
	hook.GET("", h.VerifySubscription)

	// Dashboard data
	analytics := router.Group("/api/analytics")
	analytics.Use(cors.New(corsConfig(h.config.CORSOrigins)))
	analytics.GET("/posts", h.GetPostsReport)
	analytics.GET("/videos", h.GetVideosReport)
	analytics.GET("/insights", h.GetInsightsReport)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "fbdash",
	})
}

func (h *Handler) requestLogger(c *gin.Context) *logrus.Entry {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}

// respondError maps the error taxonomy onto dashboard API responses.
// Upstream details stay in the logs.
func (h *Handler) respondError(c *gin.Context, err error, message string) {
	h.requestLogger(c).WithError(err).Error(message)

	switch {
	case apperr.IsConfig(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Facebook credentials not configured"})
	case apperr.IsMalformed(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsAuth(err), apperr.IsUpstream(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
