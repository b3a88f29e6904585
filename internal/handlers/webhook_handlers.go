package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fbdash/internal/models"
	"fbdash/internal/webhook"
)

const (
	hubModeSubscribe = "subscribe"

	errMissingSecrets = "Missing Slack webhook URL or access token"
	errProcessEvent   = "Failed to process event"
	errBodyTooLarge   = "Request body too large"
)

// RequireWebhookConfig stops POST /api/webhook with 400 before anything
// reads the body or touches the network.
func (h *Handler) RequireWebhookConfig(c *gin.Context) {
	if err := h.config.RequireWebhook(); err != nil {
		h.requestLogger(c).WithError(err).Warn("Webhook called without required secrets")
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: errMissingSecrets})
		return
	}
	c.Next()
}

// ReceiveEvent handles POST /api/webhook.
func (h *Handler) ReceiveEvent(c *gin.Context) {
	log := h.requestLogger(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read webhook body")
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: errBodyTooLarge})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errProcessEvent})
		return
	}

	event, err := webhook.Decode(body)
	if err != nil {
		log.WithError(err).Error("Failed to decode webhook event")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errProcessEvent})
		return
	}

	log.WithFields(logrus.Fields{
		"object":  event.Object,
		"entries": len(event.Entry),
	}).Info("Received event")

	result := h.processor.Process(c.Request.Context(), event)
	if err := result.Err(); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"details":  len(result.Details),
			"comments": result.Comments(),
		}).Error("Error processing event")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errProcessEvent})
		return
	}

	log.WithFields(logrus.Fields{
		"details":  len(result.Details),
		"skipped":  len(result.Skipped),
		"comments": result.Comments(),
	}).Info("Processed event")
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// VerifySubscription answers the hub challenge on GET /api/webhook.
func (h *Handler) VerifySubscription(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == hubModeSubscribe && h.config.VerifyToken != "" && token == h.config.VerifyToken {
		h.requestLogger(c).Info("Webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.requestLogger(c).WithField("mode", mode).Warn("Webhook verification failed")
	c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Verification failed"})
}
