package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

const maxWebhookBody = 64 << 10

// WebhookHandler receives payment gateway notifications.
type WebhookHandler struct {
	facade   WebhookFacade
	verifier SignatureVerifier
	logger   *slog.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade, verifier SignatureVerifier, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{facade: facade, verifier: verifier, logger: logger}
}

// Receive handles POST /api/webhooks/mp. Accepted and ignored events answer
// 200; failures the gateway should redeliver answer 202 or 500.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body too large", slog.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, dto.AckResponse{OK: false})
			return
		}
		c.JSON(http.StatusBadRequest, dto.AckResponse{OK: false})
		return
	}

	var event dto.WebhookEvent
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &event); err != nil {
			h.logger.Warn("malformed webhook body", slog.String("error", err.Error()))
		}
	}
	notification := event.Notification(c.Request.URL.Query())

	dataID := c.Query("data.id")
	if dataID == "" {
		dataID = notification.PaymentID
	}
	if h.verifier != nil {
		if err := h.verifier.Verify(c.GetHeader("x-signature"), dataID, c.GetHeader("x-request-id")); err != nil {
			h.logger.Warn("webhook signature rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, dto.AckResponse{OK: false})
			return
		}
	}

	if err := h.facade.HandlePaymentNotification(c.Request.Context(), notification); err != nil {
		_ = c.Error(err)
		if errors.Is(err, domainErrors.ErrUpstreamUnavailable) {
			c.JSON(http.StatusAccepted, dto.AckResponse{OK: false})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.AckResponse{OK: false})
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{OK: true})
}
