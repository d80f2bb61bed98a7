package handlers

import (
	"errors"
	"io"
	"net/http"

	"coinplay/services/kyc"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes bounds the raw payload read from the provider.
const maxWebhookBodyBytes = 1 << 20

// KYCWebhookHandler receives status pushes from the verification provider.
type KYCWebhookHandler struct {
	Service  kyc.KYCService
	Verifier *kyc.WebhookVerifier
}

// NewKYCWebhookHandler creates a new KYCWebhookHandler instance.
func NewKYCWebhookHandler(svc kyc.KYCService, verifier *kyc.WebhookVerifier) *KYCWebhookHandler {
	return &KYCWebhookHandler{Service: svc, Verifier: verifier}
}

// Handle handles POST /webhooks/kyc. The authenticity gate runs before any
// parsing or persistence; a failed check terminates the request with no
// state change and no hint whether the referenced session exists.
func (h *KYCWebhookHandler) Handle(c *gin.Context) {
	logger := getLogger(c)

	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !h.Verifier.Verify(c.Request.Header, rawBody) {
		logger.Warn("rejected webhook with invalid signature", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	update, err := kyc.ParseWebhookPayload(rawBody)
	if err != nil {
		logger.Warn("rejected malformed webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if _, err := h.Service.ApplyExternalUpdate(c.Request.Context(), *update, kyc.ActorProvider); err != nil {
		if errors.Is(err, kyc.ErrUnknownSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}
		logger.Error("failed to apply webhook update", zap.String("externalID", update.ExternalID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process update"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
