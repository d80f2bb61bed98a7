package handlers

import (
	"errors"
	"net/http"

	"coinplay/models"
	"coinplay/services/kyc"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KYCHandler exposes the verification lifecycle over HTTP.
type KYCHandler struct {
	Service kyc.KYCService
}

// NewKYCHandler creates a new KYCHandler instance.
func NewKYCHandler(svc kyc.KYCService) *KYCHandler {
	return &KYCHandler{Service: svc}
}

// InitiateHandler handles POST /api/kyc/initiate.
func (h *KYCHandler) InitiateHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var info models.ApplicantInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	initiation, err := h.Service.Initiate(c.Request.Context(), userID.(string), info)
	if err != nil {
		var validationErr *kyc.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		logger.Error("KYC initiation failed", zap.String("userID", userID.(string)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Verification provider unavailable. Please try again later."})
		return
	}

	c.JSON(http.StatusCreated, initiation)
}

// StatusHandler handles GET /api/kyc/status.
func (h *KYCHandler) StatusHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.Service.GetStatus(c.Request.Context(), userID.(string))
	if err != nil {
		logger.Error("KYC status lookup failed", zap.String("userID", userID.(string)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve verification status"})
		return
	}

	c.JSON(http.StatusOK, view)
}
