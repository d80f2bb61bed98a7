package handlers

import (
	"net/http"

	"coinplay/models"
	"coinplay/services/support"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SupportHandler exposes the FAQ center and ticket submission.
type SupportHandler struct {
	Service support.SupportService
}

// NewSupportHandler creates a new SupportHandler instance.
func NewSupportHandler(svc support.SupportService) *SupportHandler {
	return &SupportHandler{Service: svc}
}

// ListFAQsHandler handles GET /api/support/faqs.
func (h *SupportHandler) ListFAQsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"faqs": h.Service.ListFAQs()})
}

// CreateTicketHandler handles POST /api/support/tickets.
func (h *SupportHandler) CreateTicketHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.SupportTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.Service.CreateTicket(c.Request.Context(), userID.(string), req)
	if err != nil {
		logger.Error("failed to create support ticket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListTicketsHandler handles GET /api/support/tickets.
func (h *SupportHandler) ListTicketsHandler(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tickets, err := h.Service.GetUserTickets(c.Request.Context(), userID.(string))
	if err != nil {
		getLogger(c).Error("failed to list support tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
