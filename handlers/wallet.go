package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"coinplay/models"
	"coinplay/services/wallet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler exposes the simulated wallet over HTTP.
type WalletHandler struct {
	Service wallet.WalletService
}

// NewWalletHandler creates a new WalletHandler instance.
func NewWalletHandler(svc wallet.WalletService) *WalletHandler {
	return &WalletHandler{Service: svc}
}

// GetWalletHandler handles GET /api/wallet.
func (h *WalletHandler) GetWalletHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	w, err := h.Service.GetWallet(c.Request.Context(), userID.(string))
	if err != nil {
		logger.Error("failed to fetch wallet", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wallet"})
		return
	}

	c.JSON(http.StatusOK, w)
}

// GetTransactionsHandler handles GET /api/wallet/transactions.
func (h *WalletHandler) GetTransactionsHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	txs, err := h.Service.GetTransactions(c.Request.Context(), userID.(string), limit)
	if err != nil {
		logger.Error("failed to fetch transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// SwapHandler handles POST /api/wallet/swap.
func (h *WalletHandler) SwapHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	tx, err := h.Service.Swap(c.Request.Context(), userID.(string), req)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
			return
		}
		logger.Error("swap failed", zap.String("userID", userID.(string)), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tx)
}
