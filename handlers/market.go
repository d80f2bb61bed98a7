package handlers

import (
	"net/http"

	"coinplay/services/market"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MarketHandler exposes mock market data for the dashboard.
type MarketHandler struct {
	Service market.MarketService
}

// NewMarketHandler creates a new MarketHandler instance.
func NewMarketHandler(svc market.MarketService) *MarketHandler {
	return &MarketHandler{Service: svc}
}

// GetTickersHandler handles GET /api/market/tickers.
func (h *MarketHandler) GetTickersHandler(c *gin.Context) {
	tickers, err := h.Service.GetTickers(c.Request.Context())
	if err != nil {
		getLogger(c).Error("failed to build ticker snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve market data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickers": tickers})
}
