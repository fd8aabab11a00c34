package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokeport/pokeport-ai/backend/internal/services"
)

// MarketHandler serves the market view endpoints: trending cards and
// direct price lookups without a scan.
type MarketHandler struct {
	trending *services.TrendingService
	market   *services.MarketDataService
}

func NewMarketHandler(trending *services.TrendingService, market *services.MarketDataService) *MarketHandler {
	return &MarketHandler{
		trending: trending,
		market:   market,
	}
}

// GetTrends returns the curated trending-cards view.
func (h *MarketHandler) GetTrends(c *gin.Context) {
	c.JSON(http.StatusOK, h.trending.GetTrendingCards(c.Request.Context()))
}

// GetMarketPrice resolves a price for an explicit name/set/condition,
// bypassing recognition.
func (h *MarketHandler) GetMarketPrice(c *gin.Context) {
	cardName := c.Param("cardName")
	set := c.Param("set")
	condition := c.DefaultQuery("condition", "Near Mint")

	if cardName == "" || set == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cardName and set are required"})
		return
	}

	price := h.market.GetMarketPrice(c.Request.Context(), cardName, set, condition)
	c.JSON(http.StatusOK, price)
}
