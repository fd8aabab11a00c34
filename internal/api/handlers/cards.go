package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pokeport/pokeport-ai/backend/internal/database"
	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
	"github.com/pokeport/pokeport-ai/backend/internal/models"
)

// CardHandler serves the per-user portfolio CRUD endpoints. The user ID
// comes from the auth middleware; persistence details live in gorm.
type CardHandler struct{}

func NewCardHandler() *CardHandler {
	return &CardHandler{}
}

// GetCards lists all cards in the requesting user's portfolio.
func (h *CardHandler) GetCards(c *gin.Context) {
	userID := c.GetString("userID")

	var cards []models.Card
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cards"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetCard returns a single portfolio card.
func (h *CardHandler) GetCard(c *gin.Context) {
	userID := c.GetString("userID")

	var card models.Card
	err := database.GetDB().Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&card).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Card not found"})
		return
	}

	c.JSON(http.StatusOK, card)
}

// CreateCard adds a scanned card to the portfolio.
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID := c.GetString("userID")

	var req models.InsertCard
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid card data",
			"error":   err.Error(),
		})
		return
	}

	card := models.Card{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            req.Name,
		Set:             req.Set,
		CardNumber:      req.CardNumber,
		Condition:       req.Condition,
		EstimatedValue:  req.EstimatedValue,
		ImageURL:        req.ImageURL,
		RecognitionData: req.RecognitionData,
	}

	if err := database.GetDB().Create(&card).Error; err != nil {
		log.Printf("Failed to create card: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save card"})
		return
	}

	updatePortfolioMetrics()
	c.JSON(http.StatusCreated, card)
}

// UpdateCard applies a partial update to a portfolio card.
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID := c.GetString("userID")

	var card models.Card
	db := database.GetDB()
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&card).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Card not found"})
		return
	}

	var req models.UpdateCard
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid update data",
			"error":   err.Error(),
		})
		return
	}

	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.Set != nil {
		card.Set = *req.Set
	}
	if req.CardNumber != nil {
		card.CardNumber = *req.CardNumber
	}
	if req.Condition != nil {
		card.Condition = *req.Condition
	}
	if req.EstimatedValue != nil {
		card.EstimatedValue = *req.EstimatedValue
	}
	if req.ImageURL != nil {
		card.ImageURL = *req.ImageURL
	}

	if err := db.Save(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update card"})
		return
	}

	updatePortfolioMetrics()
	c.JSON(http.StatusOK, card)
}

// DeleteCard removes a card from the portfolio.
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID := c.GetString("userID")

	result := database.GetDB().Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.Card{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete card"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Card not found"})
		return
	}

	updatePortfolioMetrics()
	c.Status(http.StatusNoContent)
}

// GetStats summarizes the user's portfolio value.
func (h *CardHandler) GetStats(c *gin.Context) {
	userID := c.GetString("userID")

	var cards []models.Card
	if err := database.GetDB().Where("user_id = ?", userID).Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to calculate portfolio stats"})
		return
	}

	stats := models.PortfolioStats{TotalCards: len(cards)}
	for _, card := range cards {
		stats.TotalValue += card.EstimatedValue
		if card.EstimatedValue > stats.TopCard {
			stats.TopCard = card.EstimatedValue
		}
	}
	if stats.TotalCards > 0 {
		stats.AvgValue = models.Round2(stats.TotalValue / float64(stats.TotalCards))
	}
	stats.TotalValue = models.Round2(stats.TotalValue)

	c.JSON(http.StatusOK, stats)
}

// updatePortfolioMetrics refreshes the portfolio gauges after a write.
func updatePortfolioMetrics() {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.Card{}).Count(&count).Error; err != nil {
		return
	}

	var total float64
	row := db.Model(&models.Card{}).Select("COALESCE(SUM(estimated_value), 0)").Row()
	if err := row.Scan(&total); err != nil {
		log.Printf("Warning: failed to sum portfolio value: %v", err)
		return
	}

	metrics.PortfolioCardsTotal.Set(float64(count))
	metrics.PortfolioValueUSD.Set(total)
}
