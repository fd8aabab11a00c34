package models

import (
	"encoding/json"
	"time"
)

// Card is a card saved to a user's portfolio. The estimated value is frozen
// at the moment the scan is added; the market endpoints recompute live.
type Card struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	UserID          string          `json:"userId" gorm:"not null;index"`
	Name            string          `json:"name" gorm:"not null;index"`
	Set             string          `json:"set" gorm:"not null"`
	CardNumber      string          `json:"cardNumber"`
	Condition       string          `json:"condition"`
	EstimatedValue  float64         `json:"estimatedValue"`
	ImageURL        string          `json:"imageUrl"`
	RecognitionData json.RawMessage `json:"recognitionData,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MarketData is a persisted snapshot of a resolved market price, one row
// per card name and set, refreshed on every successful resolution.
type MarketData struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CardName     string    `json:"cardName" gorm:"not null;uniqueIndex:idx_market_card_set"`
	Set          string    `json:"set" gorm:"not null;uniqueIndex:idx_market_card_set"`
	CurrentPrice float64   `json:"currentPrice"`
	PriceChange  float64   `json:"priceChange"`
	LastUpdated  time.Time `json:"lastUpdated" gorm:"autoUpdateTime"`
}

// PortfolioStats summarizes a user's collection value.
type PortfolioStats struct {
	TotalCards int     `json:"totalCards"`
	TotalValue float64 `json:"totalValue"`
	AvgValue   float64 `json:"avgValue"`
	TopCard    float64 `json:"topCard"`
}

// InsertCard is the payload for adding a scanned card to the portfolio.
type InsertCard struct {
	Name            string          `json:"name" binding:"required"`
	Set             string          `json:"set" binding:"required"`
	CardNumber      string          `json:"cardNumber"`
	Condition       string          `json:"condition"`
	EstimatedValue  float64         `json:"estimatedValue"`
	ImageURL        string          `json:"imageUrl"`
	RecognitionData json.RawMessage `json:"recognitionData,omitempty"`
}

// UpdateCard carries partial updates to a portfolio card. Nil fields are
// left untouched.
type UpdateCard struct {
	Name           *string  `json:"name"`
	Set            *string  `json:"set"`
	CardNumber     *string  `json:"cardNumber"`
	Condition      *string  `json:"condition"`
	EstimatedValue *float64 `json:"estimatedValue"`
	ImageURL       *string  `json:"imageUrl"`
}
