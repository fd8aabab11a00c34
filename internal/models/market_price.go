package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CardIdentity is the structured guess produced by the vision model for a
// single scan. It is created once per scan and consumed immediately by the
// price-resolution stage; it is never persisted on its own.
type CardIdentity struct {
	Name       string  `json:"name"`
	Set        string  `json:"set"`
	CardNumber string  `json:"cardNumber"`
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
	Rarity     string  `json:"rarity,omitempty"`
	Type       string  `json:"type,omitempty"`
}

// MinRecognitionConfidence is the accept/reject gate for a recognition
// result. A partial or blurry recognition silently produces a wrong price,
// so anything below this fails the whole scan instead.
const MinRecognitionConfidence = 0.6

// PriceRange brackets the average price. Low <= AveragePrice <= High holds
// for every resolved price.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// MarketPrice is the resolved pricing result for one card identity. It is
// recomputed on every call and never cached across scans.
type MarketPrice struct {
	CardName     string     `json:"cardName"`
	Set          string     `json:"set"`
	Condition    string     `json:"condition"`
	AveragePrice float64    `json:"averagePrice"`
	PriceRange   PriceRange `json:"priceRange"`
	RecentSales  int        `json:"recentSales"`
	PriceChange  float64    `json:"priceChange"`
	ImageURL     string     `json:"imageUrl,omitempty"`
}

// ScanResult is the response contract for a card scan: the recognized
// identity, its resolved market price, and the image to display.
type ScanResult struct {
	Recognition CardIdentity `json:"recognition"`
	MarketPrice MarketPrice  `json:"marketPrice"`
	ImageURL    string       `json:"imageUrl"`
}

// ConditionMultiplier maps a subjective wear grade to a fraction of mint
// value. Unknown grades price as Excellent rather than failing.
func ConditionMultiplier(condition string) float64 {
	c := strings.ToLower(condition)

	switch {
	case strings.Contains(c, "near mint"):
		return 0.85
	case strings.Contains(c, "mint"):
		return 1.0
	case strings.Contains(c, "excellent"), strings.Contains(c, "lightly played"):
		return 0.7
	case strings.Contains(c, "good"), strings.Contains(c, "moderately played"):
		return 0.5
	case strings.Contains(c, "fair"), strings.Contains(c, "heavily played"):
		return 0.3
	case strings.Contains(c, "poor"), strings.Contains(c, "damaged"):
		return 0.15
	default:
		return 0.7
	}
}

// Round2 rounds a dollar amount to two decimals.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
