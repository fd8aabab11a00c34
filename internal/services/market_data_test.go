package services

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func TestAggregateVariantPricesPriorityMean(t *testing.T) {
	prices := map[string]catalogVariantPrice{
		"holofoil": {Market: 100},
		"normal":   {Market: 50},
		// Not in the priority list; must not dilute the mean.
		"unlimitedHolofoil": {Market: 10},
	}

	if got := aggregateVariantPrices(prices); got != 75 {
		t.Errorf("got %.2f, want 75 (mean of holofoil and normal)", got)
	}
}

func TestAggregateVariantPricesSkipsZeroMarket(t *testing.T) {
	prices := map[string]catalogVariantPrice{
		"holofoil": {Market: 0, Mid: 120},
		"normal":   {Market: 40},
	}

	if got := aggregateVariantPrices(prices); got != 40 {
		t.Errorf("got %.2f, want 40 (zero market prices excluded)", got)
	}
}

func TestAggregateVariantPricesAllVariantFallback(t *testing.T) {
	prices := map[string]catalogVariantPrice{
		"unlimitedHolofoil": {Market: 30},
	}

	if got := aggregateVariantPrices(prices); got != 30 {
		t.Errorf("got %.2f, want 30 (fallback across all variants)", got)
	}
}

func TestAggregateVariantPricesNoUsablePrice(t *testing.T) {
	if got := aggregateVariantPrices(nil); got != 0 {
		t.Errorf("nil map: got %.2f, want 0", got)
	}
	if got := aggregateVariantPrices(map[string]catalogVariantPrice{"holofoil": {Low: 1}}); got != 0 {
		t.Errorf("no market values: got %.2f, want 0", got)
	}
}

func newTestMarketService(baseURL string) *MarketDataService {
	catalog := newTestCatalogService(baseURL)
	return NewMarketDataService(catalog, NewSyntheticPricer(rand.New(rand.NewSource(1))), nil)
}

func TestGetMarketPriceFromCatalog(t *testing.T) {
	match := card("base1-4", "Charizard", "Base Set")
	match.Images.Small = "https://images.example/charizard.png"
	match.TCGPlayer = &catalogTCGPlayer{Prices: map[string]catalogVariantPrice{
		"holofoil": {Market: 120},
	}}
	srv, _ := newCatalogTestServer(t, map[string][]catalogCard{
		`name:"Charizard" set.name:"Base Set"`: {match},
	})
	s := newTestMarketService(srv.URL)

	price := s.GetMarketPrice(context.Background(), "Charizard", "Base Set", "Near Mint")

	// 120 x 0.85 for Near Mint
	if price.AveragePrice != 102.00 {
		t.Errorf("averagePrice = %.2f, want 102.00", price.AveragePrice)
	}
	if price.PriceRange.Low != 86.70 {
		t.Errorf("low = %.2f, want 86.70", price.PriceRange.Low)
	}
	if price.PriceRange.High != 117.30 {
		t.Errorf("high = %.2f, want 117.30", price.PriceRange.High)
	}
	if price.ImageURL != "https://images.example/charizard.png" {
		t.Errorf("imageUrl = %q", price.ImageURL)
	}
	if price.RecentSales < 15 || price.RecentSales >= 40 {
		t.Errorf("recentSales = %d, want [15, 40)", price.RecentSales)
	}
}

func TestGetMarketPricePlaceholderWhenImageOnly(t *testing.T) {
	match := card("base1-4", "Charizard", "Base Set")
	match.Images.Large = "https://images.example/charizard-large.png"
	srv, _ := newCatalogTestServer(t, map[string][]catalogCard{
		`name:"Charizard" set.name:"Base Set"`: {match},
	})
	s := newTestMarketService(srv.URL)

	price := s.GetMarketPrice(context.Background(), "Charizard", "Base Set", "Mint")

	if price.AveragePrice != placeholderPrice {
		t.Errorf("averagePrice = %.2f, want the %.2f placeholder", price.AveragePrice, placeholderPrice)
	}
	if price.ImageURL != "https://images.example/charizard-large.png" {
		t.Errorf("imageUrl = %q", price.ImageURL)
	}
}

func TestGetMarketPriceSyntheticFallback(t *testing.T) {
	srv, rec := newCatalogTestServer(t, nil)
	s := newTestMarketService(srv.URL)

	price := s.GetMarketPrice(context.Background(), "Charizard", "Base Set", "Near Mint")

	// base [80,180) x base-set era [2.0,3.5) x 0.85
	if price.AveragePrice < 80*2.0*0.85 || price.AveragePrice >= 180*3.5*0.85+0.01 {
		t.Errorf("synthetic average %.2f outside the Charizard/Base Set band", price.AveragePrice)
	}
	wantLow := math.Round(price.AveragePrice*0.8*100) / 100
	if math.Abs(price.PriceRange.Low-wantLow) > 0.01 {
		t.Errorf("low = %.2f, want %.2f (0.8x for synthetic prices)", price.PriceRange.Low, wantLow)
	}
	if price.RecentSales < 20 || price.RecentSales >= 60 {
		t.Errorf("recentSales = %d, want [20, 60)", price.RecentSales)
	}

	// 3 price strategies plus 3 image-lookup strategies, all empty.
	if rec.count() != 6 {
		t.Errorf("issued %d catalog queries, want 6", rec.count())
	}
}

func TestGetMarketPriceRangeInvariant(t *testing.T) {
	srv, _ := newCatalogTestServer(t, nil)
	s := newTestMarketService(srv.URL)

	for _, cond := range []string{"Mint", "Near Mint", "Good", "Poor", "Unknown"} {
		p := s.GetMarketPrice(context.Background(), "Eevee", "Jungle", cond)
		if p.PriceRange.Low > p.AveragePrice || p.AveragePrice > p.PriceRange.High {
			t.Errorf("%s: low=%.2f avg=%.2f high=%.2f", cond, p.PriceRange.Low, p.AveragePrice, p.PriceRange.High)
		}
	}
}
