package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
	"github.com/pokeport/pokeport-ai/backend/internal/models"
)

// placeholderPrice stands in when the catalog matched a card and returned
// artwork but no variant carried a usable market price.
const placeholderPrice = 15.99

// variantPriority is the order in which print variants are considered for
// aggregation. Foil and holo printings are the most liquid and commonly
// quoted, so they anchor the estimate.
var variantPriority = []string{"holofoil", "normal", "reverseHolofoil", "1stEditionHolofoil", "1stEditionNormal"}

// MarketDataService resolves a recognized card identity to a market price:
// live catalog data when a match with usable prices exists, the synthetic
// model otherwise. Resolution never fails; it only degrades.
type MarketDataService struct {
	catalog   *PokemonTCGService
	synthetic *SyntheticPricer
	db        *gorm.DB
}

// NewMarketDataService wires the catalog client and the synthetic pricer.
// db may be nil; snapshots are then skipped.
func NewMarketDataService(catalog *PokemonTCGService, synthetic *SyntheticPricer, db *gorm.DB) *MarketDataService {
	return &MarketDataService{
		catalog:   catalog,
		synthetic: synthetic,
		db:        db,
	}
}

// GetMarketPrice returns the market price for a card identity. The catalog
// is tried first; when it produces neither a match nor a price the
// synthetic model guarantees a result, enriched with official artwork when
// any can be found.
func (s *MarketDataService) GetMarketPrice(ctx context.Context, name, set, condition string) models.MarketPrice {
	if quote, ok := s.fetchCatalogQuote(ctx, name, set); ok {
		avg := models.Round2(quote.averagePrice * models.ConditionMultiplier(condition))

		price := models.MarketPrice{
			CardName:     name,
			Set:          set,
			Condition:    condition,
			AveragePrice: avg,
			PriceRange: models.PriceRange{
				Low:  models.Round2(avg * 0.85),
				High: models.Round2(avg * 1.15),
			},
			RecentSales: quote.recentSales,
			PriceChange: quote.priceChange,
			ImageURL:    quote.imageURL,
		}

		source := "catalog"
		if quote.imageOnly {
			source = "catalog_image_only"
		}
		metrics.PriceResolutionsTotal.WithLabelValues(source).Inc()
		s.saveSnapshot(price)
		return price
	}

	log.Printf("No catalog price for %q (%s), using synthetic pricing", name, set)
	price := s.synthetic.Price(name, set, condition)
	if img := s.catalog.FindOfficialImage(ctx, name, set); img != "" {
		price.ImageURL = img
	}

	metrics.PriceResolutionsTotal.WithLabelValues("synthetic").Inc()
	s.saveSnapshot(price)
	return price
}

// SyntheticPrice prices a card through the fallback model without touching
// the catalog. Used by the trending view when its refresh budget is spent.
func (s *MarketDataService) SyntheticPrice(name, set, condition string) models.MarketPrice {
	metrics.PriceResolutionsTotal.WithLabelValues("synthetic").Inc()
	return s.synthetic.Price(name, set, condition)
}

type catalogQuote struct {
	averagePrice float64
	imageURL     string
	recentSales  int
	priceChange  float64
	imageOnly    bool
}

// fetchCatalogQuote runs search, match, and aggregation. ok is false when
// no query strategy returned candidates or the best match carried neither
// price nor artwork.
func (s *MarketDataService) fetchCatalogQuote(ctx context.Context, name, set string) (catalogQuote, bool) {
	cards := s.catalog.FindCandidates(ctx, name, set)
	if len(cards) == 0 {
		return catalogQuote{}, false
	}

	best := findBestCardMatch(cards, name, set)

	if best.TCGPlayer != nil {
		if avg := aggregateVariantPrices(best.TCGPlayer.Prices); avg > 0 {
			log.Printf("Real price found: $%.2f for %s", avg, name)
			sales, change := s.synthetic.catalogActivity()
			return catalogQuote{
				averagePrice: avg,
				imageURL:     best.imageURL(),
				recentSales:  sales,
				priceChange:  change,
			}, true
		}
	}

	// A card match without price data still yields its artwork.
	if img := best.imageURL(); img != "" {
		log.Printf("Found card image for %s", name)
		sales, change := s.synthetic.catalogActivity()
		return catalogQuote{
			averagePrice: placeholderPrice,
			imageURL:     img,
			recentSales:  sales,
			priceChange:  change,
			imageOnly:    true,
		}, true
	}

	return catalogQuote{}, false
}

// aggregateVariantPrices reduces a record's price-by-variant map to one
// representative value: the mean of positive market prices among the
// priority variants, else the mean across all variants. Returns 0 when no
// variant anywhere has a usable price.
func aggregateVariantPrices(prices map[string]catalogVariantPrice) float64 {
	var total float64
	var count int

	for _, variant := range variantPriority {
		if p, ok := prices[variant]; ok && p.Market > 0 {
			total += p.Market
			count++
		}
	}

	if count == 0 {
		for _, p := range prices {
			if p.Market > 0 {
				total += p.Market
				count++
			}
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// saveSnapshot upserts the resolved price into the market_data table, one
// row per card name and set. Best effort; failures only log.
func (s *MarketDataService) saveSnapshot(price models.MarketPrice) {
	if s.db == nil {
		return
	}

	snapshot := models.MarketData{
		ID:           uuid.New().String(),
		CardName:     price.CardName,
		Set:          price.Set,
		CurrentPrice: price.AveragePrice,
		PriceChange:  price.PriceChange,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_name"}, {Name: "set"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_price", "price_change", "last_updated"}),
	}).Create(&snapshot).Error
	if err != nil {
		log.Printf("Failed to save market snapshot for %s: %v", price.CardName, err)
	}
}
