package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
)

const (
	pokemonTCGBaseURL = "https://api.pokemontcg.io/v2"

	// Price lookups get the longer budget; image-only lookups are a
	// cosmetic fallback and give up sooner.
	priceSearchTimeout  = 8 * time.Second
	imageSearchTimeout  = 5 * time.Second
	priceSearchPageSize = 15
	imageSearchPageSize = 5

	userAgent = "PokePortAI/1.0 (Card Portfolio App)"
)

// PokemonTCGService queries the Pokemon TCG catalog for card records and
// their per-variant market prices. Results are re-fetched on every scan;
// nothing is cached here.
type PokemonTCGService struct {
	client    *http.Client
	imgClient *http.Client
	apiKey    string
	baseURL   string
}

func NewPokemonTCGService(apiKey string) *PokemonTCGService {
	return &PokemonTCGService{
		client:    &http.Client{Timeout: priceSearchTimeout},
		imgClient: &http.Client{Timeout: imageSearchTimeout},
		apiKey:    apiKey,
		baseURL:   pokemonTCGBaseURL,
	}
}

type catalogSearchResponse struct {
	Data []catalogCard `json:"data"`
}

// catalogCard is one printed-card entry as returned by the catalog. Owned
// by the external service; treated as read-only.
type catalogCard struct {
	TCGPlayer *catalogTCGPlayer `json:"tcgplayer"`
	Set       catalogSet        `json:"set"`
	Images    catalogImages     `json:"images"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Number    string            `json:"number"`
	Rarity    string            `json:"rarity"`
}

type catalogSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type catalogImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type catalogTCGPlayer struct {
	Prices map[string]catalogVariantPrice `json:"prices"`
	URL    string                         `json:"url"`
}

type catalogVariantPrice struct {
	Low    float64 `json:"low"`
	Mid    float64 `json:"mid"`
	High   float64 `json:"high"`
	Market float64 `json:"market"`
}

// imageURL returns the display image for a card, preferring the small
// rendition.
func (c *catalogCard) imageURL() string {
	if c.Images.Small != "" {
		return c.Images.Small
	}
	return c.Images.Large
}

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

type searchStrategy struct {
	label string
	query string
}

// buildSearchQueries returns the tiered query strategies, most to least
// specific. Recognition noise makes the exact name+set query frequently
// empty, so the looser queries recover otherwise-lost hits.
func buildSearchQueries(name, set string) []searchStrategy {
	exact := fmt.Sprintf("name:%q", name)
	withSet := exact
	if set != "" && set != "Unknown Set" {
		withSet = fmt.Sprintf("name:%q set.name:%q", name, set)
	}

	return []searchStrategy{
		{label: "name_and_set", query: withSet},
		{label: "name", query: exact},
		{label: "stripped", query: strings.TrimSpace(punctuationPattern.ReplaceAllString(name, ""))},
	}
}

// FindCandidates runs the query strategies in order and returns the full
// candidate set from the first one that yields any records. A failed or
// timed-out query is logged and skipped, never retried. Returns nil when
// every strategy comes back empty.
func (s *PokemonTCGService) FindCandidates(ctx context.Context, name, set string) []catalogCard {
	for _, strategy := range buildSearchQueries(name, set) {
		cards, err := s.searchOnce(ctx, s.client, strategy.query, priceSearchPageSize, priceSearchTimeout)
		if err != nil {
			log.Printf("Catalog query failed (%s): %v", strategy.label, err)
			metrics.CatalogQueriesTotal.WithLabelValues(strategy.label, "error").Inc()
			continue
		}

		log.Printf("Found %d cards for query: %s", len(cards), strategy.query)
		if len(cards) > 0 {
			metrics.CatalogQueriesTotal.WithLabelValues(strategy.label, "hit").Inc()
			return cards
		}
		metrics.CatalogQueriesTotal.WithLabelValues(strategy.label, "empty").Inc()
	}

	return nil
}

// FindOfficialImage looks up the catalog artwork for a card whose pricing
// already fell back to the synthetic model. Same strategy tiering as
// FindCandidates but with the shorter image-search budget.
func (s *PokemonTCGService) FindOfficialImage(ctx context.Context, name, set string) string {
	for _, strategy := range buildSearchQueries(name, set) {
		cards, err := s.searchOnce(ctx, s.imgClient, strategy.query, imageSearchPageSize, imageSearchTimeout)
		if err != nil || len(cards) == 0 {
			continue
		}

		best := findBestCardMatch(cards, name, set)
		if img := best.imageURL(); img != "" {
			return img
		}
	}

	return ""
}

// searchOnce issues a single bounded catalog query. One attempt only; the
// next, looser strategy takes the place of a literal retry.
func (s *PokemonTCGService) searchOnce(ctx context.Context, client *http.Client, query string, pageSize int, timeout time.Duration) ([]catalogCard, error) {
	reqURL := fmt.Sprintf("%s/cards?q=%s&pageSize=%d", s.baseURL, url.QueryEscape(query), pageSize)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	metrics.CatalogQueryLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to search pokemon tcg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pokemon tcg API returned status %d", resp.StatusCode)
	}

	var searchResp catalogSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode pokemon tcg response: %w", err)
	}

	return searchResp.Data, nil
}
