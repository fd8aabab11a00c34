package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func TestBuildSearchQueries(t *testing.T) {
	strategies := buildSearchQueries("Charizard V-MAX", "Darkness Ablaze")

	want := []searchStrategy{
		{label: "name_and_set", query: `name:"Charizard V-MAX" set.name:"Darkness Ablaze"`},
		{label: "name", query: `name:"Charizard V-MAX"`},
		{label: "stripped", query: "Charizard VMAX"},
	}

	if len(strategies) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(strategies), len(want))
	}
	for i, s := range strategies {
		if s != want[i] {
			t.Errorf("strategy %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestBuildSearchQueriesUnknownSet(t *testing.T) {
	for _, set := range []string{"", "Unknown Set"} {
		strategies := buildSearchQueries("Pikachu", set)
		if strategies[0].query != `name:"Pikachu"` {
			t.Errorf("set %q: first query %q should omit the set filter", set, strategies[0].query)
		}
	}
}

// queryRecorder collects catalog queries in arrival order.
type queryRecorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *queryRecorder) add(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
}

func (r *queryRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func (r *queryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

// newCatalogTestServer returns a fake catalog that answers each query with
// the supplied cards (keyed by q parameter; missing keys answer empty) and
// records the order of queries received.
func newCatalogTestServer(t *testing.T, responses map[string][]catalogCard) (*httptest.Server, *queryRecorder) {
	t.Helper()
	rec := &queryRecorder{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		rec.add(q)
		if err := json.NewEncoder(w).Encode(catalogSearchResponse{Data: responses[q]}); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestCatalogService(baseURL string) *PokemonTCGService {
	s := NewPokemonTCGService("")
	s.baseURL = baseURL
	return s
}

func TestFindCandidatesTriesAllStrategiesInOrder(t *testing.T) {
	srv, rec := newCatalogTestServer(t, nil)
	s := newTestCatalogService(srv.URL)

	cards := s.FindCandidates(context.Background(), "Snorlax", "Jungle")
	if cards != nil {
		t.Errorf("expected nil candidates from an empty catalog, got %d", len(cards))
	}

	want := []string{
		`name:"Snorlax" set.name:"Jungle"`,
		`name:"Snorlax"`,
		"Snorlax",
	}
	got := rec.all()
	if len(got) != len(want) {
		t.Fatalf("issued %d queries, want %d: %v", len(got), len(want), got)
	}
	for i, q := range got {
		if q != want[i] {
			t.Errorf("query %d = %q, want %q", i, q, want[i])
		}
	}
}

func TestFindCandidatesStopsAtFirstHit(t *testing.T) {
	hit := []catalogCard{card("base1-1", "Snorlax", "Jungle")}
	srv, rec := newCatalogTestServer(t, map[string][]catalogCard{
		`name:"Snorlax" set.name:"Jungle"`: hit,
	})
	s := newTestCatalogService(srv.URL)

	cards := s.FindCandidates(context.Background(), "Snorlax", "Jungle")
	if len(cards) != 1 || cards[0].ID != "base1-1" {
		t.Fatalf("unexpected candidates: %+v", cards)
	}
	if rec.count() != 1 {
		t.Errorf("issued %d queries after a first-strategy hit, want 1", rec.count())
	}
}

func TestFindCandidatesSkipsFailedStrategy(t *testing.T) {
	hit := []catalogCard{card("base1-1", "Snorlax", "Jungle")}
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// First strategy fails; the client must move on without a retry.
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(catalogSearchResponse{Data: hit})
	}))
	t.Cleanup(srv.Close)

	s := newTestCatalogService(srv.URL)
	cards := s.FindCandidates(context.Background(), "Snorlax", "Jungle")
	if len(cards) != 1 {
		t.Fatalf("expected recovery via the second strategy, got %+v", cards)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server saw %d calls, want 2 (no retries of the failed query)", n)
	}
}

func TestFindOfficialImage(t *testing.T) {
	withImage := card("base1-1", "Snorlax", "Jungle")
	withImage.Images.Small = "https://images.example/snorlax-small.png"
	srv, _ := newCatalogTestServer(t, map[string][]catalogCard{
		`name:"Snorlax" set.name:"Jungle"`: {withImage},
	})
	s := newTestCatalogService(srv.URL)

	img := s.FindOfficialImage(context.Background(), "Snorlax", "Jungle")
	if img != "https://images.example/snorlax-small.png" {
		t.Errorf("got image %q", img)
	}
}

func TestFindOfficialImageEmptyCatalog(t *testing.T) {
	srv, _ := newCatalogTestServer(t, nil)
	s := newTestCatalogService(srv.URL)

	if img := s.FindOfficialImage(context.Background(), "Snorlax", "Jungle"); img != "" {
		t.Errorf("expected empty image URL, got %q", img)
	}
}

func TestCatalogCardImageURLPrefersSmall(t *testing.T) {
	c := catalogCard{Images: catalogImages{Small: "s.png", Large: "l.png"}}
	if got := c.imageURL(); got != "s.png" {
		t.Errorf("got %q, want small rendition", got)
	}

	c.Images.Small = ""
	if got := c.imageURL(); got != "l.png" {
		t.Errorf("got %q, want large fallback", got)
	}
}
