package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
	"github.com/radioterritoriale/chronique-emploi/internal/services"
)

// ── Stubs ──────────────────────────────────────────────────────────────────

type stubSearch struct {
	response string
	err      error
	prompts  []string
}

func (s *stubSearch) Search(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

type stubCategorize struct {
	failFor map[string]bool // titles that should fail
}

func (s *stubCategorize) Categorize(ctx context.Context, title, employer, location string) (services.CategoryResult, error) {
	if s.failFor[title] {
		return services.CategoryResult{}, errors.New("categorization unavailable")
	}
	return services.CategoryResult{
		Category: models.CategoryIndustrie,
		Summary:  "Résumé de " + title,
	}, nil
}

func searchJSON(t *testing.T, records []map[string]any) string {
	t.Helper()
	b, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func record(n int) map[string]any {
	return map[string]any{
		"title":        fmt.Sprintf("Offre %d", n),
		"employer":     fmt.Sprintf("Employeur %d", n),
		"location":     "Pontvallain",
		"contractType": "CDI",
		"url":          fmt.Sprintf("https://candidat.francetravail.fr/offre/%d", n),
		"date":         "28/08",
	}
}

func testTerritories() []models.Territory {
	return []models.Territory{{ID: "default", City: "Pontvallain", Radius: 30}}
}

// ── Discover ───────────────────────────────────────────────────────────────

func TestDiscover_PreservesArrivalOrder(t *testing.T) {
	records := []map[string]any{record(0), record(1), record(2)}
	search := &stubSearch{response: searchJSON(t, records)}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(offers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(offers))
	}
	for i, offer := range offers {
		wantTitle := fmt.Sprintf("Offre %d", i)
		if offer.Title != wantTitle {
			t.Errorf("offer %d title = %q, want %q", i, offer.Title, wantTitle)
		}
	}
}

func TestDiscover_ClipsToTargetCount(t *testing.T) {
	var records []map[string]any
	for i := 0; i < 22; i++ {
		records = append(records, record(i))
	}
	search := &stubSearch{response: searchJSON(t, records)}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(offers) != 15 {
		t.Errorf("expected clip to 15 offers, got %d", len(offers))
	}
	// Clip keeps the head of the list, not an arbitrary subset.
	if offers[0].Title != "Offre 0" || offers[14].Title != "Offre 14" {
		t.Errorf("clip should keep arrival order head, got first=%q last=%q",
			offers[0].Title, offers[14].Title)
	}
}

func TestDiscover_DropsInvalidRecords(t *testing.T) {
	records := []map[string]any{
		record(0),
		{"employer": "Sans titre", "location": "Mayet", "url": "https://x", "date": "28/08"}, // missing title
		record(2),
	}
	search := &stubSearch{response: searchJSON(t, records)}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("invalid record should be dropped silently, got %d offers", len(offers))
	}
}

func TestDiscover_SearchFailureReturnsEmptyAndError(t *testing.T) {
	search := &stubSearch{err: errors.New("provider down")}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err == nil {
		t.Fatal("expected an error when the search call fails")
	}
	if len(offers) != 0 {
		t.Errorf("expected no offers on search failure, got %d", len(offers))
	}
}

func TestDiscover_MalformedTopLevelIsAnError(t *testing.T) {
	search := &stubSearch{response: "Je n'ai pas trouvé d'offres aujourd'hui."}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	if _, err := pipeline.Discover(context.Background(), testTerritories(), nil); err == nil {
		t.Fatal("unparsable top-level response should be an error")
	}
}

func TestDiscover_FencedJSONIsAccepted(t *testing.T) {
	raw := "```json\n" + searchJSON(t, []map[string]any{record(0)}) + "\n```"
	search := &stubSearch{response: raw}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(offers) != 1 {
		t.Errorf("expected 1 offer from fenced JSON, got %d", len(offers))
	}
}

func TestDiscover_PartialEnrichmentFailureUsesFallback(t *testing.T) {
	records := []map[string]any{record(0), record(1), record(2)}
	search := &stubSearch{response: searchJSON(t, records)}
	categorize := &stubCategorize{failFor: map[string]bool{"Offre 1": true}}
	pipeline := services.NewDiscoveryService(search, categorize, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(offers) != 3 {
		t.Fatalf("one enrichment failure must not shrink the batch, got %d offers", len(offers))
	}

	fallback := services.FallbackCategory()
	if offers[1].Category != fallback.Category || offers[1].Summary != fallback.Summary {
		t.Errorf("offer 1 should carry the fallback pair, got category=%q summary=%q",
			offers[1].Category, offers[1].Summary)
	}
	if offers[0].Category != models.CategoryIndustrie || offers[2].Category != models.CategoryIndustrie {
		t.Error("other offers should keep their enriched category")
	}
}

func TestDiscover_CategoryAlwaysValid(t *testing.T) {
	records := []map[string]any{record(0), record(1)}
	search := &stubSearch{response: searchJSON(t, records)}
	categorize := &stubCategorize{failFor: map[string]bool{"Offre 0": true, "Offre 1": true}}
	pipeline := services.NewDiscoveryService(search, categorize, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for _, offer := range offers {
		if !offer.Category.IsValid() {
			t.Errorf("offer %s carries invalid category %q", offer.ID, offer.Category)
		}
	}
}

func TestDiscover_UniqueIDsAndDefaults(t *testing.T) {
	records := []map[string]any{record(0), record(1)}
	delete(records[1], "contractType")
	search := &stubSearch{response: searchJSON(t, records)}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	offers, err := pipeline.Discover(context.Background(), testTerritories(), nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if offers[0].ID == offers[1].ID {
		t.Error("offer IDs must be unique within a run")
	}
	if offers[1].ContractType != "À préciser" {
		t.Errorf("missing contract type should default, got %q", offers[1].ContractType)
	}
	for _, offer := range offers {
		if offer.IsFeatured {
			t.Error("offers must never arrive featured from discovery")
		}
	}
}

func TestDiscover_PromptMentionsTerritoriesAndSources(t *testing.T) {
	search := &stubSearch{response: "[]"}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	territories := []models.Territory{
		{ID: "a", City: "Pontvallain", Radius: 30},
		{ID: "b", City: "Le Lude", Radius: 15},
	}
	if _, err := pipeline.Discover(context.Background(), territories, []string{"ouestfrance-emploi.com"}); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	prompt := search.prompts[0]
	for _, want := range []string{"Pontvallain (Rayon: 30km)", "Le Lude (Rayon: 15km)", "ouestfrance-emploi.com"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should mention %q", want)
		}
	}
}

func TestDiscover_DefaultSourceWhenNoneGiven(t *testing.T) {
	search := &stubSearch{response: "[]"}
	pipeline := services.NewDiscoveryService(search, &stubCategorize{}, 15, 5)

	if _, err := pipeline.Discover(context.Background(), testTerritories(), nil); err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !strings.Contains(search.prompts[0], "EXCLUSIVEMENT sur le site candidat.francetravail.fr") {
		t.Error("prompt should fall back to the implicit default source")
	}
}
