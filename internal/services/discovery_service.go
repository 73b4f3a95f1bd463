package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// SearchClient is the grounded web search capability consumed by discovery.
type SearchClient interface {
	Search(ctx context.Context, prompt string) (string, error)
}

// CategorizeClient enriches one offer with its category and radio summary.
type CategorizeClient interface {
	Categorize(ctx context.Context, title, employer, location string) (CategoryResult, error)
}

// CategoryResult is the enrichment produced for one offer.
type CategoryResult struct {
	Category models.JobCategory
	Summary  string
}

// FallbackCategory is substituted when categorization fails for one offer, so
// a single bad record never blocks the batch.
func FallbackCategory() CategoryResult {
	return CategoryResult{
		Category: models.CategoryServices,
		Summary:  "Offre d'emploi locale.",
	}
}

// JobSource produces the candidate offer list for one run. DiscoveryService
// implements it against grounded web search; LocalSourceService implements it
// offline.
type JobSource interface {
	Discover(ctx context.Context, territories []models.Territory, sources []string) ([]models.JobOffer, error)
}

// DiscoveryService turns the configured territories and partner sources into
// a bounded, categorized, most-recent-first offer list.
type DiscoveryService struct {
	search     SearchClient
	categorize CategorizeClient
	maxOffers  int
	workers    int
}

// NewDiscoveryService constructs the pipeline.
func NewDiscoveryService(search SearchClient, categorize CategorizeClient, maxOffers, workers int) *DiscoveryService {
	return &DiscoveryService{
		search:     search,
		categorize: categorize,
		maxOffers:  maxOffers,
		workers:    workers,
	}
}

const discoveryPrompt = `MISSION CRITIQUE : Extraire EXACTEMENT %d offres d'emploi réelles au total (Priorité Qualité/Rapidité).
PÉRIMÈTRE GÉOGRAPHIQUE : Tu dois chercher dans ces différentes zones : %s.
SOURCE PRIORITAIRE : candidat.francetravail.fr
PÉRIMÈTRE TEMPOREL : Uniquement les offres publiées ces 5 derniers jours.

ORDRE : Tri chronologique strict du plus récent au plus ancien.
SOURCES : %s

EXTRACTION : Titre, Employeur, Ville, Contrat, Date exacte (JJ/MM), URL directe.
FORMAT : Réponds uniquement avec un tableau JSON d'objets {"title", "employer", "location", "contractType", "url", "date"}, sans bloc markdown.`

// rawOffer is the fixed schema a candidate record must satisfy to survive
// decoding. contractType is the only optional field.
type rawOffer struct {
	Title        string `json:"title"`
	Employer     string `json:"employer"`
	Location     string `json:"location"`
	ContractType string `json:"contractType"`
	URL          string `json:"url"`
	Date         string `json:"date"`
}

func (r rawOffer) valid() bool {
	return r.Title != "" && r.Employer != "" && r.Location != "" && r.URL != "" && r.Date != ""
}

// Discover runs one discovery cycle. Territories must be non-empty; the
// controller guarantees that before calling. On a top-level search failure it
// returns an empty list and the error; per-record and per-enrichment failures
// are absorbed.
func (s *DiscoveryService) Discover(ctx context.Context, territories []models.Territory, sources []string) ([]models.JobOffer, error) {
	prompt := buildDiscoveryPrompt(s.maxOffers, territories, sources)

	raw, err := s.search.Search(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("discovery search: %w", err)
	}

	candidates, err := decodeOffers(raw)
	if err != nil {
		return nil, fmt.Errorf("discovery response: %w", err)
	}

	// Clip to the target count in arrival order. The search already
	// guarantees most-recent-first; no client-side re-sort.
	if len(candidates) > s.maxOffers {
		candidates = candidates[:s.maxOffers]
	}

	return s.enrich(ctx, candidates), nil
}

func buildDiscoveryPrompt(maxOffers int, territories []models.Territory, sources []string) string {
	zones := make([]string, len(territories))
	for i, t := range territories {
		zones[i] = fmt.Sprintf("%s (Rayon: %dkm)", t.City, t.Radius)
	}

	sourcesText := "Recherche EXCLUSIVEMENT sur le site candidat.francetravail.fr."
	if len(sources) > 0 {
		sourcesText = fmt.Sprintf("Inclus également ces sources spécifiques : %s.", strings.Join(sources, ", "))
	}

	return fmt.Sprintf(discoveryPrompt, maxOffers, strings.Join(zones, ", "), sourcesText)
}

// decodeOffers parses the semi-structured search output. The top level must
// be a JSON array; individual records that fail schema validation are dropped
// silently so one bad record never aborts the batch.
func decodeOffers(raw string) ([]rawOffer, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &elements); err != nil {
		return nil, fmt.Errorf("decode offer array: %w", err)
	}

	offers := make([]rawOffer, 0, len(elements))
	for _, element := range elements {
		var offer rawOffer
		if err := json.Unmarshal(element, &offer); err != nil {
			log.Printf("⚠️ Dropping undecodable offer record: %v", err)
			continue
		}
		if !offer.valid() {
			log.Printf("⚠️ Dropping incomplete offer record (title=%q)", offer.Title)
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// enrich categorizes all candidates with a bounded concurrent fan-out and
// waits for every result. A failed categorization gets the fixed fallback;
// positions and arrival order are preserved.
func (s *DiscoveryService) enrich(ctx context.Context, candidates []rawOffer) []models.JobOffer {
	offers := make([]models.JobOffer, len(candidates))
	runStamp := time.Now().UnixMilli()

	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i, candidate := range candidates {
		g.Go(func() error {
			result, err := s.categorize.Categorize(ctx, candidate.Title, candidate.Employer, candidate.Location)
			if err != nil {
				log.Printf("⚠️ Categorization failed for %q, using fallback: %v", candidate.Title, err)
				result = FallbackCategory()
			}

			contractType := candidate.ContractType
			if contractType == "" {
				contractType = "À préciser"
			}

			offers[i] = models.JobOffer{
				ID:           fmt.Sprintf("job-%d-%d", i, runStamp),
				Date:         candidate.Date,
				Title:        candidate.Title,
				Employer:     candidate.Employer,
				Location:     candidate.Location,
				Category:     result.Category,
				ContractType: contractType,
				Summary:      result.Summary,
				URL:          candidate.URL,
				IsFeatured:   false,
			}
			return nil
		})
	}

	// Workers never return errors; failures are already mapped to the
	// fallback above. Wait is a pure join.
	_ = g.Wait()
	return offers
}
