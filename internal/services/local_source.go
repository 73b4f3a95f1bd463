package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/radioterritoriale/chronique-emploi/internal/geo"
	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// LocalSourceService is the offline discovery path, used when no Gemini API
// key is configured. It simulates a feed of recent postings around the two
// station reference points, filters them through the coverage zones and
// classifies them with a keyword heuristic instead of an AI call.
type LocalSourceService struct {
	maxOffers int
	rng       *rand.Rand
	now       func() time.Time
}

// NewLocalSourceService constructs the offline source.
func NewLocalSourceService(maxOffers int) *LocalSourceService {
	return &LocalSourceService{
		maxOffers: maxOffers,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

var (
	localJobTitles = []string{
		"Aide à domicile",
		"Infirmier/ère en EHPAD",
		"Conseiller de vente",
		"Agent de production agroalimentaire",
		"Soudeur industriel",
		"Technicien de maintenance",
		"Serveur de restaurant",
		"Secrétaire administratif",
		"Conducteur de ligne de production",
		"Préparateur de commandes",
	}

	localEmployers = []string{
		"ADMR Sud Sarthe",
		"Centre Hospitalier de La Flèche",
		"Super U Pontvallain",
		"LDC Sablé",
		"Ardagh Group",
		"Boulangerie du Coin",
		"Mairie de Mayet",
		"Logistique 72",
	}

	localCommunes = []string{
		"Pontvallain",
		"La Flèche",
		"Mayet",
		"Luché-Pringé",
		"Le Lude",
		"Mansigné",
		"Yvré-le-Pôlin",
		"Sarcé",
	}
)

// Discover generates up to maxOffers simulated postings dated within the
// last week, keeping only those inside the station coverage zones. It never
// fails: the offline path has no external dependency.
func (s *LocalSourceService) Discover(ctx context.Context, territories []models.Territory, sources []string) ([]models.JobOffer, error) {
	zones := geo.StationZones()
	today := s.now()

	var offers []models.JobOffer
	for i := 0; i < s.maxOffers; i++ {
		title := localJobTitles[s.rng.Intn(len(localJobTitles))]
		employer := localEmployers[s.rng.Intn(len(localEmployers))]
		location := localCommunes[s.rng.Intn(len(localCommunes))]

		// Random coordinates scattered over southern Sarthe.
		candidate := geo.Coords{
			Lat: 47.7 + (s.rng.Float64()-0.5)*0.3,
			Lng: 0.1 + (s.rng.Float64()-0.5)*0.3,
		}
		if !geo.IsWithinAnyZone(candidate, zones) {
			continue
		}

		category := classifyByKeywords(title)
		pubDate := today.AddDate(0, 0, -s.rng.Intn(7))

		contractType := "CDI"
		if s.rng.Float64() > 0.5 {
			contractType = "CDD 6 mois"
		}

		offers = append(offers, models.JobOffer{
			ID:                      fmt.Sprintf("ft-%s", uuid.NewString()[:8]),
			Date:                    pubDate.Format("02/01/2006"),
			Title:                   title,
			Employer:                employer,
			Location:                location,
			Category:                category,
			ContractType:            contractType,
			WorkingHours:            "Temps plein",
			Summary:                 fmt.Sprintf("%s recherche un(e) %s à %s.", employer, strings.ToLower(title), location),
			URL:                     "https://candidat.francetravail.fr/offres/recherche",
			DistanceFromPontvallain: geo.DistanceKm(candidate, geo.PontvallainCoords),
			DistanceFromLaFleche:    geo.DistanceKm(candidate, geo.LaFlecheCoords),
		})
	}

	// Most recent first, matching the ordering contract of the web path.
	sortOffersByDateDesc(offers)
	return offers, nil
}

var industrieKeywords = []string{
	"production", "soudeur", "industriel", "maintenance",
	"conducteur de ligne", "préparateur", "logistique", "usine",
}

// classifyByKeywords assigns the Industrie category when the title carries an
// industrial keyword, Services otherwise. Offline stand-in for the AI
// categorization call.
func classifyByKeywords(title string) models.JobCategory {
	lower := strings.ToLower(title)
	for _, keyword := range industrieKeywords {
		if strings.Contains(lower, keyword) {
			return models.CategoryIndustrie
		}
	}
	return models.CategoryServices
}

// sortOffersByDateDesc orders offers most-recent-first by their JJ/MM/AAAA
// date. Unparsable dates sink to the end.
func sortOffersByDateDesc(offers []models.JobOffer) {
	parse := func(s string) time.Time {
		t, err := time.Parse("02/01/2006", s)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return parse(offers[i].Date).After(parse(offers[j].Date))
	})
}
