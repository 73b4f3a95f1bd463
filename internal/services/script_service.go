package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// ComposeClient is the structured generation capability behind script
// composition.
type ComposeClient interface {
	Compose(ctx context.Context, prompt string) (string, error)
}

// scriptErrorPlaceholder replaces both blocks when composition fails. The run
// still completes: a degraded chronicle beats a dead dashboard.
const scriptErrorPlaceholder = "Erreur de génération."

// ScriptService composes the two fixed-duration chronicle blocks from a
// finalized offer list.
type ScriptService struct {
	generate ComposeClient
}

// NewScriptService constructs the composer.
func NewScriptService(generate ComposeClient) *ScriptService {
	return &ScriptService{generate: generate}
}

const composePrompt = `Rédige le script intégral d'une chronique radio de 3 MINUTES EXACTES (env. 500 mots).
Territoire couvert : %s

STRUCTURE :
- Bloc 1 : Emploi – Services (1m30)
- Bloc 2 : Emploi – Industrie (1m30)

CONTENU :
- Identifie les 4 meilleures offres (2 par bloc). Rédige pour elles un paragraphe narratif vivant.
- Cite les autres offres de manière fluide.
- Utilise des balises de respiration [PAUSE] pour l'animateur.

DONNÉES :
%s

STYLE : Ton chaleureux de radio locale, professionnel et dynamique. Mentionne bien la diversité géographique du territoire.

Répond au format JSON avec les champs "services", "industrie" et "featuredIds" (liste des ID retenus).`

// Compose builds the script bundle for the given offers. It is total: any
// call or decode failure yields the placeholder bundle, never an error.
func (s *ScriptService) Compose(ctx context.Context, offers []models.JobOffer, territorySummary string) models.ScriptBundle {
	prompt := fmt.Sprintf(composePrompt, territorySummary, formatOffersForPrompt(offers))

	raw, err := s.generate.Compose(ctx, prompt)
	if err != nil {
		log.Printf("❌ Script composition failed, using placeholder: %v", err)
		return fallbackBundle()
	}

	var decoded struct {
		Services    string   `json:"services"`
		Industrie   string   `json:"industrie"`
		FeaturedIDs []string `json:"featuredIds"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &decoded); err != nil {
		log.Printf("❌ Script response undecodable, using placeholder: %v", err)
		return fallbackBundle()
	}

	bundle := models.ScriptBundle{
		Services:    decoded.Services,
		Industrie:   decoded.Industrie,
		FeaturedIDs: decoded.FeaturedIDs,
	}
	if bundle.FeaturedIDs == nil {
		bundle.FeaturedIDs = []string{}
	}
	return bundle
}

func formatOffersForPrompt(offers []models.JobOffer) string {
	lines := make([]string, len(offers))
	for i, offer := range offers {
		lines[i] = fmt.Sprintf("ID:%s | %s | %s | %s | %s",
			offer.ID, offer.Title, offer.Employer, offer.Location, offer.Summary)
	}
	return strings.Join(lines, "\n")
}

func fallbackBundle() models.ScriptBundle {
	return models.ScriptBundle{
		Services:    scriptErrorPlaceholder,
		Industrie:   scriptErrorPlaceholder,
		FeaturedIDs: []string{},
	}
}
