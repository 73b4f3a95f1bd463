package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
	"github.com/radioterritoriale/chronique-emploi/internal/session"
)

var (
	// ErrNoTerritories rejects a run before any external call is made.
	ErrNoTerritories = errors.New("aucun territoire configuré")
	// ErrRunInProgress rejects a trigger while a run is active.
	ErrRunInProgress = errors.New("une génération est déjà en cours")
)

// ScriptComposer is the composition capability the controller sequences after
// discovery.
type ScriptComposer interface {
	Compose(ctx context.Context, offers []models.JobOffer, territorySummary string) models.ScriptBundle
}

// AutomationService sequences discovery and composition, owns the run state
// machine and performs the featured-flag join.
type AutomationService struct {
	session *session.Session
	source  JobSource
	scripts ScriptComposer
	now     func() time.Time
}

// NewAutomationService constructs the controller.
func NewAutomationService(sess *session.Session, source JobSource, scripts ScriptComposer) *AutomationService {
	return &AutomationService{
		session: sess,
		source:  source,
		scripts: scripts,
		now:     time.Now,
	}
}

// RunDate formats a run date the way the antenna expects it (JJ/MM/AAAA).
func RunDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// Run executes one full automation cycle and returns the final run record.
// Exactly one run is active at a time: the running status is the lock.
func (s *AutomationService) Run(ctx context.Context) (models.AutomationRun, error) {
	snap := s.session.Snapshot()
	if len(snap.Territories) == 0 {
		return s.session.Run(), ErrNoTerritories
	}

	date := RunDate(s.now())
	if !s.session.StartRun(date) {
		return s.session.Run(), ErrRunInProgress
	}

	log.Println("🚀 Automation run started: grounded web scan...")

	offers, err := s.source.Discover(ctx, snap.Territories, snap.Sources)
	if err != nil {
		log.Printf("❌ Discovery failed: %v", err)
		run := s.session.Run()
		run.Offers = nil
		run.Status = models.StatusError
		s.session.ReplaceRun(run)
		return run, fmt.Errorf("discovery: %w", err)
	}

	if len(offers) == 0 {
		log.Println("✅ Discovery returned no offers; scripts left untouched.")
		run := s.session.Run()
		run.Offers = []models.JobOffer{}
		run.Status = models.StatusCompleted
		s.session.ReplaceRun(run)
		return run, nil
	}

	log.Printf("📻 %d offers found, composing scripts...", len(offers))

	bundle := s.scripts.Compose(ctx, offers, s.session.TerritorySummary())
	offers = ApplyFeatured(offers, bundle)

	run := models.AutomationRun{
		Date:            date,
		Offers:          offers,
		ScriptServices:  bundle.Services,
		ScriptIndustrie: bundle.Industrie,
		Status:          models.StatusCompleted,
	}
	s.session.ReplaceRun(run)

	log.Println("✅ Chronicle ready.")
	return run, nil
}

// ApplyFeatured sets the featured flag on every offer whose identifier
// appears in the bundle's featured set and clears it on all others. The join
// is idempotent; identifiers matching no offer are ignored.
func ApplyFeatured(offers []models.JobOffer, bundle models.ScriptBundle) []models.JobOffer {
	featured := make(map[string]bool, len(bundle.FeaturedIDs))
	for _, id := range bundle.FeaturedIDs {
		featured[id] = true
	}

	out := make([]models.JobOffer, len(offers))
	for i, offer := range offers {
		offer.IsFeatured = featured[offer.ID]
		out[i] = offer
	}
	return out
}
