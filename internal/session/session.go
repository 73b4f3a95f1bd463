// Package session owns the editor's in-memory configuration and the current
// automation run. Nothing here is persisted: the session lives and dies with
// the process, and every read hands out copies so callers can never mutate
// internal state from outside.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

const defaultRecipient = "redaction@radio-territoriale.fr"

// Snapshot is the immutable view the pipeline reads at the start of a run.
type Snapshot struct {
	Territories []models.Territory
	Sources     []string
	Recipient   string
}

// Session holds territories, partner sources, the recipient address and the
// current run. All access goes through the mutex.
type Session struct {
	mu          sync.RWMutex
	territories []models.Territory
	sources     []string
	recipient   string
	run         models.AutomationRun
}

// New creates a session pre-configured with the historical default territory,
// matching what editors expect on first launch.
func New(runDate string) *Session {
	return &Session{
		territories: []models.Territory{
			{ID: "default", City: "Pontvallain", Radius: 30},
		},
		recipient: defaultRecipient,
		run: models.AutomationRun{
			Date:   runDate,
			Status: models.StatusIdle,
		},
	}
}

// AddTerritory appends a new territory with a fresh identifier. The city must
// be non-empty and the radius positive.
func (s *Session) AddTerritory(city string, radius int) (models.Territory, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.Territory{}, fmt.Errorf("territory city must not be empty")
	}
	if radius <= 0 {
		return models.Territory{}, fmt.Errorf("territory radius must be positive, got %d", radius)
	}

	t := models.Territory{
		ID:     uuid.NewString(),
		City:   city,
		Radius: radius,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.territories = append(s.territories, t)
	return t, nil
}

// RemoveTerritory deletes the territory with the given identifier, reporting
// whether it existed.
func (s *Session) RemoveTerritory(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.territories {
		if t.ID == id {
			s.territories = append(s.territories[:i], s.territories[i+1:]...)
			return true
		}
	}
	return false
}

// AddSource registers a partner source identifier (site name or URL).
// Duplicates are rejected so the same source is never requested twice.
func (s *Session) AddSource(source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return fmt.Errorf("source must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sources {
		if existing == source {
			return fmt.Errorf("source %q already configured", source)
		}
	}
	s.sources = append(s.sources, source)
	return nil
}

// RemoveSource deletes a partner source by value, reporting whether it
// existed.
func (s *Session) RemoveSource(source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.sources {
		if existing == source {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			return true
		}
	}
	return false
}

// SetRecipient updates the email recipient for chronicle delivery.
func (s *Session) SetRecipient(email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid recipient address %q", email)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipient = email
	return nil
}

// Recipient returns the configured delivery address.
func (s *Session) Recipient() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipient
}

// Snapshot returns a deep copy of the configuration for one pipeline run.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Territories: append([]models.Territory(nil), s.territories...),
		Sources:     append([]string(nil), s.sources...),
		Recipient:   s.recipient,
	}
}

// TerritorySummary renders the configured cities as the human-readable
// coverage line used in prompts and email subjects, e.g. "Pontvallain / Mayet".
func (s *Session) TerritorySummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cities := make([]string, len(s.territories))
	for i, t := range s.territories {
		cities[i] = t.City
	}
	return strings.Join(cities, " / ")
}

// Run returns a deep copy of the current automation run.
func (s *Session) Run() models.AutomationRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRun(s.run)
}

// StartRun atomically flips the run to running, clearing previous offers but
// keeping previous scripts until they are overwritten. It reports false when
// a run is already in progress; the running state is the mutual exclusion.
func (s *Session) StartRun(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run.Status == models.StatusRunning {
		return false
	}
	s.run = models.AutomationRun{
		Date:            date,
		Offers:          nil,
		ScriptServices:  s.run.ScriptServices,
		ScriptIndustrie: s.run.ScriptIndustrie,
		Status:          models.StatusRunning,
	}
	return true
}

// ReplaceRun swaps in a new run record as a whole.
func (s *Session) ReplaceRun(run models.AutomationRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = copyRun(run)
}

func copyRun(run models.AutomationRun) models.AutomationRun {
	out := run
	out.Offers = append([]models.JobOffer(nil), run.Offers...)
	return out
}
