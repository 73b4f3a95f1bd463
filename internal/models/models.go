package models

import "fmt"

// JobCategory is one of the two fixed chronicle categories. Every offer
// carries exactly one of these values, even when categorization fails.
type JobCategory string

const (
	CategoryServices  JobCategory = "Emploi – Services"
	CategoryIndustrie JobCategory = "Emploi – Industrie"
)

// ParseCategory validates a raw string (typically from an AI response)
// against the two allowed categories.
func ParseCategory(s string) (JobCategory, error) {
	switch JobCategory(s) {
	case CategoryServices:
		return CategoryServices, nil
	case CategoryIndustrie:
		return CategoryIndustrie, nil
	}
	return "", fmt.Errorf("unknown job category %q", s)
}

// IsValid reports whether c is one of the two chronicle categories.
func (c JobCategory) IsValid() bool {
	return c == CategoryServices || c == CategoryIndustrie
}

// RunStatus is the lifecycle state of the current automation run.
type RunStatus string

const (
	StatusIdle      RunStatus = "idle"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusError     RunStatus = "error"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (RunStatus, error) {
	switch RunStatus(s) {
	case StatusIdle, StatusRunning, StatusCompleted, StatusError:
		return RunStatus(s), nil
	}
	return "", fmt.Errorf("unknown run status %q", s)
}

// Territory is a named geographic search zone. Territories are never
// mutated in place: editing one means removing it and adding a replacement.
type Territory struct {
	ID     string `json:"id"`
	City   string `json:"city"`
	Radius int    `json:"radius"` // km, always positive
}

// JobOffer is a single discovered posting, enriched with a category and a
// short on-air summary. The ID is stable for the lifetime of a run and is
// the key used to mark featured offers after script composition.
type JobOffer struct {
	ID           string      `json:"id"`
	Date         string      `json:"date"` // as published, JJ/MM or JJ/MM/AAAA
	Title        string      `json:"title"`
	Employer     string      `json:"employer"`
	Location     string      `json:"location"`
	Category     JobCategory `json:"category"`
	ContractType string      `json:"contractType"`
	WorkingHours string      `json:"workingHours,omitempty"`
	Summary      string      `json:"summary"`
	URL          string      `json:"url"`
	IsFeatured   bool        `json:"isFeatured"`

	// Distances from the two station reference points. Only the local
	// discovery path fills these; web discovery leaves them at zero.
	DistanceFromPontvallain float64 `json:"distanceFromPontvallain"`
	DistanceFromLaFleche    float64 `json:"distanceFromLaFleche"`
}

// ScriptBundle is the composed chronicle: one script per category block plus
// the identifiers of the offers the composer chose to feature. FeaturedIDs
// that match no offer are simply ignored by the join.
type ScriptBundle struct {
	Services    string   `json:"services"`
	Industrie   string   `json:"industrie"`
	FeaturedIDs []string `json:"featuredIds"`
}

// AutomationRun is the whole result of one automation cycle. The session
// replaces it as a unit; nothing mutates it field by field across goroutines.
type AutomationRun struct {
	Date            string     `json:"date"` // locale-formatted, JJ/MM/AAAA
	Offers          []JobOffer `json:"offers"`
	ScriptServices  string     `json:"scriptServices"`
	ScriptIndustrie string     `json:"scriptIndustrie"`
	Status          RunStatus  `json:"status"`
}
