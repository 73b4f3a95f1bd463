// Package config loads and validates environment variables at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the chronicle service.
type Config struct {
	Port string

	// GeminiAPIKey may be empty: the service then falls back to the local
	// offline discovery source instead of grounded web search.
	GeminiAPIKey string

	SearchModel     string // grounded web search (discovery)
	ComposeModel    string // structured script composition
	CategorizeModel string // fast per-offer categorization

	// Bounded waits per external call. The upstream behavior has no observed
	// timeout; these are a deliberate hardening addition.
	SearchTimeout     time.Duration
	CategorizeTimeout time.Duration

	MaxOffers         int // target count per discovery run
	CategorizeWorkers int // fan-out width for categorization
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	searchModel := os.Getenv("GEMINI_SEARCH_MODEL")
	if searchModel == "" {
		searchModel = "gemini-2.5-pro"
	}
	composeModel := os.Getenv("GEMINI_COMPOSE_MODEL")
	if composeModel == "" {
		composeModel = "gemini-2.5-pro"
	}
	categorizeModel := os.Getenv("GEMINI_CATEGORIZE_MODEL")
	if categorizeModel == "" {
		categorizeModel = "gemini-2.5-flash"
	}

	maxOffers := 15
	if s := os.Getenv("MAX_OFFERS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("MAX_OFFERS must be a positive integer, got %q", s)
		}
		maxOffers = v
	}

	workers := 5
	if s := os.Getenv("CATEGORIZE_WORKERS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("CATEGORIZE_WORKERS must be a positive integer, got %q", s)
		}
		workers = v
	}

	return &Config{
		Port:              port,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		SearchModel:       searchModel,
		ComposeModel:      composeModel,
		CategorizeModel:   categorizeModel,
		SearchTimeout:     90 * time.Second,
		CategorizeTimeout: 30 * time.Second,
		MaxOffers:         maxOffers,
		CategorizeWorkers: workers,
	}, nil
}
