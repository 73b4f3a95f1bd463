package config_test

import (
	"testing"

	"github.com/radioterritoriale/chronique-emploi/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAX_OFFERS", "")
	t.Setenv("CATEGORIZE_WORKERS", "")
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port == "" {
		t.Error("port should default")
	}
	if cfg.MaxOffers != 15 {
		t.Errorf("MaxOffers = %d, want 15", cfg.MaxOffers)
	}
	if cfg.CategorizeWorkers < 1 {
		t.Errorf("CategorizeWorkers = %d, want >= 1", cfg.CategorizeWorkers)
	}
	if cfg.SearchTimeout <= 0 || cfg.CategorizeTimeout <= 0 {
		t.Error("per-call timeouts must be positive")
	}
}

func TestLoad_RejectsBadMaxOffers(t *testing.T) {
	for _, bad := range []string{"0", "-3", "quinze"} {
		t.Setenv("MAX_OFFERS", bad)
		if _, err := config.Load(); err == nil {
			t.Errorf("MAX_OFFERS=%q should be rejected", bad)
		}
	}
}

func TestLoad_RejectsBadWorkerCount(t *testing.T) {
	t.Setenv("CATEGORIZE_WORKERS", "0")
	if _, err := config.Load(); err == nil {
		t.Error("CATEGORIZE_WORKERS=0 should be rejected")
	}
}
