package models_test

import (
	"testing"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// ── ParseCategory ──────────────────────────────────────────────────────────

func TestParseCategory_ValidValues(t *testing.T) {
	valid := []string{"Emploi – Services", "Emploi – Industrie"}
	for _, s := range valid {
		got, err := models.ParseCategory(s)
		if err != nil {
			t.Errorf("ParseCategory(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseCategory(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseCategory_InvalidValues(t *testing.T) {
	invalid := []string{"", "Services", "Emploi - Services", "Emploi – Agriculture"}
	for _, s := range invalid {
		if _, err := models.ParseCategory(s); err == nil {
			t.Errorf("ParseCategory(%q) expected error, got nil", s)
		}
	}
}

func TestJobCategory_IsValid(t *testing.T) {
	if !models.CategoryServices.IsValid() || !models.CategoryIndustrie.IsValid() {
		t.Error("both chronicle categories must be valid")
	}
	if models.JobCategory("Autre").IsValid() {
		t.Error("unknown category must not be valid")
	}
}

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"idle", "running", "completed", "error"}
	for _, s := range valid {
		got, err := models.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"", "RUNNING", "done"} {
		if _, err := models.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}
