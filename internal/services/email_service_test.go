package services_test

import (
	"strings"
	"testing"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
	"github.com/radioterritoriale/chronique-emploi/internal/services"
)

func chronicleRun() models.AutomationRun {
	return models.AutomationRun{
		Date:            "29/08/2026",
		ScriptServices:  "Bonjour à tous [PAUSE] voici les offres services.",
		ScriptIndustrie: "Et côté industrie [PAUSE] voici les offres.",
		Status:          models.StatusCompleted,
	}
}

func TestBuildSubject_UppercasesSector(t *testing.T) {
	email := services.NewEmailService(nil)
	got := email.BuildSubject("Pontvallain / La Flèche", "29/08/2026")
	want := "CHRONIQUE EMPLOI - SECTEUR PONTVALLAIN / LA FLÈCHE - 29/08/2026"
	if got != want {
		t.Errorf("BuildSubject = %q, want %q", got, want)
	}
}

func TestBuildBody_ContainsBothBlocks(t *testing.T) {
	email := services.NewEmailService(nil)
	body := email.BuildBody(chronicleRun(), "Pontvallain")

	for _, want := range []string{
		"CHRONIQUE 1 : EMPLOI SERVICES (1m30)",
		"CHRONIQUE 2 : EMPLOI INDUSTRIE (1m30)",
		"voici les offres services.",
		"voici les offres.",
		"L'Automate Chroniques Emploi",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
}

func TestBuildMailto_EncodesRecipientAndPayload(t *testing.T) {
	email := services.NewEmailService(nil)
	link := email.BuildMailto("antenne@example.fr", chronicleRun(), "Pontvallain")

	if !strings.HasPrefix(link, "mailto:antenne@example.fr?subject=") {
		t.Errorf("unexpected mailto prefix: %s", link[:40])
	}
	if strings.ContainsAny(strings.TrimPrefix(link, "mailto:antenne@example.fr"), " \n") {
		t.Error("mailto payload must be percent-encoded")
	}
	if !strings.Contains(link, "&body=") {
		t.Error("mailto link should carry a body parameter")
	}
}

func TestSend_WithoutGmailClientFails(t *testing.T) {
	email := services.NewEmailService(nil)
	if email.CanSend() {
		t.Error("CanSend must be false without a Gmail client")
	}
	if err := email.Send(t.Context(), "antenne@example.fr", chronicleRun(), "Pontvallain"); err == nil {
		t.Error("Send without a client should fail")
	}
}
