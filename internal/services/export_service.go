package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/radioterritoriale/chronique-emploi/internal/models"
)

// ExportService renders the chronicle for download (plain text) and for the
// studio printer (self-contained HTML).
type ExportService struct{}

// NewExportService constructs the exporter.
func NewExportService() *ExportService {
	return &ExportService{}
}

// RenderDocument produces the plain-text conducteur handed to the presenter.
func (s *ExportService) RenderDocument(run models.AutomationRun, territorySummary string) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 54) + "\n"

	sb.WriteString(rule)
	sb.WriteString(fmt.Sprintf("CHRONIQUE EMPLOI — SECTEUR %s\n", strings.ToUpper(territorySummary)))
	sb.WriteString(fmt.Sprintf("Édition du %s\n", run.Date))
	sb.WriteString(rule)

	sb.WriteString("\nBLOC 1 — EMPLOI SERVICES (1m30)\n\n")
	sb.WriteString(run.ScriptServices + "\n")
	sb.WriteString("\nBLOC 2 — EMPLOI INDUSTRIE (1m30)\n\n")
	sb.WriteString(run.ScriptIndustrie + "\n")

	if len(run.Offers) > 0 {
		sb.WriteString("\n" + rule)
		sb.WriteString("OFFRES DU JOUR\n")
		sb.WriteString(rule)
		for _, offer := range run.Offers {
			marker := "  "
			if offer.IsFeatured {
				marker = "★ "
			}
			sb.WriteString(fmt.Sprintf("%s[%s] %s — %s (%s, %s)\n    %s\n",
				marker, offer.Date, offer.Title, offer.Employer,
				offer.Location, offer.ContractType, offer.URL))
		}
	}

	return sb.String()
}

// RenderPrint produces a minimal printable HTML page of the chronicle.
func (s *ExportService) RenderPrint(run models.AutomationRun, territorySummary string) string {
	esc := html.EscapeString

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>Chronique Emploi — %s</title>\n", esc(run.Date)))
	sb.WriteString("<style>body{font-family:Georgia,serif;max-width:48rem;margin:2rem auto;}h2{border-bottom:1px solid #333;}td,th{padding:.25rem .5rem;text-align:left;}</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(fmt.Sprintf("<h1>Chronique Emploi — Secteur %s</h1>\n", esc(territorySummary)))
	sb.WriteString(fmt.Sprintf("<p>Édition du %s</p>\n", esc(run.Date)))

	sb.WriteString("<h2>Bloc 1 — Emploi Services (1m30)</h2>\n")
	sb.WriteString(fmt.Sprintf("<p>%s</p>\n", strings.ReplaceAll(esc(run.ScriptServices), "\n", "<br>\n")))
	sb.WriteString("<h2>Bloc 2 — Emploi Industrie (1m30)</h2>\n")
	sb.WriteString(fmt.Sprintf("<p>%s</p>\n", strings.ReplaceAll(esc(run.ScriptIndustrie), "\n", "<br>\n")))

	if len(run.Offers) > 0 {
		sb.WriteString("<h2>Offres du jour</h2>\n<table>\n")
		sb.WriteString("<tr><th></th><th>Date</th><th>Poste</th><th>Employeur</th><th>Lieu</th><th>Contrat</th></tr>\n")
		for _, offer := range run.Offers {
			marker := ""
			if offer.IsFeatured {
				marker = "★"
			}
			sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				marker, esc(offer.Date), esc(offer.Title), esc(offer.Employer),
				esc(offer.Location), esc(offer.ContractType)))
		}
		sb.WriteString("</table>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
