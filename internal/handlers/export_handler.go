package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radioterritoriale/chronique-emploi/internal/dtos"
	"github.com/radioterritoriale/chronique-emploi/internal/services"
	"github.com/radioterritoriale/chronique-emploi/internal/session"
)

// ExportHandler exposes document/print rendering and email handoff for the
// current chronicle.
type ExportHandler struct {
	Export  *services.ExportService
	Email   *services.EmailService
	Session *session.Session
}

// NewExportHandler creates the handler with dependencies.
func NewExportHandler(export *services.ExportService, email *services.EmailService, sess *session.Session) *ExportHandler {
	return &ExportHandler{Export: export, Email: email, Session: sess}
}

// ExportDocument is the GET /export/document endpoint (plain-text download).
func (h *ExportHandler) ExportDocument(c *gin.Context) {
	run := h.Session.Run()
	doc := h.Export.RenderDocument(run, h.Session.TerritorySummary())

	c.Header("Content-Disposition", `attachment; filename="chronique-emploi.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

// ExportPrint is the GET /export/print endpoint (printable HTML page).
func (h *ExportHandler) ExportPrint(c *gin.Context) {
	run := h.Session.Run()
	page := h.Export.RenderPrint(run, h.Session.TerritorySummary())

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// SendEmail is the POST /email/send endpoint. With Gmail configured it sends
// directly; otherwise it returns a mailto link for the editor's own client.
func (h *ExportHandler) SendEmail(c *gin.Context) {
	// Body is optional; without an override the session recipient is used.
	var req dtos.SendEmailRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
			return
		}
	}

	recipient := req.Email
	if recipient == "" {
		recipient = h.Session.Recipient()
	}

	run := h.Session.Run()
	summary := h.Session.TerritorySummary()

	if h.Email.CanSend() {
		if err := h.Email.Send(c.Request.Context(), recipient, run, summary); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Échec de l'envoi: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": true, "recipient": recipient})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sent":   false,
		"mailto": h.Email.BuildMailto(recipient, run, summary),
	})
}
