package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radioterritoriale/chronique-emploi/internal/services"
	"github.com/radioterritoriale/chronique-emploi/internal/session"
)

// AutomationHandler exposes the run trigger and the current run state.
type AutomationHandler struct {
	Automation *services.AutomationService
	Session    *session.Session
}

// NewAutomationHandler creates the handler with dependencies.
func NewAutomationHandler(automation *services.AutomationService, sess *session.Session) *AutomationHandler {
	return &AutomationHandler{Automation: automation, Session: sess}
}

// RunAutomation is the POST /automation/run endpoint. It runs the full
// pipeline synchronously and returns the settled run.
func (h *AutomationHandler) RunAutomation(c *gin.Context) {
	run, err := h.Automation.Run(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrNoTerritories):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Veuillez ajouter au moins une ville."})
		return
	case errors.Is(err, services.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Une génération est déjà en cours."})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Erreur lors de la génération.",
			"run":   run,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run})
}

// GetRun is the GET /automation endpoint returning the current run record.
func (h *AutomationHandler) GetRun(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"run": h.Session.Run()})
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
