package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radioterritoriale/chronique-emploi/internal/dtos"
	"github.com/radioterritoriale/chronique-emploi/internal/session"
)

// SessionHandler exposes the editor's configuration: territories, partner
// sources and the delivery recipient.
type SessionHandler struct {
	Session *session.Session
}

// NewSessionHandler creates the handler.
func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{Session: sess}
}

// ListConfig is the GET /config endpoint.
func (h *SessionHandler) ListConfig(c *gin.Context) {
	snap := h.Session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"territories": snap.Territories,
		"sources":     snap.Sources,
		"recipient":   snap.Recipient,
	})
}

// AddTerritory is the POST /territories endpoint.
func (h *SessionHandler) AddTerritory(c *gin.Context) {
	var req dtos.TerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	territory, err := h.Session.AddTerritory(req.City, req.Radius)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, territory)
}

// RemoveTerritory is the DELETE /territories/:id endpoint.
func (h *SessionHandler) RemoveTerritory(c *gin.Context) {
	if !h.Session.RemoveTerritory(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Territoire introuvable."})
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSource is the POST /sources endpoint.
func (h *SessionHandler) AddSource(c *gin.Context) {
	var req dtos.SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	if err := h.Session.AddSource(req.Source); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"source": req.Source})
}

// RemoveSource is the DELETE /sources endpoint (source in the body, since
// partner sources are arbitrary strings, often URLs).
func (h *SessionHandler) RemoveSource(c *gin.Context) {
	var req dtos.SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	if !h.Session.RemoveSource(req.Source) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source introuvable."})
		return
	}
	c.Status(http.StatusNoContent)
}

// SetRecipient is the PUT /recipient endpoint.
func (h *SessionHandler) SetRecipient(c *gin.Context) {
	var req dtos.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	if err := h.Session.SetRecipient(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipient": req.Email})
}
