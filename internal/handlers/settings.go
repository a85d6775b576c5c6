package handlers

import (
	"context"
	"net/http"

	"github.com/ukydev/fleet-reminders/internal/models"
)

// Resetter wipes the store and loads the demo data set.
type Resetter interface {
	Reset(ctx context.Context) (*models.ResetResponse, error)
}

// AgentRunner runs one reminder agent pass.
type AgentRunner interface {
	RunOnce(ctx context.Context) (models.AgentRunResponse, error)
}

// SettingsHandler handles maintenance operations on the service
type SettingsHandler struct {
	resetter Resetter
	agent    AgentRunner
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(resetter Resetter, agent AgentRunner) *SettingsHandler {
	return &SettingsHandler{resetter: resetter, agent: agent}
}

// Reset reloads the demo data
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resetter.Reset(r.Context())
	if err != nil {
		internalError(w, r, err, "Failed to reset database")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RunAgent runs the reminder agent immediately
func (h *SettingsHandler) RunAgent(w http.ResponseWriter, r *http.Request) {
	summary, err := h.agent.RunOnce(r.Context())
	if err != nil {
		internalError(w, r, err, "Failed to run reminder agent")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
