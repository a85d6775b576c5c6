package handlers

import (
	"context"
	"net/http"

	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/notify"
	"github.com/ukydev/fleet-reminders/internal/reminders"
)

// CandidateSource finds vehicles with their projected services.
type CandidateSource interface {
	Candidates(ctx context.Context, filter db.VehicleFilter) ([]reminders.Candidate, error)
}

// Dispatcher sends the reminder of one vehicle.
type Dispatcher interface {
	Dispatch(ctx context.Context, target notify.Target, services []models.UpcomingService, opts notify.Options) notify.Outcome
}

// NotifyHandler handles manual notification requests
type NotifyHandler struct {
	candidates CandidateSource
	dispatcher Dispatcher
}

// NewNotifyHandler creates a new notification handler
func NewNotifyHandler(candidates CandidateSource, dispatcher Dispatcher) *NotifyHandler {
	return &NotifyHandler{candidates: candidates, dispatcher: dispatcher}
}

// Send notifies the owners of the selected vehicles about services coming due
func (h *NotifyHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.NotifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CustomerID == "" && req.VehicleID == "" {
		writeError(w, http.StatusBadRequest, "Either customerId or vehicleId is required")
		return
	}
	for _, t := range req.NotificationTypes {
		if !models.IsValidNotificationType(t) {
			writeError(w, http.StatusBadRequest, "Invalid notification type: "+string(t))
			return
		}
	}

	resp := models.NotifyResponse{
		Successful: models.ChannelRecipients{Email: []string{}, SMS: []string{}, Calendar: []string{}},
		Failed:     models.ChannelRecipients{Email: []string{}, SMS: []string{}, Calendar: []string{}},
	}

	customerID, ok := queryIDValue(req.CustomerID)
	vehicleID, ok2 := queryIDValue(req.VehicleID)
	if !ok || !ok2 {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	candidates, err := h.candidates.Candidates(r.Context(), db.VehicleFilter{ID: vehicleID, CustomerID: customerID})
	if err != nil {
		internalError(w, r, err, "Failed to send notifications")
		return
	}

	opts := notify.Options{Channels: req.NotificationTypes}
	for _, c := range candidates {
		if len(c.Services) == 0 || c.Customer == nil {
			continue
		}
		out := h.dispatcher.Dispatch(r.Context(), notify.Target{Customer: *c.Customer, Vehicle: c.Vehicle}, c.Services, opts)
		out.Record(&resp)
	}
	writeJSON(w, http.StatusOK, resp)
}
