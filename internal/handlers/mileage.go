package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ukydev/fleet-reminders/internal/maintenance"
	"github.com/ukydev/fleet-reminders/internal/mileage"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MileageService records and edits odometer readings.
type MileageService interface {
	Log(ctx context.Context, vehicleID primitive.ObjectID, miles int, loggedAt *time.Time) (*mileage.Result, error)
	History(ctx context.Context, vehicleID primitive.ObjectID) (*models.MileageHistoryResponse, error)
	Update(ctx context.Context, id primitive.ObjectID, miles *int, loggedAt *time.Time) (*mileage.Result, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MileageHandler handles mileage log requests
type MileageHandler struct {
	service MileageService
}

// NewMileageHandler creates a new mileage handler
func NewMileageHandler(service MileageService) *MileageHandler {
	return &MileageHandler{service: service}
}

// Log records a new odometer reading
func (h *MileageHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req models.LogMileageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VehicleID == "" || req.Mileage == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !models.IsValidMileage(*req.Mileage) {
		writeError(w, http.StatusBadRequest, "Invalid mileage value")
		return
	}
	vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}

	res, err := h.service.Log(r.Context(), vehicleID, *req.Mileage, req.LoggedAt)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to log mileage")
		return
	}
	writeJSON(w, http.StatusCreated, res.Response())
}

// History returns the readings of a vehicle, newest first
func (h *MileageHandler) History(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathID(w, r, "vehicleId", "Vehicle not found")
	if !ok {
		return
	}
	resp, err := h.service.History(r.Context(), vehicleID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch mileage history")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update edits a reading
func (h *MileageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Mileage log not found")
	if !ok {
		return
	}
	var req models.UpdateMileageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.service.Update(r.Context(), id, req.Mileage, req.LoggedAt)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update mileage log")
		return
	}
	writeJSON(w, http.StatusOK, res.Response())
}

// Delete removes a reading
func (h *MileageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Mileage log not found")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete mileage log")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Mileage log deleted successfully"})
}

func (h *MileageHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, mileage.ErrVehicleNotFound):
		writeError(w, http.StatusNotFound, "Vehicle not found")
	case errors.Is(err, mileage.ErrLogNotFound):
		writeError(w, http.StatusNotFound, "Mileage log not found")
	case errors.Is(err, mileage.ErrInvalidMileage):
		writeError(w, http.StatusBadRequest, "Invalid mileage value")
	case errors.Is(err, mileage.ErrMileageNotIncreasing):
		writeError(w, http.StatusBadRequest, "New mileage must be higher than previous mileage")
	case errors.Is(err, mileage.ErrMileageNotDecreasing):
		writeError(w, http.StatusBadRequest, "Mileage must be lower than next log")
	case errors.Is(err, maintenance.ErrInvalidInterval):
		internalError(w, r, err, "Invalid service schedule")
	default:
		internalError(w, r, err, msg)
	}
}
