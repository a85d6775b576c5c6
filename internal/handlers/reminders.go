package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/reminders"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderBuilder previews reminders without sending them.
type ReminderBuilder interface {
	ForVehicles(ctx context.Context, filter db.VehicleFilter) ([]models.Reminder, error)
	ForVehicle(ctx context.Context, id primitive.ObjectID) ([]models.Reminder, error)
	ForCustomer(ctx context.Context, id primitive.ObjectID) ([]models.Reminder, error)
}

// ReminderHandler handles reminder preview requests
type ReminderHandler struct {
	builder ReminderBuilder
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(builder ReminderBuilder) *ReminderHandler {
	return &ReminderHandler{builder: builder}
}

// List previews reminders, optionally filtered by customerId and vehicleId
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryID(r, "customerId")
	vehicleID, ok2 := queryID(r, "vehicleId")
	if !ok || !ok2 {
		writeJSON(w, http.StatusOK, models.RemindersResponse{Reminders: []models.Reminder{}})
		return
	}
	list, err := h.builder.ForVehicles(r.Context(), db.VehicleFilter{ID: vehicleID, CustomerID: customerID})
	if err != nil {
		internalError(w, r, err, "Failed to generate reminders")
		return
	}
	writeJSON(w, http.StatusOK, models.RemindersResponse{Reminders: list, Total: len(list)})
}

// ForVehicle previews the reminders of one vehicle
func (h *ReminderHandler) ForVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Vehicle not found")
	if !ok {
		return
	}
	list, err := h.builder.ForVehicle(r.Context(), id)
	if errors.Is(err, reminders.ErrVehicleNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to generate vehicle reminders")
		return
	}
	writeJSON(w, http.StatusOK, models.RemindersResponse{Reminders: list, Total: len(list)})
}

// ForCustomer previews the reminders of every vehicle of a customer
func (h *ReminderHandler) ForCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Customer not found")
	if !ok {
		return
	}
	list, err := h.builder.ForCustomer(r.Context(), id)
	if errors.Is(err, reminders.ErrCustomerNotFound) {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to generate customer reminders")
		return
	}
	writeJSON(w, http.StatusOK, models.RemindersResponse{Reminders: list, Total: len(list)})
}
