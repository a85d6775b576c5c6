package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/reminders"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleViewer enriches vehicles for API responses.
type VehicleViewer interface {
	VehicleViews(ctx context.Context, filter db.VehicleFilter) ([]models.VehicleView, error)
	VehicleView(ctx context.Context, id primitive.ObjectID) (*models.VehicleView, error)
}

// VehicleHandler handles vehicle requests
type VehicleHandler struct {
	customers db.CustomerCollection
	vehicles  db.VehicleCollection
	logs      db.MileageLogCollection
	viewer    VehicleViewer
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(customers db.CustomerCollection, vehicles db.VehicleCollection, logs db.MileageLogCollection, viewer VehicleViewer) *VehicleHandler {
	return &VehicleHandler{customers: customers, vehicles: vehicles, logs: logs, viewer: viewer}
}

// List returns all vehicles, optionally filtered by the customerId query parameter
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryID(r, "customerId")
	if !ok {
		writeJSON(w, http.StatusOK, models.VehiclesResponse{Vehicles: []models.VehicleView{}})
		return
	}

	views, err := h.viewer.VehicleViews(r.Context(), db.VehicleFilter{CustomerID: customerID})
	if err != nil {
		internalError(w, r, err, "Failed to fetch vehicles")
		return
	}
	writeJSON(w, http.StatusOK, models.VehiclesResponse{Vehicles: views, Total: len(views)})
}

// Get returns one vehicle
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Vehicle not found")
	if !ok {
		return
	}
	view, err := h.viewer.VehicleView(r.Context(), id)
	if errors.Is(err, reminders.ErrVehicleNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to fetch vehicle")
		return
	}
	writeJSON(w, http.StatusOK, models.VehicleResponse{Vehicle: *view})
}

// Create registers a new vehicle
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, capitalize(err.Error()))
		return
	}

	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if !h.customerExists(w, r, customerID) {
		return
	}

	if _, err := h.vehicles.FindVehicleByVIN(r.Context(), req.VIN); err == nil {
		writeError(w, http.StatusConflict, "Vehicle with this VIN already exists")
		return
	} else if !errors.Is(err, db.ErrNotFound) {
		internalError(w, r, err, "Failed to create vehicle")
		return
	}

	vehicle := models.Vehicle{
		ID:         primitive.NewObjectID(),
		VIN:        req.VIN,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		internalError(w, r, err, "Failed to create vehicle")
		return
	}

	log.WithFields(log.Fields{"vehicle_id": vehicle.ID.Hex(), "vin": vehicle.VIN}).Info("Vehicle created")
	writeJSON(w, http.StatusCreated, models.VehicleResponse{Vehicle: models.VehicleView{Vehicle: vehicle}})
}

// Update changes the make, model, year or owner of a vehicle
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Vehicle not found")
	if !ok {
		return
	}
	var req models.UpdateVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to update vehicle")
		return
	}

	if req.Year != 0 && !models.IsValidYear(req.Year) {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	if req.CustomerID != "" {
		customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
		if err != nil {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		if !h.customerExists(w, r, customerID) {
			return
		}
		vehicle.CustomerID = customerID
	}
	if req.Make != "" {
		vehicle.Make = req.Make
	}
	if req.Model != "" {
		vehicle.Model = req.Model
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}

	if err := h.vehicles.UpdateVehicle(r.Context(), id, *vehicle); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		internalError(w, r, err, "Failed to update vehicle")
		return
	}

	view, err := h.viewer.VehicleView(r.Context(), id)
	if err != nil {
		internalError(w, r, err, "Failed to update vehicle")
		return
	}
	writeJSON(w, http.StatusOK, models.VehicleResponse{Vehicle: *view})
}

// Delete removes a vehicle and its mileage history
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Vehicle not found")
	if !ok {
		return
	}
	err := h.vehicles.DeleteVehicle(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to delete vehicle")
		return
	}
	if err := h.logs.DeleteMileageLogsByVehicle(r.Context(), id); err != nil {
		log.WithError(err).WithField("vehicle_id", id.Hex()).Warn("Failed to delete mileage logs of vehicle")
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Vehicle deleted successfully"})
}

// customerExists writes 404 or 500 and returns false unless the customer exists.
func (h *VehicleHandler) customerExists(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) bool {
	_, err := h.customers.FindCustomerByID(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Customer not found")
		return false
	}
	if err != nil {
		internalError(w, r, err, "Failed to load customer")
		return false
	}
	return true
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
