package handlers

import "net/http"

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Vehicles  *VehicleHandler
	Mileage   *MileageHandler
	Reminders *ReminderHandler
	Notify    *NotifyHandler
	Settings  *SettingsHandler
	Health    *HealthHandler
}

// NewRouter registers every API route. Unknown paths answer 404 with the JSON envelope.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/vehicles", h.Vehicles.List)
	mux.HandleFunc("POST /api/vehicles", h.Vehicles.Create)
	mux.HandleFunc("GET /api/vehicles/{id}", h.Vehicles.Get)
	mux.HandleFunc("PUT /api/vehicles/{id}", h.Vehicles.Update)
	mux.HandleFunc("DELETE /api/vehicles/{id}", h.Vehicles.Delete)

	mux.HandleFunc("POST /api/mileage", h.Mileage.Log)
	mux.HandleFunc("GET /api/mileage/{vehicleId}", h.Mileage.History)
	mux.HandleFunc("PUT /api/mileage/{id}", h.Mileage.Update)
	mux.HandleFunc("DELETE /api/mileage/{id}", h.Mileage.Delete)

	mux.HandleFunc("GET /api/reminders", h.Reminders.List)
	mux.HandleFunc("GET /api/reminders/vehicle/{id}", h.Reminders.ForVehicle)
	mux.HandleFunc("GET /api/reminders/customer/{id}", h.Reminders.ForCustomer)

	mux.HandleFunc("POST /api/notify", h.Notify.Send)
	mux.HandleFunc("POST /api/settings/reset", h.Settings.Reset)
	mux.HandleFunc("POST /api/agent/run", h.Settings.RunAgent)

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("/", NotFound)
	return mux
}
