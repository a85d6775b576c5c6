package models

// APIResponse is the envelope of every JSON API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// VehiclesResponse is returned by GET /api/vehicles.
type VehiclesResponse struct {
	Vehicles []VehicleView `json:"vehicles"`
	Total    int           `json:"total"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// VehicleResponse wraps a single vehicle.
type VehicleResponse struct {
	Vehicle VehicleView `json:"vehicle"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
