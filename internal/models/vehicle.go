package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Vehicle represents a customer vehicle tracked for service reminders.
type Vehicle struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VIN        string             `bson:"vin" json:"vin"`
	Make       string             `bson:"make" json:"make"`
	Model      string             `bson:"model" json:"model"`
	Year       int                `bson:"year" json:"year"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// DisplayName renders the vehicle as "<year> <make> <model>".
func (v Vehicle) DisplayName() string {
	return FormatVehicleName(v.Year, v.Make, v.Model)
}

// VehicleView is a vehicle enriched for API responses.
type VehicleView struct {
	Vehicle
	Customer          *CustomerSummary `json:"customer,omitempty"`
	LatestMileage     *MileageLog      `json:"latest_mileage,omitempty"`
	NextService       *UpcomingService `json:"next_service,omitempty"`
	NextServiceStatus string           `json:"next_service_status,omitempty"` // overdue, upcoming or ok
	NextServiceDue    string           `json:"next_service_due,omitempty"`
}

// CreateVehicleRequest is the body of POST /api/vehicles.
type CreateVehicleRequest struct {
	VIN        string `json:"vin"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	CustomerID string `json:"customer_id"`
}

// UpdateVehicleRequest is the body of PUT /api/vehicles/{id}. Zero values keep the stored field.
type UpdateVehicleRequest struct {
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	CustomerID string `json:"customer_id"`
}
