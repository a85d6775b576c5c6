package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// MileageLog is a timestamped odometer reading for a vehicle.
type MileageLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	Mileage   int                `bson:"mileage" json:"mileage"`
	LoggedAt  time.Time          `bson:"logged_at" json:"logged_at"`
}

// LogMileageRequest is the body of POST /api/mileage.
type LogMileageRequest struct {
	VehicleID string     `json:"vehicle_id"`
	Mileage   *int       `json:"mileage"`
	LoggedAt  *time.Time `json:"logged_at,omitempty"`
}

// UpdateMileageRequest is the body of PUT /api/mileage/{id}.
type UpdateMileageRequest struct {
	Mileage  *int       `json:"mileage,omitempty"`
	LoggedAt *time.Time `json:"logged_at,omitempty"`
}

// LogMileageResponse carries the stored log with the recalculated upcoming services.
type LogMileageResponse struct {
	MileageLog       MileageLog        `json:"mileage_log"`
	Vehicle          Vehicle           `json:"vehicle"`
	UpcomingServices []UpcomingService `json:"upcoming_services"`
}

// MileageHistoryResponse lists a vehicle's logs, newest first.
type MileageHistoryResponse struct {
	MileageLogs []MileageLog `json:"mileage_logs"`
	Vehicle     Vehicle      `json:"vehicle"`
}
