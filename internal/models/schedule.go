package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceSchedule is a recurring maintenance rule for a make/model.
type ServiceSchedule struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Make           string             `json:"make" bson:"make"`
	Model          string             `json:"model" bson:"model"`
	ServiceType    ServiceType        `json:"service_type" bson:"service_type"`
	Description    string             `json:"description" bson:"description"`
	IntervalMiles  int                `json:"interval_miles" bson:"interval_miles"`
	IntervalMonths int                `json:"interval_months" bson:"interval_months"` // stored only; due dates are mileage based
}

// UpcomingService is a projection of how far away a service is.
// It is computed on demand and never persisted.
type UpcomingService struct {
	Type       ServiceType `json:"type"`
	DueInMiles int         `json:"due_in_miles"`
	DueInDays  int         `json:"due_in_days"`
}
