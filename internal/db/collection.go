package db

import (
	"context"
	"errors"

	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup by id matches no document.
var ErrNotFound = errors.New("not found")

// VehicleFilter narrows FindVehicles. Nil fields match everything.
type VehicleFilter struct {
	ID         *primitive.ObjectID
	CustomerID *primitive.ObjectID
}

// CustomerCollection defines the interface for customer data operations.
type CustomerCollection interface {
	InsertCustomer(ctx context.Context, customer models.Customer) (primitive.ObjectID, error)
	FindCustomerByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error)
	FindVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	FindVehicleByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id primitive.ObjectID, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id primitive.ObjectID) error
}

// MileageLogCollection defines the interface for odometer log operations.
// Every Find method returns logs newest first.
type MileageLogCollection interface {
	InsertMileageLog(ctx context.Context, log models.MileageLog) (primitive.ObjectID, error)
	FindMileageLogByID(ctx context.Context, id primitive.ObjectID) (*models.MileageLog, error)
	FindRecentMileageLogs(ctx context.Context, vehicleID primitive.ObjectID, limit int64) ([]models.MileageLog, error)
	FindMileageLogs(ctx context.Context, vehicleID primitive.ObjectID) ([]models.MileageLog, error)
	UpdateMileageLog(ctx context.Context, id primitive.ObjectID, log models.MileageLog) error
	DeleteMileageLog(ctx context.Context, id primitive.ObjectID) error
	DeleteMileageLogsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) error
}

// ScheduleCollection defines the interface for service schedule reference data.
type ScheduleCollection interface {
	InsertSchedules(ctx context.Context, schedules []models.ServiceSchedule) error
	FindSchedulesByMakeModel(ctx context.Context, make, model string) ([]models.ServiceSchedule, error)
}
