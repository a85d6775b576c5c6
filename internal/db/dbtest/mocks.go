// Package dbtest provides testify mocks of the db collection interfaces.
package dbtest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCustomerCollection is a mock implementation of db.CustomerCollection
type MockCustomerCollection struct {
	mock.Mock
}

func (m *MockCustomerCollection) InsertCustomer(ctx context.Context, customer models.Customer) (primitive.ObjectID, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockCustomerCollection) FindCustomerByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (primitive.ObjectID, error) {
	args := m.Called(ctx, vehicle)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context, filter db.VehicleFilter) ([]models.Vehicle, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	args := m.Called(ctx, vin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) UpdateVehicle(ctx context.Context, id primitive.ObjectID, vehicle models.Vehicle) error {
	args := m.Called(ctx, id, vehicle)
	return args.Error(0)
}

func (m *MockVehicleCollection) DeleteVehicle(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMileageLogCollection is a mock implementation of db.MileageLogCollection
type MockMileageLogCollection struct {
	mock.Mock
}

func (m *MockMileageLogCollection) InsertMileageLog(ctx context.Context, log models.MileageLog) (primitive.ObjectID, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockMileageLogCollection) FindMileageLogByID(ctx context.Context, id primitive.ObjectID) (*models.MileageLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MileageLog), args.Error(1)
}

func (m *MockMileageLogCollection) FindRecentMileageLogs(ctx context.Context, vehicleID primitive.ObjectID, limit int64) ([]models.MileageLog, error) {
	args := m.Called(ctx, vehicleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MileageLog), args.Error(1)
}

func (m *MockMileageLogCollection) FindMileageLogs(ctx context.Context, vehicleID primitive.ObjectID) ([]models.MileageLog, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MileageLog), args.Error(1)
}

func (m *MockMileageLogCollection) UpdateMileageLog(ctx context.Context, id primitive.ObjectID, log models.MileageLog) error {
	args := m.Called(ctx, id, log)
	return args.Error(0)
}

func (m *MockMileageLogCollection) DeleteMileageLog(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMileageLogCollection) DeleteMileageLogsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

// MockScheduleCollection is a mock implementation of db.ScheduleCollection
type MockScheduleCollection struct {
	mock.Mock
}

func (m *MockScheduleCollection) InsertSchedules(ctx context.Context, schedules []models.ServiceSchedule) error {
	args := m.Called(ctx, schedules)
	return args.Error(0)
}

func (m *MockScheduleCollection) FindSchedulesByMakeModel(ctx context.Context, make, model string) ([]models.ServiceSchedule, error) {
	args := m.Called(ctx, make, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceSchedule), args.Error(1)
}

// Store returns a db.Store wired to fresh mocks.
func Store() (*db.Store, *MockCustomerCollection, *MockVehicleCollection, *MockMileageLogCollection, *MockScheduleCollection) {
	c, v, l, s := new(MockCustomerCollection), new(MockVehicleCollection), new(MockMileageLogCollection), new(MockScheduleCollection)
	return &db.Store{Customers: c, Vehicles: v, MileageLogs: l, Schedules: s}, c, v, l, s
}
