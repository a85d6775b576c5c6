package db

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const day = 24 * time.Hour

// SeedData is the demo data set loaded by Reset.
type SeedData struct {
	Customers []models.Customer
	Vehicles  []models.Vehicle
	Logs      []models.MileageLog
	Schedules []models.ServiceSchedule
}

// NewSeedData builds the demo data set with mileage logs relative to now.
// Customers, vehicles and logs carry pre-assigned ids so they can reference each other.
func NewSeedData(now time.Time) SeedData {
	now = now.UTC()
	john := models.Customer{
		ID:                    primitive.NewObjectID(),
		Name:                  "John Smith",
		Email:                 "john.smith@example.com",
		Phone:                 "(555) 123-4567",
		PreferredReminderType: models.PreferEmail,
		Timezone:              "America/New_York",
		CreatedAt:             now,
	}
	jane := models.Customer{
		ID:                    primitive.NewObjectID(),
		Name:                  "Jane Doe",
		Email:                 "jane.doe@example.com",
		Phone:                 "(555) 987-6543",
		PreferredReminderType: models.PreferBoth,
		Timezone:              "America/Los_Angeles",
		CreatedAt:             now,
	}

	honda := models.Vehicle{ID: primitive.NewObjectID(), VIN: "1HGCM82633A123456", Make: "Honda", Model: "Accord", Year: 2020, CustomerID: john.ID, CreatedAt: now}
	toyota := models.Vehicle{ID: primitive.NewObjectID(), VIN: "JH4KA7660NC789012", Make: "Toyota", Model: "Camry", Year: 2021, CustomerID: jane.ID, CreatedAt: now.Add(time.Millisecond)}
	tesla := models.Vehicle{ID: primitive.NewObjectID(), VIN: "5YJSA1E40FF345678", Make: "Tesla", Model: "Model S", Year: 2022, CustomerID: jane.ID, CreatedAt: now.Add(2 * time.Millisecond)}

	logAt := func(v models.Vehicle, mileage int, ago time.Duration) models.MileageLog {
		return models.MileageLog{ID: primitive.NewObjectID(), VehicleID: v.ID, Mileage: mileage, LoggedAt: now.Add(-ago)}
	}
	logs := []models.MileageLog{
		logAt(honda, 5000, 180*day),
		logAt(honda, 10000, 90*day),
		logAt(honda, 14500, 0),
		logAt(toyota, 3000, 120*day),
		logAt(toyota, 8000, 0),
		logAt(tesla, 2000, 60*day),
		logAt(tesla, 4500, 0),
	}

	var schedules []models.ServiceSchedule
	for _, v := range []models.Vehicle{honda, toyota} {
		for _, st := range models.AllServiceTypes {
			schedules = append(schedules, models.DefaultSchedule(v.Make, v.Model, st))
		}
	}
	for _, st := range []models.ServiceType{
		models.ServiceTireRotation,
		models.ServiceBrakeInspection,
		models.ServiceAirFilter,
		models.ServiceWiperBlades,
	} {
		schedules = append(schedules, models.DefaultSchedule(tesla.Make, tesla.Model, st))
	}
	// EV batteries last longer than the catalogue default.
	battery := models.DefaultSchedule(tesla.Make, tesla.Model, models.ServiceBatteryReplacement)
	battery.IntervalMiles = 100000
	battery.IntervalMonths = 60
	schedules = append(schedules, battery)

	return SeedData{
		Customers: []models.Customer{john, jane},
		Vehicles:  []models.Vehicle{honda, toyota, tesla},
		Logs:      logs,
		Schedules: schedules,
	}
}

// Seed inserts data into the store's collections. Customers are validated
// before anything is written.
func (s *Store) Seed(ctx context.Context, data SeedData) (*models.ResetResponse, error) {
	for _, c := range data.Customers {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("seed customer %q: %w", c.Name, err)
		}
	}
	for _, c := range data.Customers {
		if _, err := s.Customers.InsertCustomer(ctx, c); err != nil {
			return nil, fmt.Errorf("seed customer %q: %w", c.Name, err)
		}
	}
	for _, v := range data.Vehicles {
		if _, err := s.Vehicles.InsertVehicle(ctx, v); err != nil {
			return nil, fmt.Errorf("seed vehicle %s: %w", v.VIN, err)
		}
	}
	for _, l := range data.Logs {
		if _, err := s.MileageLogs.InsertMileageLog(ctx, l); err != nil {
			return nil, fmt.Errorf("seed mileage log: %w", err)
		}
	}
	if err := s.Schedules.InsertSchedules(ctx, data.Schedules); err != nil {
		return nil, fmt.Errorf("seed schedules: %w", err)
	}

	resp := &models.ResetResponse{
		Success:                 true,
		CustomersCreated:        len(data.Customers),
		VehiclesCreated:         len(data.Vehicles),
		MileageLogsCreated:      len(data.Logs),
		ServiceSchedulesCreated: len(data.Schedules),
	}
	log.WithFields(log.Fields{
		"customers": resp.CustomersCreated,
		"vehicles":  resp.VehiclesCreated,
		"logs":      resp.MileageLogsCreated,
		"schedules": resp.ServiceSchedulesCreated,
	}).Info("Seed data loaded")
	return resp, nil
}

// Reset wipes the store and loads the demo data set.
func (s *Store) Reset(ctx context.Context) (*models.ResetResponse, error) {
	if err := s.Drop(ctx); err != nil {
		return nil, err
	}
	return s.Seed(ctx, NewSeedData(time.Now()))
}
