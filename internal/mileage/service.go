// Package mileage records odometer readings and keeps them monotonic per vehicle.
package mileage

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrLogNotFound          = errors.New("mileage log not found")
	ErrInvalidMileage       = errors.New("invalid mileage value")
	ErrMileageNotIncreasing = errors.New("mileage must be higher than previous log")
	ErrMileageNotDecreasing = errors.New("mileage must be lower than next log")
)

// Planner projects upcoming services for a vehicle.
type Planner interface {
	UpcomingServices(ctx context.Context, vehicle models.Vehicle, currentMileage int) ([]models.UpcomingService, error)
}

// Result is a stored log together with the services due at its mileage.
type Result struct {
	Log              models.MileageLog
	Vehicle          models.Vehicle
	UpcomingServices []models.UpcomingService
}

// Response converts the result to its API form.
func (r *Result) Response() models.LogMileageResponse {
	return models.LogMileageResponse{MileageLog: r.Log, Vehicle: r.Vehicle, UpcomingServices: r.UpcomingServices}
}

// Service handles mileage log operations
type Service struct {
	vehicles db.VehicleCollection
	logs     db.MileageLogCollection
	planner  Planner
	now      func() time.Time
}

// NewService creates a new mileage service
func NewService(vehicles db.VehicleCollection, logs db.MileageLogCollection, planner Planner) *Service {
	return &Service{vehicles: vehicles, logs: logs, planner: planner, now: time.Now}
}

// Log stores a new reading for vehicleID. loggedAt defaults to now. The
// reading must sit strictly between the readings logged before and after it,
// so a back-dated log is checked against both sides.
func (s *Service) Log(ctx context.Context, vehicleID primitive.ObjectID, mileage int, loggedAt *time.Time) (*Result, error) {
	if !models.IsValidMileage(mileage) {
		return nil, ErrInvalidMileage
	}
	vehicle, err := s.vehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	entry := models.MileageLog{VehicleID: vehicleID, Mileage: mileage, LoggedAt: s.now().UTC()}
	if loggedAt != nil {
		entry.LoggedAt = loggedAt.UTC()
	}
	history, err := s.logs.FindMileageLogs(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load mileage history: %w", err)
	}
	if err := checkOrder(history, primitive.NilObjectID, entry.LoggedAt, mileage); err != nil {
		return nil, err
	}

	// Project before writing so a catalog error leaves the history untouched.
	upcoming, err := s.planner.UpcomingServices(ctx, *vehicle, mileage)
	if err != nil {
		return nil, err
	}
	entry.ID, err = s.logs.InsertMileageLog(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("insert mileage log: %w", err)
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID.Hex(),
		"mileage":    mileage,
		"upcoming":   len(upcoming),
	}).Info("Mileage logged")
	return &Result{Log: entry, Vehicle: *vehicle, UpcomingServices: upcoming}, nil
}

// History returns the vehicle and its logs, newest first.
func (s *Service) History(ctx context.Context, vehicleID primitive.ObjectID) (*models.MileageHistoryResponse, error) {
	vehicle, err := s.vehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.FindMileageLogs(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load mileage history: %w", err)
	}
	return &models.MileageHistoryResponse{MileageLogs: logs, Vehicle: *vehicle}, nil
}

// Update edits the reading and/or timestamp of a log. The resulting reading
// must stay strictly between the readings of its chronological neighbours at
// the resulting timestamp.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, mileage *int, loggedAt *time.Time) (*Result, error) {
	entry, err := s.logs.FindMileageLogByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load mileage log: %w", err)
	}
	if mileage != nil && !models.IsValidMileage(*mileage) {
		return nil, ErrInvalidMileage
	}
	vehicle, err := s.vehicle(ctx, entry.VehicleID)
	if err != nil {
		return nil, err
	}

	updated := *entry
	if mileage != nil {
		updated.Mileage = *mileage
	}
	if loggedAt != nil {
		updated.LoggedAt = loggedAt.UTC()
	}
	if mileage != nil || loggedAt != nil {
		history, err := s.logs.FindMileageLogs(ctx, entry.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("load mileage history: %w", err)
		}
		if err := checkOrder(history, entry.ID, updated.LoggedAt, updated.Mileage); err != nil {
			return nil, err
		}
	}

	upcoming, err := s.planner.UpcomingServices(ctx, *vehicle, updated.Mileage)
	if err != nil {
		return nil, err
	}
	if err := s.logs.UpdateMileageLog(ctx, updated.ID, updated); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("update mileage log: %w", err)
	}
	return &Result{Log: updated, Vehicle: *vehicle, UpcomingServices: upcoming}, nil
}

// Delete removes a log.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.logs.DeleteMileageLog(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}

func (s *Service) vehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.FindVehicleByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load vehicle: %w", err)
	}
	return vehicle, nil
}

// neighboursAt finds the logs immediately before and after at, ignoring the
// log with id exclude. A log at exactly at counts as before.
func neighboursAt(history []models.MileageLog, exclude primitive.ObjectID, at time.Time) (previous, next *models.MileageLog) {
	for i := range history {
		l := &history[i]
		if l.ID == exclude {
			continue
		}
		if l.LoggedAt.After(at) {
			if next == nil || l.LoggedAt.Before(next.LoggedAt) {
				next = l
			}
			continue
		}
		if previous == nil || l.LoggedAt.After(previous.LoggedAt) {
			previous = l
		}
	}
	return previous, next
}

// checkOrder rejects mileage that would break monotonic readings at at.
func checkOrder(history []models.MileageLog, exclude primitive.ObjectID, at time.Time, mileage int) error {
	previous, next := neighboursAt(history, exclude, at)
	if previous != nil && previous.Mileage >= mileage {
		return fmt.Errorf("%w (previous %d)", ErrMileageNotIncreasing, previous.Mileage)
	}
	if next != nil && next.Mileage <= mileage {
		return fmt.Errorf("%w (next %d)", ErrMileageNotDecreasing, next.Mileage)
	}
	return nil
}
