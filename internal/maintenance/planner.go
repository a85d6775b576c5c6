package maintenance

import (
	"context"
	"fmt"

	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
)

// averagingWindow is the number of recent logs used to estimate daily mileage.
const averagingWindow = 2

// Planner loads a vehicle's recent mileage and schedules and runs Calculate.
type Planner struct {
	logs       db.MileageLogCollection
	schedules  db.ScheduleCollection
	thresholds Thresholds
}

// NewPlanner creates a planner reading from the given collections.
func NewPlanner(logs db.MileageLogCollection, schedules db.ScheduleCollection, th Thresholds) *Planner {
	return &Planner{logs: logs, schedules: schedules, thresholds: th}
}

// Thresholds returns the thresholds the planner was configured with.
func (p *Planner) Thresholds() Thresholds {
	return p.thresholds
}

// UpcomingServices returns the services of vehicle due soon at currentMileage.
func (p *Planner) UpcomingServices(ctx context.Context, vehicle models.Vehicle, currentMileage int) ([]models.UpcomingService, error) {
	recent, err := p.logs.FindRecentMileageLogs(ctx, vehicle.ID, averagingWindow)
	if err != nil {
		return nil, fmt.Errorf("load recent mileage for %s: %w", vehicle.ID.Hex(), err)
	}
	schedules, err := p.schedules.FindSchedulesByMakeModel(ctx, vehicle.Make, vehicle.Model)
	if err != nil {
		return nil, fmt.Errorf("load schedules for %s %s: %w", vehicle.Make, vehicle.Model, err)
	}
	return Calculate(recent, forVehicle(schedules, vehicle), currentMileage, p.thresholds)
}

// forVehicle drops schedules that belong to another make or model.
func forVehicle(schedules []models.ServiceSchedule, vehicle models.Vehicle) []models.ServiceSchedule {
	out := schedules[:0:0]
	for _, s := range schedules {
		if s.Make == vehicle.Make && s.Model == vehicle.Model {
			out = append(out, s)
		}
	}
	return out
}

// LatestMileage returns the newest log of the vehicle, or nil when it has none.
func (p *Planner) LatestMileage(ctx context.Context, vehicle models.Vehicle) (*models.MileageLog, error) {
	recent, err := p.logs.FindRecentMileageLogs(ctx, vehicle.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("load latest mileage for %s: %w", vehicle.ID.Hex(), err)
	}
	if len(recent) == 0 {
		return nil, nil
	}
	return &recent[0], nil
}
