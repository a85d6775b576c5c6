// Package reminders finds vehicles with services coming due and notifies their owners.
package reminders

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/maintenance"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var (
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// maxConcurrentVehicles bounds the parallel per-vehicle store lookups.
const maxConcurrentVehicles = 8

// Planner projects upcoming services from the stored mileage history.
type Planner interface {
	UpcomingServices(ctx context.Context, vehicle models.Vehicle, currentMileage int) ([]models.UpcomingService, error)
	LatestMileage(ctx context.Context, vehicle models.Vehicle) (*models.MileageLog, error)
	Thresholds() maintenance.Thresholds
}

// Candidate is a vehicle with its owner and projected services.
type Candidate struct {
	Vehicle       models.Vehicle
	Customer      *models.Customer // nil when the owner record is missing
	LatestMileage *models.MileageLog
	Services      []models.UpcomingService
}

// Reminder converts the candidate to its API form.
func (c Candidate) Reminder() models.Reminder {
	r := models.Reminder{
		CustomerID:       c.Vehicle.CustomerID,
		VehicleID:        c.Vehicle.ID,
		Vehicle:          c.Vehicle.DisplayName(),
		UpcomingServices: c.Services,
	}
	if c.Customer != nil {
		r.Customer = c.Customer.Name
	}
	return r
}

// View converts the candidate to the vehicle listing form. The next service is
// labelled against th.
func (c Candidate) View(th maintenance.Thresholds) models.VehicleView {
	v := models.VehicleView{Vehicle: c.Vehicle, LatestMileage: c.LatestMileage}
	if c.Customer != nil {
		v.Customer = c.Customer.Summary()
	}
	if len(c.Services) > 0 {
		next := c.Services[0]
		v.NextService = &next
		v.NextServiceStatus = string(th.Classify(next))
		v.NextServiceDue = maintenance.FormatServiceDue(next)
	}
	return v
}

// Builder assembles reminder candidates from the store.
type Builder struct {
	customers db.CustomerCollection
	vehicles  db.VehicleCollection
	planner   Planner
}

// NewBuilder creates a reminder builder.
func NewBuilder(customers db.CustomerCollection, vehicles db.VehicleCollection, planner Planner) *Builder {
	return &Builder{customers: customers, vehicles: vehicles, planner: planner}
}

// Candidates evaluates every vehicle matching filter, in listing order.
// Vehicles without mileage logs are included with no services, as are vehicles
// whose schedule catalog has an invalid interval.
func (b *Builder) Candidates(ctx context.Context, filter db.VehicleFilter) ([]Candidate, error) {
	vehicles, err := b.vehicles.FindVehicles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	owners, err := b.owners(ctx, vehicles)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, len(vehicles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentVehicles)
	for i, v := range vehicles {
		g.Go(func() error {
			c := Candidate{Vehicle: v, Customer: owners[v.CustomerID]}
			latest, err := b.planner.LatestMileage(gctx, v)
			if err != nil {
				return err
			}
			if latest != nil {
				c.LatestMileage = latest
				c.Services, err = b.planner.UpcomingServices(gctx, v, latest.Mileage)
				if errors.Is(err, maintenance.ErrInvalidInterval) {
					log.WithError(err).WithField("vehicle_id", v.ID.Hex()).Warn("Skipping services for vehicle with invalid schedule")
					c.Services = nil
				} else if err != nil {
					return err
				}
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// owners loads the distinct customers of vehicles. Missing customers are left out.
func (b *Builder) owners(ctx context.Context, vehicles []models.Vehicle) (map[primitive.ObjectID]*models.Customer, error) {
	owners := make(map[primitive.ObjectID]*models.Customer)
	for _, v := range vehicles {
		if _, seen := owners[v.CustomerID]; seen {
			continue
		}
		c, err := b.customers.FindCustomerByID(ctx, v.CustomerID)
		if errors.Is(err, db.ErrNotFound) {
			log.WithFields(log.Fields{"vehicle_id": v.ID.Hex(), "customer_id": v.CustomerID.Hex()}).Warn("Vehicle owner not found")
			owners[v.CustomerID] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load customer: %w", err)
		}
		owners[v.CustomerID] = c
	}
	return owners, nil
}

// ForVehicles returns one reminder per matching vehicle that has services due.
func (b *Builder) ForVehicles(ctx context.Context, filter db.VehicleFilter) ([]models.Reminder, error) {
	candidates, err := b.Candidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	reminders := []models.Reminder{}
	for _, c := range candidates {
		if len(c.Services) == 0 || c.Customer == nil {
			continue
		}
		reminders = append(reminders, c.Reminder())
	}
	return reminders, nil
}

// ForVehicle returns the reminders of one vehicle.
func (b *Builder) ForVehicle(ctx context.Context, id primitive.ObjectID) ([]models.Reminder, error) {
	if _, err := b.vehicles.FindVehicleByID(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("load vehicle: %w", err)
	}
	return b.ForVehicles(ctx, db.VehicleFilter{ID: &id})
}

// ForCustomer returns the reminders of every vehicle of a customer.
func (b *Builder) ForCustomer(ctx context.Context, id primitive.ObjectID) ([]models.Reminder, error) {
	if _, err := b.customers.FindCustomerByID(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return b.ForVehicles(ctx, db.VehicleFilter{CustomerID: &id})
}

// VehicleViews lists the matching vehicles enriched with owner, latest mileage
// and next service.
func (b *Builder) VehicleViews(ctx context.Context, filter db.VehicleFilter) ([]models.VehicleView, error) {
	candidates, err := b.Candidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	th := b.planner.Thresholds()
	views := make([]models.VehicleView, 0, len(candidates))
	for _, c := range candidates {
		views = append(views, c.View(th))
	}
	return views, nil
}

// VehicleView returns the enriched view of one vehicle.
func (b *Builder) VehicleView(ctx context.Context, id primitive.ObjectID) (*models.VehicleView, error) {
	views, err := b.VehicleViews(ctx, db.VehicleFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrVehicleNotFound
	}
	return &views[0], nil
}
