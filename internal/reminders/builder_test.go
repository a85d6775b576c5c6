package reminders

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/db/dbtest"
	"github.com/ukydev/fleet-reminders/internal/maintenance"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockPlanner is a mock implementation of Planner
type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) UpcomingServices(ctx context.Context, vehicle models.Vehicle, currentMileage int) ([]models.UpcomingService, error) {
	args := m.Called(ctx, vehicle, currentMileage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UpcomingService), args.Error(1)
}

func (m *MockPlanner) LatestMileage(ctx context.Context, vehicle models.Vehicle) (*models.MileageLog, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MileageLog), args.Error(1)
}

func (m *MockPlanner) Thresholds() maintenance.Thresholds {
	args := m.Called()
	return args.Get(0).(maintenance.Thresholds)
}

type fleet struct {
	john, jane          models.Customer
	honda, toyota, bare models.Vehicle
	oil                 []models.UpcomingService
}

func newFleet() fleet {
	f := fleet{
		john: models.Customer{ID: primitive.NewObjectID(), Name: "John Smith", Email: "john.smith@example.com", PreferredReminderType: models.PreferEmail},
		jane: models.Customer{ID: primitive.NewObjectID(), Name: "Jane Doe", Email: "jane.doe@example.com", PreferredReminderType: models.PreferBoth},
		oil:  []models.UpcomingService{{Type: models.ServiceOilChange, DueInMiles: 500, DueInDays: 9}},
	}
	f.honda = models.Vehicle{ID: primitive.NewObjectID(), Make: "Honda", Model: "Accord", Year: 2020, CustomerID: f.john.ID}
	f.toyota = models.Vehicle{ID: primitive.NewObjectID(), Make: "Toyota", Model: "Camry", Year: 2021, CustomerID: f.jane.ID}
	f.bare = models.Vehicle{ID: primitive.NewObjectID(), Make: "Tesla", Model: "Model S", Year: 2022, CustomerID: f.jane.ID}
	return f
}

// expect wires the mocks for a listing of all three vehicles: the Honda is due,
// the Toyota is not, and the Tesla has no logs.
func (f fleet) expect(customers *dbtest.MockCustomerCollection, vehicles *dbtest.MockVehicleCollection, planner *MockPlanner, filter db.VehicleFilter) {
	vehicles.On("FindVehicles", mock.Anything, filter).Return([]models.Vehicle{f.bare, f.toyota, f.honda}, nil)
	customers.On("FindCustomerByID", mock.Anything, f.john.ID).Return(&f.john, nil)
	customers.On("FindCustomerByID", mock.Anything, f.jane.ID).Return(&f.jane, nil)
	planner.On("LatestMileage", mock.Anything, f.honda).Return(&models.MileageLog{Mileage: 14500}, nil)
	planner.On("LatestMileage", mock.Anything, f.toyota).Return(&models.MileageLog{Mileage: 8000}, nil)
	planner.On("LatestMileage", mock.Anything, f.bare).Return(nil, nil)
	planner.On("UpcomingServices", mock.Anything, f.honda, 14500).Return(f.oil, nil)
	planner.On("UpcomingServices", mock.Anything, f.toyota, 8000).Return([]models.UpcomingService{}, nil)
}

func newTestBuilder() (*Builder, *dbtest.MockCustomerCollection, *dbtest.MockVehicleCollection, *MockPlanner) {
	_, customers, vehicles, _, _ := dbtest.Store()
	planner := new(MockPlanner)
	planner.On("Thresholds").Return(maintenance.DefaultThresholds()).Maybe()
	return NewBuilder(customers, vehicles, planner), customers, vehicles, planner
}

func TestBuilder_ForVehicles(t *testing.T) {
	f := newFleet()
	b, customers, vehicles, planner := newTestBuilder()
	f.expect(customers, vehicles, planner, db.VehicleFilter{})

	reminders, err := b.ForVehicles(context.Background(), db.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "John Smith", reminders[0].Customer)
	assert.Equal(t, "2020 Honda Accord", reminders[0].Vehicle)
	assert.Equal(t, f.honda.ID, reminders[0].VehicleID)
	assert.Equal(t, f.oil, reminders[0].UpcomingServices)
	assert.Equal(t, models.ReminderActions{}, reminders[0].Actions)

	// Each owner is looked up once.
	customers.AssertNumberOfCalls(t, "FindCustomerByID", 2)
	planner.AssertNotCalled(t, "UpcomingServices", mock.Anything, f.bare, mock.Anything)
}

func TestBuilder_VehicleViews(t *testing.T) {
	f := newFleet()
	b, customers, vehicles, planner := newTestBuilder()
	f.expect(customers, vehicles, planner, db.VehicleFilter{})

	views, err := b.VehicleViews(context.Background(), db.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, f.bare.ID, views[0].ID, "listing order is kept")
	assert.Nil(t, views[0].LatestMileage)
	assert.Nil(t, views[0].NextService)
	assert.Equal(t, "Jane Doe", views[0].Customer.Name)

	assert.Nil(t, views[1].NextService)
	assert.Equal(t, 8000, views[1].LatestMileage.Mileage)

	assert.Empty(t, views[1].NextServiceStatus)
	assert.Empty(t, views[1].NextServiceDue)

	require.NotNil(t, views[2].NextService)
	assert.Equal(t, models.ServiceOilChange, views[2].NextService.Type)
	assert.Equal(t, string(maintenance.UrgencyUpcoming), views[2].NextServiceStatus)
	assert.Equal(t, "Due in 1 weeks", views[2].NextServiceDue)
}

func TestCandidate_ViewOverdue(t *testing.T) {
	f := newFleet()
	c := Candidate{
		Vehicle:  f.honda,
		Services: []models.UpcomingService{{Type: models.ServiceTireRotation, DueInMiles: -20, DueInDays: 40}},
	}

	v := c.View(maintenance.DefaultThresholds())
	assert.Equal(t, "overdue", v.NextServiceStatus)
	assert.Equal(t, "Overdue", v.NextServiceDue)
	assert.Nil(t, v.Customer)
}

func TestBuilder_ForVehicle(t *testing.T) {
	t.Run("unknown vehicle", func(t *testing.T) {
		b, _, vehicles, _ := newTestBuilder()
		id := primitive.NewObjectID()
		vehicles.On("FindVehicleByID", mock.Anything, id).Return(nil, db.ErrNotFound)

		_, err := b.ForVehicle(context.Background(), id)
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})

	t.Run("vehicle with nothing due", func(t *testing.T) {
		f := newFleet()
		b, customers, vehicles, planner := newTestBuilder()
		filter := db.VehicleFilter{ID: &f.toyota.ID}
		vehicles.On("FindVehicleByID", mock.Anything, f.toyota.ID).Return(&f.toyota, nil)
		vehicles.On("FindVehicles", mock.Anything, filter).Return([]models.Vehicle{f.toyota}, nil)
		customers.On("FindCustomerByID", mock.Anything, f.jane.ID).Return(&f.jane, nil)
		planner.On("LatestMileage", mock.Anything, f.toyota).Return(&models.MileageLog{Mileage: 8000}, nil)
		planner.On("UpcomingServices", mock.Anything, f.toyota, 8000).Return([]models.UpcomingService{}, nil)

		reminders, err := b.ForVehicle(context.Background(), f.toyota.ID)
		require.NoError(t, err)
		assert.Empty(t, reminders)
		assert.NotNil(t, reminders)
	})
}

func TestBuilder_ForCustomer(t *testing.T) {
	t.Run("unknown customer", func(t *testing.T) {
		b, customers, _, _ := newTestBuilder()
		id := primitive.NewObjectID()
		customers.On("FindCustomerByID", mock.Anything, id).Return(nil, db.ErrNotFound)

		_, err := b.ForCustomer(context.Background(), id)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("filters by owner", func(t *testing.T) {
		f := newFleet()
		b, customers, vehicles, planner := newTestBuilder()
		filter := db.VehicleFilter{CustomerID: &f.john.ID}
		customers.On("FindCustomerByID", mock.Anything, f.john.ID).Return(&f.john, nil)
		vehicles.On("FindVehicles", mock.Anything, filter).Return([]models.Vehicle{f.honda}, nil)
		planner.On("LatestMileage", mock.Anything, f.honda).Return(&models.MileageLog{Mileage: 14500}, nil)
		planner.On("UpcomingServices", mock.Anything, f.honda, 14500).Return(f.oil, nil)

		reminders, err := b.ForCustomer(context.Background(), f.john.ID)
		require.NoError(t, err)
		require.Len(t, reminders, 1)
		assert.Equal(t, f.john.ID, reminders[0].CustomerID)
	})
}

func TestBuilder_PlannerError(t *testing.T) {
	f := newFleet()
	b, customers, vehicles, planner := newTestBuilder()
	vehicles.On("FindVehicles", mock.Anything, db.VehicleFilter{}).Return([]models.Vehicle{f.honda}, nil)
	customers.On("FindCustomerByID", mock.Anything, f.john.ID).Return(&f.john, nil)
	planner.On("LatestMileage", mock.Anything, f.honda).Return(nil, assert.AnError)

	_, err := b.Candidates(context.Background(), db.VehicleFilter{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuilder_InvalidScheduleIsSkipped(t *testing.T) {
	f := newFleet()
	b, customers, vehicles, planner := newTestBuilder()
	vehicles.On("FindVehicles", mock.Anything, db.VehicleFilter{}).Return([]models.Vehicle{f.toyota, f.honda}, nil)
	customers.On("FindCustomerByID", mock.Anything, f.john.ID).Return(&f.john, nil)
	customers.On("FindCustomerByID", mock.Anything, f.jane.ID).Return(&f.jane, nil)
	planner.On("LatestMileage", mock.Anything, f.honda).Return(&models.MileageLog{Mileage: 14500}, nil)
	planner.On("LatestMileage", mock.Anything, f.toyota).Return(&models.MileageLog{Mileage: 8000}, nil)
	planner.On("UpcomingServices", mock.Anything, f.honda, 14500).Return(f.oil, nil)
	planner.On("UpcomingServices", mock.Anything, f.toyota, 8000).
		Return(nil, fmt.Errorf("Toyota Camry %q: %w", models.ServiceOilChange, maintenance.ErrInvalidInterval))

	reminders, err := b.ForVehicles(context.Background(), db.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, f.honda.ID, reminders[0].VehicleID)

	views, err := b.VehicleViews(context.Background(), db.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 8000, views[0].LatestMileage.Mileage)
	assert.Nil(t, views[0].NextService)
}

func TestBuilder_MissingOwnerIsSkipped(t *testing.T) {
	f := newFleet()
	b, customers, vehicles, planner := newTestBuilder()
	vehicles.On("FindVehicles", mock.Anything, db.VehicleFilter{}).Return([]models.Vehicle{f.honda}, nil)
	customers.On("FindCustomerByID", mock.Anything, f.john.ID).Return(nil, db.ErrNotFound)
	planner.On("LatestMileage", mock.Anything, f.honda).Return(&models.MileageLog{Mileage: 14500}, nil)
	planner.On("UpcomingServices", mock.Anything, f.honda, 14500).Return(f.oil, nil)

	reminders, err := b.ForVehicles(context.Background(), db.VehicleFilter{})
	require.NoError(t, err)
	assert.Empty(t, reminders)

	views, err := b.VehicleViews(context.Background(), db.VehicleFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Customer)
}
