package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/mileage"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/notify"
	"github.com/ukydev/fleet-reminders/internal/reminders"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockVehicleViewer is a mock implementation of VehicleViewer
type MockVehicleViewer struct {
	mock.Mock
}

func (m *MockVehicleViewer) VehicleViews(ctx context.Context, filter db.VehicleFilter) ([]models.VehicleView, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VehicleView), args.Error(1)
}

func (m *MockVehicleViewer) VehicleView(ctx context.Context, id primitive.ObjectID) (*models.VehicleView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VehicleView), args.Error(1)
}

// MockMileageService is a mock implementation of MileageService
type MockMileageService struct {
	mock.Mock
}

func (m *MockMileageService) Log(ctx context.Context, vehicleID primitive.ObjectID, miles int, loggedAt *time.Time) (*mileage.Result, error) {
	args := m.Called(ctx, vehicleID, miles, loggedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mileage.Result), args.Error(1)
}

func (m *MockMileageService) History(ctx context.Context, vehicleID primitive.ObjectID) (*models.MileageHistoryResponse, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MileageHistoryResponse), args.Error(1)
}

func (m *MockMileageService) Update(ctx context.Context, id primitive.ObjectID, miles *int, loggedAt *time.Time) (*mileage.Result, error) {
	args := m.Called(ctx, id, miles, loggedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mileage.Result), args.Error(1)
}

func (m *MockMileageService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReminderBuilder is a mock implementation of ReminderBuilder and CandidateSource
type MockReminderBuilder struct {
	mock.Mock
}

func (m *MockReminderBuilder) ForVehicles(ctx context.Context, filter db.VehicleFilter) ([]models.Reminder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reminder), args.Error(1)
}

func (m *MockReminderBuilder) ForVehicle(ctx context.Context, id primitive.ObjectID) ([]models.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reminder), args.Error(1)
}

func (m *MockReminderBuilder) ForCustomer(ctx context.Context, id primitive.ObjectID) ([]models.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reminder), args.Error(1)
}

func (m *MockReminderBuilder) Candidates(ctx context.Context, filter db.VehicleFilter) ([]reminders.Candidate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reminders.Candidate), args.Error(1)
}

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, target notify.Target, services []models.UpcomingService, opts notify.Options) notify.Outcome {
	args := m.Called(ctx, target, services, opts)
	return args.Get(0).(notify.Outcome)
}

// MockResetter is a mock implementation of Resetter
type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) Reset(ctx context.Context) (*models.ResetResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResetResponse), args.Error(1)
}

// MockAgentRunner is a mock implementation of AgentRunner
type MockAgentRunner struct {
	mock.Mock
}

func (m *MockAgentRunner) RunOnce(ctx context.Context) (models.AgentRunResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AgentRunResponse), args.Error(1)
}

// envelope decodes an API response, leaving Data as raw JSON for decodeData.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, v))
}
