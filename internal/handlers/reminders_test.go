package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/notify"
	"github.com/ukydev/fleet-reminders/internal/reminders"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleReminder() models.Reminder {
	return models.Reminder{
		CustomerID:       primitive.NewObjectID(),
		VehicleID:        primitive.NewObjectID(),
		Customer:         "John Smith",
		Vehicle:          "2020 Toyota Camry",
		UpcomingServices: []models.UpcomingService{{Type: models.ServiceOilChange, DueInMiles: 120, DueInDays: 4}},
		Actions:          models.ReminderActions{EmailSent: true},
	}
}

func TestReminderHandler_List(t *testing.T) {
	t.Run("all reminders", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		b.On("ForVehicles", mock.Anything, db.VehicleFilter{}).Return([]models.Reminder{sampleReminder()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.RemindersResponse
		decodeData(t, w, &resp)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "2020 Toyota Camry", resp.Reminders[0].Vehicle)
		assert.True(t, resp.Reminders[0].Actions.EmailSent)
	})

	t.Run("both filters", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		customerID, vehicleID := primitive.NewObjectID(), primitive.NewObjectID()
		b.On("ForVehicles", mock.Anything, db.VehicleFilter{ID: &vehicleID, CustomerID: &customerID}).Return([]models.Reminder{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders?customerId="+customerID.Hex()+"&vehicleId="+vehicleID.Hex(), nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		b.AssertExpectations(t)
	})

	t.Run("malformed filter matches nothing", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders?vehicleId=bad", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.RemindersResponse
		decodeData(t, w, &resp)
		assert.Equal(t, 0, resp.Total)
		b.AssertNotCalled(t, "ForVehicles", mock.Anything, mock.Anything)
	})

	t.Run("builder error", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		b.On("ForVehicles", mock.Anything, db.VehicleFilter{}).Return(nil, errors.New("boom"))

		req := httptest.NewRequest(http.MethodGet, "/api/reminders", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to generate reminders", decodeEnvelope(t, w).Error)
	})
}

func TestReminderHandler_ForVehicle(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		b.On("ForVehicle", mock.Anything, id).Return([]models.Reminder{sampleReminder()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders/vehicle/"+id.Hex(), nil)
		req.SetPathValue("id", id.Hex())
		w := httptest.NewRecorder()
		h.ForVehicle(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		b.On("ForVehicle", mock.Anything, id).Return(nil, reminders.ErrVehicleNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders/vehicle/"+id.Hex(), nil)
		req.SetPathValue("id", id.Hex())
		w := httptest.NewRecorder()
		h.ForVehicle(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Vehicle not found", decodeEnvelope(t, w).Error)
	})
}

func TestReminderHandler_ForCustomer(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		b.On("ForCustomer", mock.Anything, id).Return([]models.Reminder{sampleReminder(), sampleReminder()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders/customer/"+id.Hex(), nil)
		req.SetPathValue("id", id.Hex())
		w := httptest.NewRecorder()
		h.ForCustomer(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.RemindersResponse
		decodeData(t, w, &resp)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("unknown customer", func(t *testing.T) {
		b := new(MockReminderBuilder)
		h := NewReminderHandler(b)
		b.On("ForCustomer", mock.Anything, id).Return(nil, reminders.ErrCustomerNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/reminders/customer/"+id.Hex(), nil)
		req.SetPathValue("id", id.Hex())
		w := httptest.NewRecorder()
		h.ForCustomer(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Customer not found", decodeEnvelope(t, w).Error)
	})
}

func TestNotifyHandler_Send(t *testing.T) {
	customer := models.Customer{ID: primitive.NewObjectID(), Name: "Jane Doe", Email: "jane@example.com", Phone: "+15551234567"}
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Make: "Honda", Model: "Civic", Year: 2019, CustomerID: customer.ID}
	services := []models.UpcomingService{{Type: models.ServiceTireRotation, DueInMiles: 300, DueInDays: 10}}

	t.Run("requires a selector", func(t *testing.T) {
		src, d := new(MockReminderBuilder), new(MockDispatcher)
		h := NewNotifyHandler(src, d)

		req := httptest.NewRequest(http.MethodPost, "/api/notify", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		h.Send(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Either customerId or vehicleId is required", decodeEnvelope(t, w).Error)
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		src, d := new(MockReminderBuilder), new(MockDispatcher)
		h := NewNotifyHandler(src, d)

		req := httptest.NewRequest(http.MethodPost, "/api/notify", bytes.NewBufferString(`{"vehicle_id":"`+vehicle.ID.Hex()+`","notification_types":["fax"]}`))
		w := httptest.NewRecorder()
		h.Send(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid notification type: fax", decodeEnvelope(t, w).Error)
	})

	t.Run("records deliveries", func(t *testing.T) {
		src, d := new(MockReminderBuilder), new(MockDispatcher)
		h := NewNotifyHandler(src, d)
		idle := models.Vehicle{ID: primitive.NewObjectID(), CustomerID: customer.ID}
		src.On("Candidates", mock.Anything, db.VehicleFilter{CustomerID: &customer.ID}).Return([]reminders.Candidate{
			{Vehicle: vehicle, Customer: &customer, Services: services},
			{Vehicle: idle, Customer: &customer},
		}, nil)
		opts := notify.Options{Channels: []models.NotificationType{models.NotifyEmail, models.NotifySMS}}
		d.On("Dispatch", mock.Anything, notify.Target{Customer: customer, Vehicle: vehicle}, services, opts).Return(notify.Outcome{
			Deliveries: []notify.Delivery{
				{Channel: models.NotifyEmail, Recipient: customer.Email, MessageID: "m-1"},
				{Channel: models.NotifySMS, Recipient: customer.Phone, Err: notify.ErrDeliveryFailed},
			},
		})

		body := `{"customer_id":"` + customer.ID.Hex() + `","notification_types":["email","sms"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/notify", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		h.Send(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.NotifyResponse
		decodeData(t, w, &resp)
		assert.Equal(t, 1, resp.NotificationsSent)
		assert.Equal(t, []string{customer.Email}, resp.Successful.Email)
		assert.Equal(t, []string{customer.Phone}, resp.Failed.SMS)
		assert.Empty(t, resp.Successful.Calendar)
		d.AssertNumberOfCalls(t, "Dispatch", 1)
	})

	t.Run("malformed id sends nothing", func(t *testing.T) {
		src, d := new(MockReminderBuilder), new(MockDispatcher)
		h := NewNotifyHandler(src, d)

		req := httptest.NewRequest(http.MethodPost, "/api/notify", bytes.NewBufferString(`{"vehicle_id":"zzz"}`))
		w := httptest.NewRecorder()
		h.Send(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.NotifyResponse
		decodeData(t, w, &resp)
		assert.Equal(t, 0, resp.NotificationsSent)
		src.AssertNotCalled(t, "Candidates", mock.Anything, mock.Anything)
	})
}
