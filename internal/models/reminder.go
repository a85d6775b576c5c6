package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NotificationType is a reminder delivery channel.
type NotificationType string

const (
	NotifyEmail    NotificationType = "email"
	NotifySMS      NotificationType = "sms"
	NotifyCalendar NotificationType = "calendar"
)

// AllNotificationTypes is used when a request does not restrict channels.
var AllNotificationTypes = []NotificationType{NotifyEmail, NotifySMS, NotifyCalendar}

// IsValidNotificationType checks if a notification type is known
func IsValidNotificationType(t NotificationType) bool {
	switch t {
	case NotifyEmail, NotifySMS, NotifyCalendar:
		return true
	default:
		return false
	}
}

// ReminderActions records which deliveries succeeded for a reminder.
type ReminderActions struct {
	EmailSent              bool `json:"email_sent"`
	SMSSent                bool `json:"sms_sent"`
	CalendarInviteAttached bool `json:"calendar_invite_attached"`
}

// Reminder groups the upcoming services of one vehicle for its owner.
type Reminder struct {
	CustomerID       primitive.ObjectID `json:"customer_id"`
	VehicleID        primitive.ObjectID `json:"vehicle_id"`
	Customer         string             `json:"customer"`
	Vehicle          string             `json:"vehicle"`
	UpcomingServices []UpcomingService  `json:"upcoming_services"`
	Actions          ReminderActions    `json:"actions"`
}

// RemindersResponse is returned by the reminder preview endpoints.
type RemindersResponse struct {
	Reminders []Reminder `json:"reminders"`
	Total     int        `json:"total"`
}

// NotifyRequest is the body of POST /api/notify.
type NotifyRequest struct {
	CustomerID        string             `json:"customer_id,omitempty"`
	VehicleID         string             `json:"vehicle_id,omitempty"`
	NotificationTypes []NotificationType `json:"notification_types,omitempty"`
}

// ChannelRecipients lists recipients per delivery channel.
type ChannelRecipients struct {
	Email    []string `json:"email"`
	SMS      []string `json:"sms"`
	Calendar []string `json:"calendar"`
}

// Add appends a recipient to the list of the given channel.
func (c *ChannelRecipients) Add(t NotificationType, recipient string) {
	switch t {
	case NotifyEmail:
		c.Email = append(c.Email, recipient)
	case NotifySMS:
		c.SMS = append(c.SMS, recipient)
	case NotifyCalendar:
		c.Calendar = append(c.Calendar, recipient)
	}
}

// NotifyResponse summarises a manual notification run.
type NotifyResponse struct {
	NotificationsSent int               `json:"notifications_sent"`
	Successful        ChannelRecipients `json:"successful"`
	Failed            ChannelRecipients `json:"failed"`
}

// ResetResponse reports what the seed loader created.
type ResetResponse struct {
	Success                 bool `json:"success"`
	CustomersCreated        int  `json:"customers_created"`
	VehiclesCreated         int  `json:"vehicles_created"`
	MileageLogsCreated      int  `json:"mileage_logs_created"`
	ServiceSchedulesCreated int  `json:"service_schedules_created"`
}

// AgentRunResponse reports a reminder agent pass.
type AgentRunResponse struct {
	VehiclesChecked int `json:"vehicles_checked"`
	RemindersSent   int `json:"reminders_sent"`
}
