package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// ReminderPreference selects which channels a customer wants reminders on.
type ReminderPreference string

const (
	PreferEmail ReminderPreference = "email"
	PreferSMS   ReminderPreference = "sms"
	PreferBoth  ReminderPreference = "both"
)

// WantsEmail reports whether email reminders are allowed by the preference.
func (p ReminderPreference) WantsEmail() bool {
	return p == PreferEmail || p == PreferBoth
}

// WantsSMS reports whether SMS reminders are allowed by the preference.
func (p ReminderPreference) WantsSMS() bool {
	return p == PreferSMS || p == PreferBoth
}

// Customer owns one or more vehicles and receives reminders.
type Customer struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                  string             `bson:"name" json:"name"`
	Email                 string             `bson:"email" json:"email"`
	Phone                 string             `bson:"phone" json:"phone"`
	PreferredReminderType ReminderPreference `bson:"preferred_reminder_type" json:"preferred_reminder_type"`
	Timezone              string             `bson:"timezone" json:"timezone"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
}

// CustomerSummary is the subset of customer fields embedded in vehicle responses.
type CustomerSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone"`
}

// Summary returns the public summary of the customer.
func (c Customer) Summary() *CustomerSummary {
	return &CustomerSummary{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}
