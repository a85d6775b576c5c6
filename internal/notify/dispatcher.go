package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/config"
	"github.com/ukydev/fleet-reminders/internal/models"
)

// Target is the vehicle and owner a reminder is about.
type Target struct {
	Customer models.Customer
	Vehicle  models.Vehicle
}

// Options restricts a dispatch.
type Options struct {
	// Channels to try. Empty means every channel.
	Channels []models.NotificationType
	// CalendarWindowDays skips the calendar invite unless the earliest service
	// is due within this many days. Zero disables the check.
	CalendarWindowDays int
}

func (o Options) wants(t models.NotificationType) bool {
	if len(o.Channels) == 0 {
		return true
	}
	for _, c := range o.Channels {
		if c == t {
			return true
		}
	}
	return false
}

// Delivery is the result of one send attempt.
type Delivery struct {
	Channel   models.NotificationType
	Recipient string
	MessageID string
	Err       error
}

// Outcome collects the deliveries of one reminder.
type Outcome struct {
	Actions    models.ReminderActions
	Deliveries []Delivery
}

// Sent counts successful deliveries.
func (o Outcome) Sent() int {
	n := 0
	for _, d := range o.Deliveries {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Record adds the deliveries to a notify response.
func (o Outcome) Record(resp *models.NotifyResponse) {
	for _, d := range o.Deliveries {
		if d.Err == nil {
			resp.Successful.Add(d.Channel, d.Recipient)
			resp.NotificationsSent++
		} else {
			resp.Failed.Add(d.Channel, d.Recipient)
		}
	}
}

// Dispatcher renders reminders and hands them to a Sender.
type Dispatcher struct {
	sender Sender
	cfg    config.NotifyConfig
	now    func() time.Time
}

// NewDispatcher creates a dispatcher honouring the channel switches of cfg.
func NewDispatcher(sender Sender, cfg config.NotifyConfig) *Dispatcher {
	return &Dispatcher{sender: sender, cfg: cfg, now: time.Now}
}

// Dispatch sends the reminder for target over every allowed channel. Email and
// SMS follow the customer's preference and the enabled switches; the calendar
// invite goes to the customer's email address. services must be sorted most
// urgent first. Nothing is sent when services is empty.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target, services []models.UpcomingService, opts Options) Outcome {
	var out Outcome
	if len(services) == 0 {
		return out
	}
	customer := target.Customer
	vehicle := target.Vehicle.DisplayName()
	pref := customer.PreferredReminderType

	if opts.wants(models.NotifyEmail) && pref.WantsEmail() && d.cfg.EmailEnabled {
		subject, body := EmailMessage(customer.Name, vehicle, services)
		delivery := d.send(ctx, Message{
			Channel: models.NotifyEmail,
			From:    d.cfg.EmailFrom,
			To:      customer.Email,
			Subject: subject,
			Body:    body,
		})
		out.Actions.EmailSent = delivery.Err == nil
		out.Deliveries = append(out.Deliveries, delivery)
	}

	if opts.wants(models.NotifySMS) && pref.WantsSMS() && d.cfg.SMSEnabled {
		delivery := d.send(ctx, Message{
			Channel: models.NotifySMS,
			From:    d.cfg.SMSFrom,
			To:      customer.Phone,
			Body:    SMSMessage(vehicle, services),
		})
		out.Actions.SMSSent = delivery.Err == nil
		out.Deliveries = append(out.Deliveries, delivery)
	}

	inWindow := opts.CalendarWindowDays <= 0 || services[0].DueInDays <= opts.CalendarWindowDays
	if opts.wants(models.NotifyCalendar) && inWindow {
		event := NewCalendarEvent(uuid.NewString(), vehicle, services, d.now())
		delivery := d.send(ctx, Message{
			Channel:    models.NotifyCalendar,
			From:       d.cfg.EmailFrom,
			To:         customer.Email,
			Subject:    event.Summary,
			Body:       event.Description,
			Attachment: []byte(event.ICS()),
		})
		out.Actions.CalendarInviteAttached = delivery.Err == nil
		out.Deliveries = append(out.Deliveries, delivery)
	}

	log.WithFields(log.Fields{
		"customer": customer.Name,
		"vehicle":  vehicle,
		"services": len(services),
		"sent":     out.Sent(),
	}).Info("Reminder dispatched")
	return out
}

func (d *Dispatcher) send(ctx context.Context, msg Message) Delivery {
	delivery := Delivery{Channel: msg.Channel, Recipient: msg.To}
	if msg.To == "" {
		delivery.Err = ErrNoRecipient
		return delivery
	}
	delivery.MessageID, delivery.Err = d.sender.Send(ctx, msg)
	return delivery
}
