package reminders

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/db"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/notify"
)

// Dispatcher delivers a reminder for one vehicle.
type Dispatcher interface {
	Dispatch(ctx context.Context, target notify.Target, services []models.UpcomingService, opts notify.Options) notify.Outcome
}

// Agent periodically sends reminders for every vehicle with services due.
type Agent struct {
	builder            *Builder
	dispatcher         Dispatcher
	calendarWindowDays int
}

// NewAgent creates a reminder agent. Calendar invites are only sent when the
// earliest service is due within calendarWindowDays.
func NewAgent(builder *Builder, dispatcher Dispatcher, calendarWindowDays int) *Agent {
	return &Agent{builder: builder, dispatcher: dispatcher, calendarWindowDays: calendarWindowDays}
}

// RunOnce checks every vehicle and dispatches its reminders.
func (a *Agent) RunOnce(ctx context.Context) (models.AgentRunResponse, error) {
	var summary models.AgentRunResponse

	candidates, err := a.builder.Candidates(ctx, db.VehicleFilter{})
	if err != nil {
		return summary, err
	}
	summary.VehiclesChecked = len(candidates)
	log.WithField("vehicles", len(candidates)).Info("Checking reminders")

	opts := notify.Options{CalendarWindowDays: a.calendarWindowDays}
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if len(c.Services) == 0 || c.Customer == nil {
			continue
		}
		out := a.dispatcher.Dispatch(ctx, notify.Target{Customer: *c.Customer, Vehicle: c.Vehicle}, c.Services, opts)
		summary.RemindersSent += out.Sent()
	}

	log.WithFields(log.Fields{
		"vehicles_checked": summary.VehiclesChecked,
		"reminders_sent":   summary.RemindersSent,
	}).Info("Reminder agent completed")
	return summary, nil
}

// Run calls RunOnce every interval until ctx is canceled.
func (a *Agent) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	log.WithField("interval", interval).Info("Reminder agent scheduled")
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.RunOnce(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("Reminder agent run failed")
			}
		}
	}
}
