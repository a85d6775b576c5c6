// Package notify renders service reminders and delivers them over email, SMS
// and calendar invites.
package notify

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukydev/fleet-reminders/internal/models"
)

// Reminder templates. Placeholders are replaced by render.
const (
	EmailSubjectTemplate = "Vehicle Service Reminder: {vehicle}"
	EmailBodyTemplate    = `
Dear {customer},

Your {vehicle} is due for the following service(s):

{services}

Please contact us to schedule an appointment at your earliest convenience.

Thank you for choosing our service center!

Best regards,
Automotive Service Center
    `
	SMSTemplate                 = "Reminder: Your {vehicle} is due for {serviceCount} service(s) {dueTime}. Please call us to schedule an appointment."
	CalendarSummaryTemplate     = "{vehicle} Service Appointment"
	CalendarDescriptionTemplate = `
Vehicle: {vehicle}
Services Due:
{services}

Please contact our service center to confirm this appointment time.
    `
)

// leadDays is how long before the earliest due date an appointment is suggested.
const leadDays = 7

func render(template string, values map[string]string) string {
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// ServicesText lists services one per line.
func ServicesText(services []models.UpcomingService) string {
	var b strings.Builder
	for _, s := range services {
		fmt.Fprintf(&b, "- %s: Due in %d miles or %d days\n", s.Type, s.DueInMiles, s.DueInDays)
	}
	return b.String()
}

// DueTime phrases the days until a service for SMS: days up to a week, whole weeks after.
func DueTime(days int) string {
	if days <= 7 {
		return fmt.Sprintf("in %d days", days)
	}
	return fmt.Sprintf("in %d weeks", int(math.Ceil(float64(days)/7)))
}

// EmailMessage renders the subject and body of a reminder email.
func EmailMessage(customer, vehicle string, services []models.UpcomingService) (subject, body string) {
	subject = render(EmailSubjectTemplate, map[string]string{"vehicle": vehicle})
	body = render(EmailBodyTemplate, map[string]string{
		"customer": customer,
		"vehicle":  vehicle,
		"services": ServicesText(services),
	})
	return subject, body
}

// SMSMessage renders a reminder SMS. services must be sorted most urgent first.
func SMSMessage(vehicle string, services []models.UpcomingService) string {
	due := ""
	if len(services) > 0 {
		due = DueTime(services[0].DueInDays)
	}
	return render(SMSTemplate, map[string]string{
		"vehicle":      vehicle,
		"serviceCount": strconv.Itoa(len(services)),
		"dueTime":      due,
	})
}

// CalendarEvent is a suggested service appointment.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	Created     time.Time
}

// NewCalendarEvent suggests an appointment a week before the earliest service
// falls due, and never sooner than tomorrow.
func NewCalendarEvent(uid, vehicle string, services []models.UpcomingService, now time.Time) CalendarEvent {
	offset := 1
	if len(services) > 0 && services[0].DueInDays-leadDays > offset {
		offset = services[0].DueInDays - leadDays
	}
	return CalendarEvent{
		UID:     uid,
		Summary: render(CalendarSummaryTemplate, map[string]string{"vehicle": vehicle}),
		Description: render(CalendarDescriptionTemplate, map[string]string{
			"vehicle":  vehicle,
			"services": ServicesText(services),
		}),
		Start:   now.AddDate(0, 0, offset),
		Created: now,
	}
}

// ICS renders the event as an iCalendar (RFC 5545) document with one all-day VEVENT.
func (e CalendarEvent) ICS() string {
	const stamp = "20060102T150405Z"
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//fleet-reminders//Service Reminder//EN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + e.UID,
		"DTSTAMP:" + e.Created.UTC().Format(stamp),
		"DTSTART;VALUE=DATE:" + e.Start.Format("20060102"),
		"DTEND;VALUE=DATE:" + e.Start.AddDate(0, 0, 1).Format("20060102"),
		"SUMMARY:" + escapeText(e.Summary),
		"DESCRIPTION:" + escapeText(strings.TrimSpace(e.Description)),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fold(l))
		b.WriteString("\r\n")
	}
	return b.String()
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// fold splits content lines longer than 75 octets, continuing with a leading space.
func fold(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line
	}
	var b strings.Builder
	width := 0
	for _, r := range line {
		n := len(string(r))
		if width+n > limit {
			b.WriteString("\r\n ")
			width = 1
		}
		b.WriteRune(r)
		width += n
	}
	return b.String()
}
