package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-reminders/internal/models"
)

var hondaServices = []models.UpcomingService{
	{Type: models.ServiceOilChange, DueInMiles: 500, DueInDays: 9},
	{Type: models.ServiceBrakeInspection, DueInMiles: 500, DueInDays: 9},
}

func TestServicesText(t *testing.T) {
	want := "- Oil Change: Due in 500 miles or 9 days\n- Brake Inspection: Due in 500 miles or 9 days\n"
	assert.Equal(t, want, ServicesText(hondaServices))
	assert.Empty(t, ServicesText(nil))
}

func TestDueTime(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "in 0 days"},
		{7, "in 7 days"},
		{8, "in 2 weeks"},
		{14, "in 2 weeks"},
		{15, "in 3 weeks"},
	}
	for _, tt := range tests {
		if got := DueTime(tt.days); got != tt.want {
			t.Errorf("DueTime(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestEmailMessage(t *testing.T) {
	subject, body := EmailMessage("John Smith", "2020 Honda Accord", hondaServices)
	assert.Equal(t, "Vehicle Service Reminder: 2020 Honda Accord", subject)
	assert.True(t, strings.HasPrefix(body, "\nDear John Smith,\n\nYour 2020 Honda Accord is due for the following service(s):\n\n- Oil Change"))
	assert.Contains(t, body, "Automotive Service Center\n    ")
	assert.NotContains(t, body, "{")
}

func TestSMSMessage(t *testing.T) {
	got := SMSMessage("2020 Honda Accord", hondaServices)
	assert.Equal(t, "Reminder: Your 2020 Honda Accord is due for 2 service(s) in 2 weeks. Please call us to schedule an appointment.", got)
}

func TestNewCalendarEvent(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	event := NewCalendarEvent("uid-1", "2020 Honda Accord", hondaServices, now)
	assert.Equal(t, "2020 Honda Accord Service Appointment", event.Summary)
	assert.Equal(t, now.AddDate(0, 0, 2), event.Start)
	assert.Contains(t, event.Description, "Vehicle: 2020 Honda Accord\nServices Due:\n- Oil Change")

	soon := []models.UpcomingService{{Type: models.ServiceOilChange, DueInMiles: 50, DueInDays: 3}}
	event = NewCalendarEvent("uid-2", "2020 Honda Accord", soon, now)
	assert.Equal(t, now.AddDate(0, 0, 1), event.Start, "never sooner than tomorrow")
}

func TestCalendarEvent_ICS(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	ics := NewCalendarEvent("uid-1", "2020 Honda Accord", hondaServices, now).ICS()

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Contains(t, ics, "UID:uid-1\r\n")
	assert.Contains(t, ics, "DTSTAMP:20250501T100000Z\r\n")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250503\r\n")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20250504\r\n")
	assert.Contains(t, ics, "SUMMARY:2020 Honda Accord Service Appointment\r\n")

	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
	}
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\, b\; c\\d\ne`, escapeText("a, b; c\\d\ne"))
}

func TestFold(t *testing.T) {
	line := strings.Repeat("x", 160)
	folded := fold(line)
	parts := strings.Split(folded, "\r\n ")
	assert.Len(t, parts, 3)
	assert.Equal(t, line, strings.Join(parts, ""))
	assert.Equal(t, "short", fold("short"))
}
