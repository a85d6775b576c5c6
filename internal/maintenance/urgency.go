package maintenance

import (
	"fmt"

	"github.com/ukydev/fleet-reminders/internal/models"
)

// Urgency classifies an upcoming service.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyUpcoming Urgency = "upcoming"
	UrgencyOK       Urgency = "ok"
)

// Classify compares a service against the overdue (<= 0) and upcoming thresholds.
func (th Thresholds) Classify(s models.UpcomingService) Urgency {
	switch {
	case s.DueInMiles <= 0 || s.DueInDays <= 0:
		return UrgencyOverdue
	case s.DueInMiles <= th.Miles || s.DueInDays <= th.Days:
		return UrgencyUpcoming
	default:
		return UrgencyOK
	}
}

// FormatServiceDue renders a short "Due in ..." label.
func FormatServiceDue(s models.UpcomingService) string {
	switch {
	case s.DueInMiles <= 0 || s.DueInDays <= 0:
		return "Overdue"
	case s.DueInMiles < 100:
		return fmt.Sprintf("Due in %d miles", s.DueInMiles)
	case s.DueInDays < 7:
		return fmt.Sprintf("Due in %d days", s.DueInDays)
	case s.DueInDays < 30:
		return fmt.Sprintf("Due in %d weeks", s.DueInDays/7)
	default:
		return fmt.Sprintf("Due in %d months", s.DueInDays/30)
	}
}
