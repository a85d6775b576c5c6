// Package maintenance projects when recurring services come due from a
// vehicle's mileage history and its make/model service schedules.
package maintenance

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ukydev/fleet-reminders/internal/models"
)

const (
	// DefaultDailyMileage is assumed until a vehicle has two mileage logs.
	DefaultDailyMileage = 30

	// DefaultMilesThreshold and DefaultDaysThreshold bound what counts as upcoming.
	DefaultMilesThreshold = 500
	DefaultDaysThreshold  = 30
)

// ErrInvalidInterval is returned for schedules whose mileage interval is not positive.
var ErrInvalidInterval = errors.New("service schedule interval must be positive")

// Thresholds decide whether a service is close enough to report.
// A service is upcoming when it is within Miles miles OR within Days days.
type Thresholds struct {
	Miles int
	Days  int
}

// DefaultThresholds returns the 500 mile / 30 day thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Miles: DefaultMilesThreshold, Days: DefaultDaysThreshold}
}

// AverageDailyMileage estimates miles per day from the two most recent logs.
// recent must be ordered newest first; anything past the second entry is ignored.
func AverageDailyMileage(recent []models.MileageLog) int {
	if len(recent) < 2 {
		return DefaultDailyMileage
	}
	latest, previous := recent[0], recent[1]

	days := roundHalfUp(latest.LoggedAt.Sub(previous.LoggedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	avg := roundHalfUp(float64(latest.Mileage-previous.Mileage) / float64(days))
	if avg < 1 {
		avg = 1
	}
	return avg
}

// Calculate returns the services of schedules that are due within the thresholds
// at currentMileage, most urgent (fewest miles) first.
//
// Every schedule is assumed to have been serviced at mileage 0 and to recur every
// IntervalMiles, so a reading that lands exactly on a multiple of the interval
// reports the full interval. Callers are expected to pass only the schedules of
// the vehicle's make and model.
func Calculate(recent []models.MileageLog, schedules []models.ServiceSchedule, currentMileage int, th Thresholds) ([]models.UpcomingService, error) {
	avg := AverageDailyMileage(recent)

	upcoming := make([]models.UpcomingService, 0, len(schedules))
	for _, s := range schedules {
		if s.IntervalMiles <= 0 {
			return nil, fmt.Errorf("%s %s %q: %w", s.Make, s.Model, s.ServiceType, ErrInvalidInterval)
		}
		since := currentMileage % s.IntervalMiles
		untilMiles := s.IntervalMiles - since
		untilDays := roundHalfUp(float64(untilMiles) / float64(avg))

		if untilMiles <= th.Miles || untilDays <= th.Days {
			upcoming = append(upcoming, models.UpcomingService{
				Type:       s.ServiceType,
				DueInMiles: untilMiles,
				DueInDays:  untilDays,
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueInMiles < upcoming[j].DueInMiles
	})
	return upcoming, nil
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
