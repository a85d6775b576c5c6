package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxMileage is the largest odometer reading accepted.
const MaxMileage = 1000000

var (
	vinPattern   = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)
)

// IsValidVIN checks a 17 character VIN. I, O and Q are never used in VINs.
func IsValidVIN(vin string) bool {
	return vinPattern.MatchString(vin)
}

// IsValidYear accepts model years from 1900 up to next year.
func IsValidYear(year int) bool {
	return year >= 1900 && year <= time.Now().Year()+1
}

// IsValidMileage checks an odometer reading.
func IsValidMileage(mileage int) bool {
	return mileage >= 0 && mileage <= MaxMileage
}

// IsValidEmail checks email format
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone checks phone format
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidTimezone reports whether tz names a loadable IANA zone.
func IsValidTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// FormatVehicleName renders "<year> <make> <model>".
func FormatVehicleName(year int, make, model string) string {
	return fmt.Sprintf("%d %s %s", year, make, model)
}

// Validate checks the fields required to create a vehicle.
func (r CreateVehicleRequest) Validate() error {
	if strings.TrimSpace(r.VIN) == "" || strings.TrimSpace(r.Make) == "" ||
		strings.TrimSpace(r.Model) == "" || r.Year == 0 || r.CustomerID == "" {
		return fmt.Errorf("missing required fields")
	}
	if !IsValidVIN(r.VIN) {
		return fmt.Errorf("invalid VIN format")
	}
	if !IsValidYear(r.Year) {
		return fmt.Errorf("invalid year")
	}
	return nil
}

// Validate checks a customer's contact details. An empty timezone is allowed.
func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("missing customer name")
	case !IsValidEmail(c.Email):
		return fmt.Errorf("invalid email %q", c.Email)
	case !IsValidPhone(c.Phone):
		return fmt.Errorf("invalid phone %q", c.Phone)
	case c.Timezone != "" && !IsValidTimezone(c.Timezone):
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	switch c.PreferredReminderType {
	case "", PreferEmail, PreferSMS, PreferBoth:
		return nil
	}
	return fmt.Errorf("invalid reminder preference %q", c.PreferredReminderType)
}
