package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// DateLayout and ClockLayout are the wire formats for pickup scheduling.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// IsValidEmail checks if the email format is valid
func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUUID checks the string is a record id in canonical UUID form
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// IsValidDate checks the string is a real calendar date in YYYY-MM-DD format
func IsValidDate(date string) bool {
	if !dateRegex.MatchString(date) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// IsValidClock checks the string is a 24h wall-clock time in HH:MM format
func IsValidClock(clock string) bool {
	if !clockRegex.MatchString(clock) {
		return false
	}
	_, err := time.Parse(ClockLayout, clock)
	return err == nil
}

// IsValidLatitude checks the value is within [-90, 90]
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude checks the value is within [-180, 180]
func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
