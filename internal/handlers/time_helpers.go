package handlers

import (
	"time"

	"github.com/BruksfildServices01/clearance-booking/internal/timezone"
)

// parseScheduledDate accepts a calendar day in the service timezone or a
// full RFC 3339 timestamp.
func parseScheduledDate(tz, value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, timezone.Location(tz)); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseDay(tz, value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, timezone.Location(tz))
}
