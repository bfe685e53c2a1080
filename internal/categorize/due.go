package categorize

import (
	"strings"
	"time"

	"tasklists/internal/domain"
)

// DueAt builds a deadline from a YYYY-MM-DD date and an optional HH:MM clock
// in loc. Without a clock the deadline is the last millisecond of the day.
func DueAt(date, clock string, loc *time.Location) (int64, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, domain.NewValidationError("date", "please select a completion date for the task")
	}
	day, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return 0, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}

	y, m, d := day.Date()
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc).UnixMilli(), nil
	}
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, domain.NewValidationError("time", "expected HH:MM")
	}
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, loc).UnixMilli(), nil
}

// LoadLocation resolves an IANA zone name. An empty name yields fallback.
func LoadLocation(name string, fallback *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, domain.NewValidationError("tz", "unknown time zone")
	}
	return loc, nil
}
