package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a date range ends before it starts.
var ErrInvalidRange = errors.New("end date is before start date")

// WeekdayCount counts the Monday-Friday calendar dates in the inclusive range
// [start, end]. Inputs are treated as calendar dates: the clock and zone parts
// are discarded before counting, so the result is the same for any two
// instants that fall on the same dates.
func WeekdayCount(start, end time.Time) (int, error) {
	startDate := truncateToDate(start)
	endDate := truncateToDate(end)

	if endDate.Before(startDate) {
		return 0, ErrInvalidRange
	}

	count := 0
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count, nil
}

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a "15:04:05" or "15:04" clock string. Seconds are
// truncated; lateness is accounted in whole minutes.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
		}
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayOf extracts the clock time of an instant.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60)
}

// Lateness compares a clock-in time against a threshold. The threshold is
// passed in by the caller: it is scoped configuration, and a change applies
// only to clock-ins evaluated after the change.
func Lateness(clockIn, threshold TimeOfDay) (isLate bool, lateMinutes int) {
	if clockIn <= threshold {
		return false, 0
	}
	return true, int(clockIn - threshold)
}

// EndOfWorkday builds the instant at which an abandoned session on the given
// date is considered over.
func EndOfWorkday(date time.Time, end TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(end)/60, int(end)%60, 0, 0, date.Location())
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
