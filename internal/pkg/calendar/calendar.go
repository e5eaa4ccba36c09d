package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DefaultLeaveYearStartMonth is the first month of the paid-leave reference period (June 1 - May 31).
const DefaultLeaveYearStartMonth = time.June

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsBusinessDay reports whether d is neither a weekend day nor a public holiday.
func IsBusinessDay(d time.Time) bool {
	return business.IsWorkday(DateOnly(d))
}

// CountBusinessDays counts business days in [start, end], both inclusive.
// It returns 0 when start is after end.
func CountBusinessDays(start, end time.Time) int {
	start, end = DateOnly(start), DateOnly(end)
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			count++
		}
	}
	return count
}

// LeaveYear maps a date to its leave-year label "YYYY-YYYY+1". A period starts on
// the first day of startMonth; dates before it belong to the previous period.
func LeaveYear(date time.Time, startMonth time.Month) string {
	first := date.Year()
	if date.Month() < startMonth {
		first--
	}
	return fmt.Sprintf("%d-%d", first, first+1)
}

// LeaveYearBounds returns the first and last day of a leave-year label.
func LeaveYearBounds(label string, startMonth time.Month) (time.Time, time.Time, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid leave year %q", label)
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid leave year %q: %w", label, err)
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil || second != first+1 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid leave year %q", label)
	}

	start := time.Date(first, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return start, end, nil
}
