package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/fr"
)

// business is the French working calendar: Monday to Friday minus public holidays.
var business = newBusinessCalendar()

func newBusinessCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(fr.Holidays...)
	return c
}

// PublicHolidays returns every public holiday of the year.
func PublicHolidays(year int) []time.Time {
	holidays := make([]time.Time, 0, len(fr.Holidays))
	for _, h := range fr.Holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		holidays = append(holidays, DateOnly(actual))
	}
	return holidays
}

// IsPublicHoliday reports whether d is a public holiday.
func IsPublicHoliday(d time.Time) bool {
	actual, _, _ := business.IsHoliday(DateOnly(d))
	return actual
}
