package recur

import "time"

// HolidayFunc reports whether a date is a public holiday, returning the
// holiday name when it is. The calendar behind it is an external
// collaborator; returning no holiday for every date is valid.
type HolidayFunc func(date time.Time) (string, bool)

// Calendar classifies calendar dates as working or non-working days.
type Calendar struct {
	// SaturdayOff treats Saturdays like holidays. Sundays are always off.
	SaturdayOff bool
	Holiday     HolidayFunc
}

// WorkingDay reports whether d is eligible for recurrence generation.
func (c Calendar) WorkingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		if c.SaturdayOff {
			return false
		}
	}
	if c.Holiday != nil {
		if _, ok := c.Holiday(d); ok {
			return false
		}
	}
	return true
}
