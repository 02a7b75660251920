package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkingDaySunday(t *testing.T) {
	cal := Calendar{}
	sunday := date(2024, time.June, 2)
	assert.Equal(t, time.Sunday, sunday.Weekday())
	assert.False(t, cal.WorkingDay(sunday))
}

func TestWorkingDaySaturday(t *testing.T) {
	saturday := date(2024, time.June, 1)
	assert.Equal(t, time.Saturday, saturday.Weekday())

	assert.True(t, Calendar{SaturdayOff: false}.WorkingDay(saturday))
	assert.False(t, Calendar{SaturdayOff: true}.WorkingDay(saturday))
}

func TestWorkingDayHoliday(t *testing.T) {
	midsummer := date(2024, time.June, 21)
	cal := Calendar{
		Holiday: func(d time.Time) (string, bool) {
			if d.Equal(midsummer) {
				return "Midsummer", true
			}
			return "", false
		},
	}

	assert.False(t, cal.WorkingDay(midsummer))
	assert.True(t, cal.WorkingDay(date(2024, time.June, 20)))
}

func TestWorkingDayNilHolidayFunc(t *testing.T) {
	// No holiday collaborator configured: every weekday works.
	cal := Calendar{SaturdayOff: true}
	for d := date(2024, time.June, 3); d.Weekday() != time.Saturday; d = d.AddDate(0, 0, 1) {
		assert.True(t, cal.WorkingDay(d), d.Format(time.DateOnly))
	}
}
