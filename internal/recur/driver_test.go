package recur

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector is a CreateFunc that records entries and can reject chosen
// dates.
type collector struct {
	entries []Entry
	reject  map[string]error // keyed by 2006-01-02
}

func (c *collector) create(e Entry) error {
	day := e.Date.Format(time.DateOnly)
	if err, ok := c.reject[day]; ok {
		return err
	}
	c.entries = append(c.entries, e)
	return nil
}

func (c *collector) dates() []string {
	var out []string
	for _, e := range c.entries {
		out = append(out, e.Date.Format(time.DateOnly))
	}
	return out
}

func (c *collector) keys() []Key {
	var out []Key
	for _, e := range c.entries {
		out = append(out, e.Key())
	}
	return out
}

func resolveAll(int64) (ProjectInfo, bool) {
	return ProjectInfo{ProjectName: "Acme Site", ClientName: "Acme"}, true
}

func mustRule(t *testing.T, pattern string) Rule {
	t.Helper()
	r, ok := ParseRule(pattern)
	require.True(t, ok, pattern)
	return r
}

func newTestDriver(cal Calendar, c *collector) *Driver {
	return NewDriver(cal, resolveAll, c.create, nil)
}

func TestDriverWindowDefaultsToFourteenDays(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Standup",
		Rule: mustRule(t, "daily"), Start: today,
	}}, nil)

	require.NotEmpty(t, created)
	last := created[len(created)-1].Date
	assert.Equal(t, date(2024, time.June, 15), last)
	// Sundays (June 2 and 9) are never working days.
	assert.NotContains(t, c.dates(), "2024-06-02")
	assert.NotContains(t, c.dates(), "2024-06-09")
	assert.Len(t, created, 13)
}

func TestDriverWindowExtendsToEndDate(t *testing.T) {
	today := date(2024, time.June, 1)
	end := date(2024, time.August, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Report",
		Rule: mustRule(t, "weekly"), Start: date(2024, time.June, 3), End: &end,
	}}, nil)

	// Mondays from June 3 through August 1: Jun 3,10,17,24; Jul 1,8,15,22,29.
	require.Len(t, created, 9)
	assert.Equal(t, date(2024, time.June, 3), created[0].Date)
	assert.Equal(t, date(2024, time.July, 29), created[len(created)-1].Date)
}

func TestDriverStopsAtEarlyEndDate(t *testing.T) {
	today := date(2024, time.June, 1)
	end := date(2024, time.June, 5)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Wrap-up",
		Rule: mustRule(t, "daily"), Start: today, End: &end,
	}}, nil)

	for _, ds := range c.dates() {
		assert.LessOrEqual(t, ds, "2024-06-05")
	}
	assert.Contains(t, c.dates(), "2024-06-05")
}

func TestDriverEmptyWindowWhenEndBeforeStart(t *testing.T) {
	today := date(2024, time.June, 1)
	end := date(2024, time.May, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Expired",
		Rule: mustRule(t, "daily"), Start: today, End: &end,
	}}, nil)

	assert.Empty(t, created)
}

func TestDriverDefaultsStartToToday(t *testing.T) {
	today := date(2024, time.June, 5) // a Wednesday
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Review",
		Rule: mustRule(t, "weekly"), // anchor becomes today
	}}, nil)

	require.NotEmpty(t, created)
	for _, e := range created {
		assert.Equal(t, time.Wednesday, e.Date.Weekday())
	}
	assert.Equal(t, today, created[0].Date)
}

func TestDriverIdempotence(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{SaturdayOff: true}, c)

	tasks := []Task{
		{ID: 1, ProjectID: 1, Name: "Standup", Rule: mustRule(t, "daily"), Start: today, Hours: 0.5},
		{ID: 2, ProjectID: 2, Name: "Report", Rule: mustRule(t, "weekly"), Start: date(2024, time.June, 3), Hours: 2},
	}

	first := d.Run(today, tasks, nil)
	require.NotEmpty(t, first)

	// Second run against a snapshot containing the first run's output.
	c2 := &collector{}
	d2 := newTestDriver(Calendar{SaturdayOff: true}, c2)
	second := d2.Run(today, tasks, c.keys())
	assert.Empty(t, second)
}

func TestDriverDuplicateSuppression(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	// An entry already exists for June 10; completed or placeholder,
	// either blocks generation.
	existing := []Key{{ProjectID: 1, TaskName: "Report", Date: "2024-06-10"}}

	d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Report",
		Rule: mustRule(t, "weekly"), Start: date(2024, time.June, 3),
	}}, existing)

	assert.NotContains(t, c.dates(), "2024-06-10")
	assert.Contains(t, c.dates(), "2024-06-03")
}

func TestDriverDuplicateKeyIsExact(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	// Same date and task name but a different project does not block.
	existing := []Key{{ProjectID: 99, TaskName: "Report", Date: "2024-06-10"}}

	d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Report",
		Rule: mustRule(t, "weekly"), Start: date(2024, time.June, 3),
	}}, existing)

	assert.Contains(t, c.dates(), "2024-06-10")
}

func TestDriverHolidayAndWeekendExclusion(t *testing.T) {
	today := date(2024, time.June, 1)
	holiday := date(2024, time.June, 5)
	cal := Calendar{
		SaturdayOff: true,
		Holiday: func(d time.Time) (string, bool) {
			if d.Equal(holiday) {
				return "Constitution Day", true
			}
			return "", false
		},
	}
	c := &collector{}
	d := newTestDriver(cal, c)

	d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Standup",
		Rule: mustRule(t, "daily"), Start: today,
	}}, nil)

	for _, e := range c.entries {
		assert.NotEqual(t, time.Saturday, e.Date.Weekday())
		assert.NotEqual(t, time.Sunday, e.Date.Weekday())
		assert.False(t, e.Date.Equal(holiday))
	}
	assert.Contains(t, c.dates(), "2024-06-04")
	assert.Contains(t, c.dates(), "2024-06-06")
}

func TestDriverSkipsUnresolvableProject(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	resolve := func(projectID int64) (ProjectInfo, bool) {
		return ProjectInfo{}, false
	}
	d := NewDriver(Calendar{}, resolve, c.create, nil)

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Orphan",
		Rule: mustRule(t, "daily"), Start: today,
	}}, nil)

	assert.Empty(t, created)
}

func TestDriverPartialFailureIsolation(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{reject: map[string]error{
		"2024-06-04": errors.New("constraint violation"),
	}}
	d := newTestDriver(Calendar{}, c)

	tasks := []Task{
		{ID: 1, ProjectID: 1, Name: "Standup", Rule: mustRule(t, "daily"), Start: today},
		{ID: 2, ProjectID: 2, Name: "Report", Rule: mustRule(t, "weekly"), Start: date(2024, time.June, 3)},
	}
	created := d.Run(today, tasks, nil)

	// The failed date is abandoned; every other due date, for both tasks,
	// is still attempted.
	assert.NotContains(t, c.dates(), "2024-06-04")
	assert.Contains(t, c.dates(), "2024-06-03")
	assert.Contains(t, c.dates(), "2024-06-05")
	assert.Contains(t, c.dates(), "2024-06-10")
	assert.Equal(t, len(c.entries), len(created))

	// The next run still finds the abandoned date due.
	c2 := &collector{}
	d2 := newTestDriver(Calendar{}, c2)
	d2.Run(today, tasks[:1], c.keys())
	assert.Contains(t, c2.dates(), "2024-06-04")
}

func TestDriverCarriesTaskData(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	created := d.Run(today, []Task{{
		ID: 7, ProjectID: 3, Name: "Maintenance",
		Rule: mustRule(t, "weekly"), Start: date(2024, time.June, 3), Hours: 1.5,
	}}, nil)

	require.NotEmpty(t, created)
	e := created[0]
	assert.Equal(t, int64(3), e.ProjectID)
	assert.Equal(t, "Maintenance", e.TaskName)
	assert.Equal(t, 1.5, e.Hours)
	assert.Equal(t, "Acme Site", e.ProjectName)
	assert.Equal(t, "Acme", e.ClientName)
}

func TestDriverAscendingCreationOrder(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Standup",
		Rule: mustRule(t, "daily"), Start: today,
	}}, nil)

	for i := 1; i < len(created); i++ {
		assert.True(t, created[i].Date.After(created[i-1].Date))
	}
}

func TestDriverCustomHorizon(t *testing.T) {
	today := date(2024, time.June, 1)
	c := &collector{}
	d := newTestDriver(Calendar{}, c)
	d.Horizon = 30

	created := d.Run(today, []Task{{
		ID: 1, ProjectID: 1, Name: "Standup",
		Rule: mustRule(t, "daily"), Start: today,
	}}, nil)

	require.NotEmpty(t, created)
	assert.Equal(t, date(2024, time.July, 1), created[len(created)-1].Date)
}
