package export

import (
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/xBounceIT/praetor/internal/store"
)

// ToICS writes the entries as all-day VEVENTs, one per entry, so the
// schedule can be overlaid on an external calendar.
func ToICS(entries []store.TimeEntry, projects map[int64]*store.Project, path string) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//praetor//praetor//EN")

	now := time.Now().UTC()
	for _, e := range entries {
		projectName := "Unknown"
		if p, ok := projects[e.ProjectID]; ok {
			projectName = p.Name
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uuid.NewString())
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetText(ical.PropSummary,
			fmt.Sprintf("%s: %s (%sh)", projectName, e.TaskName, formatHours(e.Hours)))
		if e.Notes != "" {
			event.Props.SetText(ical.PropDescription, e.Notes)
		}
		setAllDay(event.Props, ical.PropDateTimeStart, e.EntryDate)
		setAllDay(event.Props, ical.PropDateTimeEnd, e.EntryDate.AddDate(0, 0, 1))
		cal.Children = append(cal.Children, event.Component)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return fmt.Errorf("encode ics: %w", err)
	}
	return nil
}

// setAllDay writes a VALUE=DATE property, which calendar clients render as
// an all-day event.
func setAllDay(props ical.Props, name string, t time.Time) {
	p := ical.NewProp(name)
	p.SetValueType(ical.ValueDate)
	p.Value = t.Format("20060102")
	props.Set(p)
}
