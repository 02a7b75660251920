package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xBounceIT/praetor/internal/recur"
	"github.com/xBounceIT/praetor/internal/store"
)

// runMaterialization wires the recurrence driver to the store and runs it
// once: it loads the active recurring tasks, snapshots the existing entries
// for duplicate suppression, and creates the placeholder entries that are
// due inside the generation window. Returns how many entries were created.
func runMaterialization(s *store.Store, logger *slog.Logger, today time.Time) (int, error) {
	tasks, err := s.ListRecurringTasks()
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	entries, err := s.ListEntries(store.EntryFilter{})
	if err != nil {
		return 0, err
	}
	existing := make([]recur.Key, 0, len(entries))
	for _, e := range entries {
		existing = append(existing, recur.Key{
			ProjectID: e.ProjectID,
			TaskName:  e.TaskName,
			Date:      e.EntryDate.Format(time.DateOnly),
		})
	}

	cal := recur.Calendar{
		SaturdayOff: s.GetBoolSetting("saturday_is_holiday", true),
		Holiday: func(d time.Time) (string, bool) {
			h, err := s.GetHoliday(d)
			if err != nil || h == nil {
				return "", false
			}
			return h.Name, true
		},
	}

	resolve := func(projectID int64) (recur.ProjectInfo, bool) {
		p, err := s.GetProject(projectID)
		if err != nil || p.Archived {
			return recur.ProjectInfo{}, false
		}
		c, err := s.GetClient(p.ClientID)
		if err != nil {
			return recur.ProjectInfo{}, false
		}
		return recur.ProjectInfo{ProjectName: p.Name, ClientName: c.Name}, true
	}

	create := func(e recur.Entry) error {
		_, err := s.CreateScheduledEntry(e.ProjectID, e.TaskName, e.Date, e.Hours)
		return err
	}

	d := recur.NewDriver(cal, resolve, create, logger)
	d.Horizon = s.GetIntSetting("schedule_horizon_days", recur.DefaultHorizon)

	driverTasks := make([]recur.Task, 0, len(tasks))
	for _, t := range tasks {
		rule, ok := recur.ParseRule(t.Pattern)
		if !ok {
			// Unrecognized patterns generate nothing; the rule stays on
			// the task so it can be fixed from the Projects view.
			continue
		}
		driverTasks = append(driverTasks, recur.Task{
			ID:        t.ID,
			ProjectID: t.ProjectID,
			Name:      t.Name,
			Rule:      rule,
			Start:     t.RecurStart,
			End:       t.RecurEnd,
			Hours:     t.RecurHours,
		})
	}

	created := d.Run(today, driverTasks, existing)
	return len(created), nil
}

// materializeCmd runs materialization in the background and reports the
// outcome as a message.
func materializeCmd(s *store.Store, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		n, err := runMaterialization(s, logger, time.Now())
		return materializeDoneMsg{created: n, err: err}
	}
}
