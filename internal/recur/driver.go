package recur

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultHorizon is how many days past "today" entries are pre-created
// when a task has no end date bounding the walk.
const DefaultHorizon = 14

// Task is the read-only view of a recurring task the driver consumes.
type Task struct {
	ID        int64
	ProjectID int64
	Name      string
	Rule      Rule
	Start     time.Time  // anchor date; zero means "today"
	End       *time.Time // nil means open-ended
	Hours     float64
}

// Entry is a placeholder creation request handed to the persistence
// collaborator. ProjectName and ClientName are denormalized display data.
type Entry struct {
	Date        time.Time
	ProjectID   int64
	TaskName    string
	Hours       float64
	ProjectName string
	ClientName  string
}

// Key identifies an entry for duplicate suppression. Any existing entry
// with the same key, placeholder or completed, blocks generation.
type Key struct {
	ProjectID int64
	TaskName  string
	Date      string // 2006-01-02
}

func (e Entry) Key() Key {
	return Key{ProjectID: e.ProjectID, TaskName: e.TaskName, Date: e.Date.Format(time.DateOnly)}
}

// ProjectInfo is the resolved display data for a task's project.
type ProjectInfo struct {
	ProjectName string
	ClientName  string
}

// ResolveFunc resolves a project and its client. ok=false means the task
// is skipped silently; that is a defined policy, not an error.
type ResolveFunc func(projectID int64) (ProjectInfo, bool)

// CreateFunc persists one placeholder entry. The store must enforce
// uniqueness on (project, task name, date) as a backstop.
type CreateFunc func(Entry) error

// Driver walks the generation window for each recurring task and emits
// the placeholder entries that are due but missing.
type Driver struct {
	// Horizon is the minimum look-ahead in days. A task end date further
	// out extends the walk; one closer in truncates it.
	Horizon int

	cal     Calendar
	resolve ResolveFunc
	create  CreateFunc
	log     *slog.Logger
}

// NewDriver builds a driver. A nil logger discards log output.
func NewDriver(cal Calendar, resolve ResolveFunc, create CreateFunc, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{
		Horizon: DefaultHorizon,
		cal:     cal,
		resolve: resolve,
		create:  create,
		log:     logger,
	}
}

// Run materializes placeholder entries for tasks against the existing
// snapshot, relative to the caller-supplied today. It returns the entries
// that were successfully created, in creation order.
//
// Re-running with the first run's output merged into existing creates
// nothing; callers must serialize runs per user to keep that invariant,
// the store's uniqueness constraint resolves races between unserialized
// runs.
func (d *Driver) Run(today time.Time, tasks []Task, existing []Key) []Entry {
	runID := uuid.NewString()
	today = Day(today)

	seen := make(map[Key]struct{}, len(existing))
	for _, k := range existing {
		seen[k] = struct{}{}
	}

	var created []Entry
	for _, t := range tasks {
		created = append(created, d.runTask(runID, today, t, seen)...)
	}
	d.log.Info("materialization run finished",
		"run_id", runID,
		"tasks", len(tasks),
		"created", len(created))
	return created
}

func (d *Driver) runTask(runID string, today time.Time, t Task, seen map[Key]struct{}) []Entry {
	info, ok := d.resolve(t.ProjectID)
	if !ok {
		return nil
	}

	start := Day(t.Start)
	if t.Start.IsZero() {
		start = today
	}
	horizon := d.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	end := today.AddDate(0, 0, horizon)
	if t.End != nil {
		taskEnd := Day(*t.End)
		if taskEnd.Before(start) {
			return nil
		}
		if taskEnd.After(end) {
			end = taskEnd
		}
	}

	var created []Entry
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if t.End != nil && day.After(Day(*t.End)) {
			break
		}
		if !d.cal.WorkingDay(day) {
			continue
		}
		if !t.Rule.Matches(start, day) {
			continue
		}
		e := Entry{
			Date:        day,
			ProjectID:   t.ProjectID,
			TaskName:    t.Name,
			Hours:       t.Hours,
			ProjectName: info.ProjectName,
			ClientName:  info.ClientName,
		}
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		if err := d.create(e); err != nil {
			// Abandon this date for the run; the next run will find it
			// still due.
			d.log.Warn("scheduled entry rejected",
				"run_id", runID,
				"task", t.Name,
				"project_id", t.ProjectID,
				"date", e.Key().Date,
				"error", err)
			continue
		}
		seen[e.Key()] = struct{}{}
		created = append(created, e)
	}
	return created
}
