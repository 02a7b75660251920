package store

import "time"

type Client struct {
	ID        int64
	Name      string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Project struct {
	ID        int64
	ClientID  int64
	Name      string
	Color     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task is a project task. When Recurring is set, the recur_* fields describe
// how placeholder time entries are generated for it.
type Task struct {
	ID         int64
	ProjectID  int64
	Name       string
	Recurring  bool
	Pattern    string     // daily, weekly, monthly, monthly:<ordinal>:<weekday>
	RecurStart time.Time  // anchor date; zero means "from today"
	RecurEnd   *time.Time // nil means open-ended
	RecurHours float64    // hours stamped on generated placeholders
	Archived   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TimeEntry is a day-granular time log. At most one entry may exist per
// (project, task name, date); the schema enforces this.
type TimeEntry struct {
	ID          int64
	ProjectID   int64
	TaskName    string
	EntryDate   time.Time // calendar date, no time component
	Hours       float64
	Placeholder bool
	Notes       string
	CreatedAt   time.Time
}

type Holiday struct {
	Date time.Time
	Name string
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter is used to filter time entries in queries.
type EntryFilter struct {
	ProjectID   *int64
	TaskName    *string
	From        *time.Time
	To          *time.Time
	Placeholder *bool
	Limit       int
}

// DailySummary represents aggregated hours per project per day.
type DailySummary struct {
	Date         string
	ProjectID    int64
	ProjectName  string
	ProjectColor string
	TotalHours   float64
	EntryCount   int
}

// ScheduledDay is the total placeholder hours pending on one date.
type ScheduledDay struct {
	Date       string
	Hours      float64
	EntryCount int
}
