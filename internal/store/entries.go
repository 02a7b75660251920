package store

import (
	"fmt"
	"time"
)

const entryColumns = `id, project_id, task_name, entry_date, hours, placeholder, notes, created_at`

// CreateScheduledEntry inserts a placeholder entry generated by the
// recurrence engine. The UNIQUE(project_id, task_name, entry_date)
// constraint is the server-side backstop against duplicate generation.
func (s *Store) CreateScheduledEntry(projectID int64, taskName string, date time.Time, hours float64) (*TimeEntry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO time_entries (project_id, task_name, entry_date, hours, placeholder, created_at) VALUES (?, ?, ?, ?, 1, ?)`,
		projectID, taskName, date.Format(time.DateOnly), hours, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduled entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

// LogEntry inserts a completed (non-placeholder) time log.
func (s *Store) LogEntry(projectID int64, taskName string, date time.Time, hours float64, notes string) (*TimeEntry, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO time_entries (project_id, task_name, entry_date, hours, placeholder, notes, created_at) VALUES (?, ?, ?, ?, 0, ?, ?)`,
		projectID, taskName, date.Format(time.DateOnly), hours, notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("log entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

// CompleteEntry turns a placeholder into a completed log with the actual
// hours worked.
func (s *Store) CompleteEntry(id int64, hours float64) error {
	_, err := s.db.Exec(
		`UPDATE time_entries SET placeholder = 0, hours = ? WHERE id = ?`,
		hours, id,
	)
	return err
}

func (s *Store) GetEntry(id int64) (*TimeEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) UpdateEntryNotes(id int64, notes string) error {
	_, err := s.db.Exec(`UPDATE time_entries SET notes = ? WHERE id = ?`, notes, id)
	return err
}

func (s *Store) DeleteEntry(id int64) error {
	_, err := s.db.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	return err
}

// DeletePlaceholders bulk-deletes the pending placeholders of one task,
// used when its recurrence is cleared. Completed entries are kept.
func (s *Store) DeletePlaceholders(projectID int64, taskName string) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM time_entries WHERE project_id = ? AND task_name = ? AND placeholder = 1`,
		projectID, taskName,
	)
	if err != nil {
		return 0, fmt.Errorf("delete placeholders: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) ListEntries(f EntryFilter) ([]TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE 1=1`
	var args []any

	if f.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *f.ProjectID)
	}
	if f.TaskName != nil {
		query += ` AND task_name = ?`
		args = append(args, *f.TaskName)
	}
	if f.From != nil {
		query += ` AND entry_date >= ?`
		args = append(args, f.From.Format(time.DateOnly))
	}
	if f.To != nil {
		query += ` AND entry_date < ?`
		args = append(args, f.To.Format(time.DateOnly))
	}
	if f.Placeholder != nil {
		query += ` AND placeholder = ?`
		if *f.Placeholder {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	// Newest first for display.
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetDailySummary aggregates completed hours per project per day in
// [from, to).
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT e.entry_date, e.project_id, p.name, p.color,
		       COALESCE(SUM(e.hours), 0), COUNT(*)
		FROM time_entries e
		JOIN projects p ON p.id = e.project_id
		WHERE e.placeholder = 0
		  AND e.entry_date >= ? AND e.entry_date < ?
		GROUP BY e.entry_date, e.project_id
		ORDER BY e.entry_date, p.name`,
		from.Format(time.DateOnly), to.Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.ProjectID, &ds.ProjectName, &ds.ProjectColor, &ds.TotalHours, &ds.EntryCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

// GetScheduledByDay aggregates pending placeholder hours per day in
// [from, to).
func (s *Store) GetScheduledByDay(from, to time.Time) ([]ScheduledDay, error) {
	rows, err := s.db.Query(`
		SELECT entry_date, COALESCE(SUM(hours), 0), COUNT(*)
		FROM time_entries
		WHERE placeholder = 1
		  AND entry_date >= ? AND entry_date < ?
		GROUP BY entry_date
		ORDER BY entry_date`,
		from.Format(time.DateOnly), to.Format(time.DateOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduled by day: %w", err)
	}
	defer rows.Close()

	var days []ScheduledDay
	for rows.Next() {
		var d ScheduledDay
		if err := rows.Scan(&d.Date, &d.Hours, &d.EntryCount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetDayTotals returns the completed and pending placeholder hours for one
// calendar date.
func (s *Store) GetDayTotals(date time.Time) (logged, scheduled float64, err error) {
	day := date.Format(time.DateOnly)
	err = s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN placeholder = 0 THEN hours ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN placeholder = 1 THEN hours ELSE 0 END), 0)
		FROM time_entries
		WHERE entry_date = ?`, day,
	).Scan(&logged, &scheduled)
	if err != nil {
		return 0, 0, fmt.Errorf("day totals: %w", err)
	}
	return logged, scheduled, nil
}

func scanEntry(row rowScanner) (*TimeEntry, error) {
	e := &TimeEntry{}
	var dateStr, createdAt string
	var placeholder int
	err := row.Scan(&e.ID, &e.ProjectID, &e.TaskName, &dateStr, &e.Hours, &placeholder, &e.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	e.Placeholder = placeholder == 1
	e.EntryDate, _ = time.Parse(time.DateOnly, dateStr)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}
