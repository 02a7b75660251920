package store

import (
	"database/sql"
	"fmt"
	"time"
)

const taskColumns = `id, project_id, name, recurring, recur_pattern, recur_start, recur_end, recur_hours, archived, created_at, updated_at`

func (s *Store) CreateTask(projectID int64, name string) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (project_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		projectID, name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTasks(projectID int64, includeArchived bool) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ?`
	if !includeArchived {
		query += ` AND archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListRecurringTasks returns all non-archived tasks with an active
// recurrence, across every project.
func (s *Store) ListRecurringTasks() ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT ` + taskColumns + ` FROM tasks WHERE recurring = 1 AND archived = 0 ORDER BY project_id, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// SetRecurrence configures (or reconfigures) the recurrence of a task.
// start may be zero to anchor the rule at "today"; end may be nil for an
// open-ended rule.
func (s *Store) SetRecurrence(id int64, pattern string, start time.Time, end *time.Time, hours float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	startStr := ""
	if !start.IsZero() {
		startStr = start.Format(time.DateOnly)
	}
	var endStr *string
	if end != nil {
		v := end.Format(time.DateOnly)
		endStr = &v
	}
	_, err := s.db.Exec(
		`UPDATE tasks SET recurring = 1, recur_pattern = ?, recur_start = ?, recur_end = ?, recur_hours = ?, updated_at = ? WHERE id = ?`,
		pattern, startStr, endStr, hours, now, id,
	)
	return err
}

// ClearRecurrence stops generation for a task. Already-created placeholder
// entries are removed separately via DeletePlaceholders.
func (s *Store) ClearRecurrence(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET recurring = 0, recur_pattern = '', recur_start = '', recur_end = NULL, recur_hours = 0, updated_at = ? WHERE id = ?`,
		now, id,
	)
	return err
}

func (s *Store) UpdateTask(id int64, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET name = ?, updated_at = ? WHERE id = ?`,
		name, now, id,
	)
	return err
}

func (s *Store) ArchiveTask(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE tasks SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var recurring, archived int
	var startStr, createdAt, updatedAt string
	var endStr sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &recurring, &t.Pattern,
		&startStr, &endStr, &t.RecurHours, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Recurring = recurring == 1
	t.Archived = archived == 1
	if startStr != "" {
		t.RecurStart, _ = time.Parse(time.DateOnly, startStr)
	}
	if endStr.Valid && endStr.String != "" {
		end, err := time.Parse(time.DateOnly, endStr.String)
		if err == nil {
			t.RecurEnd = &end
		}
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
