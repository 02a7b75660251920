package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SetHoliday records (or renames) a public holiday on the given date.
func (s *Store) SetHoliday(date time.Time, name string) error {
	_, err := s.db.Exec(
		`INSERT INTO holidays (date, name) VALUES (?, ?) ON CONFLICT(date) DO UPDATE SET name = excluded.name`,
		date.Format(time.DateOnly), name,
	)
	return err
}

func (s *Store) RemoveHoliday(date time.Time) error {
	_, err := s.db.Exec(`DELETE FROM holidays WHERE date = ?`, date.Format(time.DateOnly))
	return err
}

// GetHoliday returns the holiday on the given date, or nil when the date is
// an ordinary day.
func (s *Store) GetHoliday(date time.Time) (*Holiday, error) {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM holidays WHERE date = ?`, date.Format(time.DateOnly),
	).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get holiday: %w", err)
	}
	return &Holiday{Date: date, Name: name}, nil
}

func (s *Store) ListHolidays() ([]Holiday, error) {
	rows, err := s.db.Query(`SELECT date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		var dateStr string
		if err := rows.Scan(&dateStr, &h.Name); err != nil {
			return nil, err
		}
		h.Date, _ = time.Parse(time.DateOnly, dateStr)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
