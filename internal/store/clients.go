package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateClient(name string) (*Client, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO clients (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetClient(id)
}

func (s *Store) GetClient(id int64) (*Client, error) {
	c := &Client{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, archived, created_at, updated_at FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}
	c.Archived = archived == 1
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

func (s *Store) ListClients(includeArchived bool) ([]Client, error) {
	query := `SELECT id, name, archived, created_at, updated_at FROM clients`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&c.ID, &c.Name, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.Archived = archived == 1
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) UpdateClient(id int64, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE clients SET name = ?, updated_at = ? WHERE id = ?`,
		name, now, id,
	)
	return err
}

func (s *Store) ArchiveClient(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE clients SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}
