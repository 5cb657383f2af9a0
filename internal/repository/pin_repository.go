package repository

import (
	"database/sql"
	"fmt"
)

// PinRepository persists the set of pinned record ids.
type PinRepository struct {
	db *sql.DB
}

func NewPinRepository(db *sql.DB) *PinRepository {
	return &PinRepository{db: db}
}

// List returns all pinned record ids.
func (r *PinRepository) List() ([]string, error) {
	rows, err := r.db.Query(`SELECT record_id FROM pins ORDER BY pinned_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pins: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pins: %w", err)
	}

	return ids, nil
}

// Add marks a record id as pinned. Adding an existing pin is a no-op.
func (r *PinRepository) Add(recordID string) error {
	_, err := r.db.Exec(`INSERT OR IGNORE INTO pins (record_id) VALUES (?)`, recordID)
	if err != nil {
		return fmt.Errorf("failed to add pin: %w", err)
	}
	return nil
}

// Remove unpins a record id. Removing an absent pin is a no-op.
func (r *PinRepository) Remove(recordID string) error {
	_, err := r.db.Exec(`DELETE FROM pins WHERE record_id = ?`, recordID)
	if err != nil {
		return fmt.Errorf("failed to remove pin: %w", err)
	}
	return nil
}
