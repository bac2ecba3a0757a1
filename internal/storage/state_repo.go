package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// StateKey is the key the app state document is stored under.
const StateKey = "cleanQuestState"

// StateRepo stores one JSON document per key.
type StateRepo struct {
	db  *sql.DB
	key string
}

func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db, key: StateKey}
}

// Load returns the stored document, or nil when none was saved yet.
func (r *StateRepo) Load(ctx context.Context) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state select: %w", err)
	}
	return []byte(value), nil
}

func (r *StateRepo) Save(ctx context.Context, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		r.key, string(blob))
	if err != nil {
		return fmt.Errorf("state save: %w", err)
	}
	return nil
}

// Clear removes the stored document so the next load starts fresh.
func (r *StateRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("state delete: %w", err)
	}
	return nil
}
