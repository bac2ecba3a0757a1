package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	BackupExport = "export"
	BackupImport = "import"
)

type BackupEntry struct {
	ID        int64
	Kind      string
	Path      string
	Bytes     int64
	CreatedAt time.Time
}

// BackupLogRepo keeps a history of exports and imports.
type BackupLogRepo struct {
	db *sql.DB
}

func NewBackupLogRepo(db *sql.DB) *BackupLogRepo {
	return &BackupLogRepo{db: db}
}

func (r *BackupLogRepo) Record(ctx context.Context, kind, path string, size int64, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO backup_log (kind, path, bytes, created_at) VALUES (?, ?, ?, ?)`,
		kind, path, size, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("backup log insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("backup log id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries first.
func (r *BackupLogRepo) List(ctx context.Context, limit int) ([]BackupEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, path, bytes, created_at FROM backup_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("backup log select: %w", err)
	}
	defer rows.Close()

	var out []BackupEntry
	for rows.Next() {
		var e BackupEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Path, &e.Bytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("backup log scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("backup log rows: %w", err)
	}
	return out, nil
}
