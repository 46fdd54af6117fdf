package device

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// History query limits.
const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
type SQLiteHistoryRepository struct {
	db dbtx
}

// NewSQLiteHistoryRepository creates a new SQLite-backed history repository.
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Append records a device action. The ID and CreatedAt are generated if empty.
func (r *SQLiteHistoryRepository) Append(ctx context.Context, entry *HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = "hist-" + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO device_history (id, device_id, device_name, action, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.DeviceID,
		entry.DeviceName,
		entry.Action,
		entry.Actor,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}
	return nil
}

// ListByDevice returns recent history for one device, newest first.
func (r *SQLiteHistoryRepository) ListByDevice(ctx context.Context, deviceID string, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT id, device_id, device_name, action, actor, created_at
		FROM device_history
		WHERE device_id = ?
		ORDER BY created_at DESC
		LIMIT ?`

	return r.queryHistory(ctx, query, deviceID, clampLimit(limit))
}

// ListRecent returns recent history across all devices, newest first.
func (r *SQLiteHistoryRepository) ListRecent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT id, device_id, device_name, action, actor, created_at
		FROM device_history
		ORDER BY created_at DESC
		LIMIT ?`

	return r.queryHistory(ctx, query, clampLimit(limit))
}

func (r *SQLiteHistoryRepository) queryHistory(ctx context.Context, query string, args ...any) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows, nothing to recover

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e         HistoryEntry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.DeviceName, &e.Action, &e.Actor, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing history created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return entries, nil
}

// clampLimit applies the default and maximum history query limits.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
