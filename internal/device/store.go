package device

import (
	"context"
	"database/sql"
	"fmt"
)

// Store bundles the device and history repositories over one database and
// commits multi-statement mutations in a single transaction. A state
// change and its history entry either both persist or neither does; a
// failure on either statement rolls the whole operation back.
type Store struct {
	db *sql.DB
	*SQLiteRepository
	*SQLiteHistoryRepository
}

// NewStore creates a store over an open SQLite connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		SQLiteRepository:        NewSQLiteRepository(db),
		SQLiteHistoryRepository: NewSQLiteHistoryRepository(db),
	}
}

// CommitStateChange persists a device's new on/off state together with
// its history entry, atomically. Returns ErrDeviceNotFound (and writes
// nothing) for unknown ids.
func (s *Store) CommitStateChange(ctx context.Context, id string, isOn bool, entry *HistoryEntry) error {
	return s.inTx(ctx, func(devices *SQLiteRepository, history *SQLiteHistoryRepository) error {
		if err := devices.UpdateState(ctx, id, isOn); err != nil {
			return err
		}
		return history.Append(ctx, entry)
	})
}

// CreateWithHistory inserts a new device and its provisioning history
// entry, atomically.
func (s *Store) CreateWithHistory(ctx context.Context, d *Device, entry *HistoryEntry) error {
	return s.inTx(ctx, func(devices *SQLiteRepository, history *SQLiteHistoryRepository) error {
		if err := devices.Create(ctx, d); err != nil {
			return err
		}
		return history.Append(ctx, entry)
	})
}

// DeleteWithHistory removes a device and records the removal, atomically.
// Returns ErrDeviceNotFound (and writes nothing) for unknown ids.
func (s *Store) DeleteWithHistory(ctx context.Context, id string, entry *HistoryEntry) error {
	return s.inTx(ctx, func(devices *SQLiteRepository, history *SQLiteHistoryRepository) error {
		if err := devices.Delete(ctx, id); err != nil {
			return err
		}
		return history.Append(ctx, entry)
	})
}

// inTx runs fn with repositories bound to one transaction, committing on
// nil and rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(*SQLiteRepository, *SQLiteHistoryRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&SQLiteRepository{db: tx}, &SQLiteHistoryRepository{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
