package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/flux/internal/ports/secondary"
)

// SettingRepository implements secondary.SettingRepository with SQLite.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SQLite setting repository.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the value stored under key and whether it exists.
func (r *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key.
func (r *SettingRepository) Put(ctx context.Context, key, value string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// Ensure SettingRepository implements the interface.
var _ secondary.SettingRepository = (*SettingRepository)(nil)
