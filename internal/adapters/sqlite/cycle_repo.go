package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/ports/secondary"
)

const cycleColumns = "id, start_date, end_date, period_length, length, created_at, updated_at"

// CycleRepository implements secondary.CycleRepository with SQLite.
type CycleRepository struct {
	db *sql.DB
}

// NewCycleRepository creates a new SQLite cycle repository.
func NewCycleRepository(db *sql.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// Create persists a new cycle.
func (r *CycleRepository) Create(ctx context.Context, cycle *secondary.CycleRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO cycles (id, start_date, end_date, period_length, length) VALUES (?, ?, ?, ?, ?)",
		cycle.ID, cycle.StartDate, nullString(cycle.EndDate), nullInt(cycle.PeriodLength), nullInt(cycle.Length),
	)
	if err != nil {
		return fmt.Errorf("failed to create cycle: %w", err)
	}
	return nil
}

// GetByID retrieves a cycle by its ID.
func (r *CycleRepository) GetByID(ctx context.Context, id string) (*secondary.CycleRecord, error) {
	record, err := r.queryOne(ctx, "SELECT "+cycleColumns+" FROM cycles WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fault.NotFound("get_cycle", "cycle", id)
	}
	return record, nil
}

// GetByStartDate retrieves the cycle starting on date (nil if none).
func (r *CycleRepository) GetByStartDate(ctx context.Context, date string) (*secondary.CycleRecord, error) {
	return r.queryOne(ctx, "SELECT "+cycleColumns+" FROM cycles WHERE start_date = ?", date)
}

// Latest retrieves the cycle with the greatest start date (nil if empty).
func (r *CycleRepository) Latest(ctx context.Context) (*secondary.CycleRecord, error) {
	return r.queryOne(ctx, "SELECT "+cycleColumns+" FROM cycles ORDER BY start_date DESC LIMIT 1")
}

// Previous retrieves the closest cycle starting before date (nil if none).
func (r *CycleRepository) Previous(ctx context.Context, date string) (*secondary.CycleRecord, error) {
	return r.queryOne(ctx,
		"SELECT "+cycleColumns+" FROM cycles WHERE start_date < ? ORDER BY start_date DESC LIMIT 1", date)
}

// Next retrieves the closest cycle starting after date (nil if none).
func (r *CycleRepository) Next(ctx context.Context, date string) (*secondary.CycleRecord, error) {
	return r.queryOne(ctx,
		"SELECT "+cycleColumns+" FROM cycles WHERE start_date > ? ORDER BY start_date ASC LIMIT 1", date)
}

// List retrieves all cycles ordered by start date.
func (r *CycleRepository) List(ctx context.Context) ([]*secondary.CycleRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT "+cycleColumns+" FROM cycles ORDER BY start_date ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*secondary.CycleRecord
	for rows.Next() {
		record, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		cycles = append(cycles, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}

	return cycles, nil
}

// Update updates an existing cycle.
func (r *CycleRepository) Update(ctx context.Context, cycle *secondary.CycleRecord) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE cycles SET start_date = ?, end_date = ?, period_length = ?, length = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		cycle.StartDate, nullString(cycle.EndDate), nullInt(cycle.PeriodLength), nullInt(cycle.Length), cycle.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cycle: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("update_cycle", "cycle", cycle.ID)
	}
	return nil
}

// Delete removes a cycle from persistence.
func (r *CycleRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM cycles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cycle: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("delete_cycle", "cycle", id)
	}
	return nil
}

// GetNextID returns the next available cycle ID.
func (r *CycleRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "cycles", "CYC-")
}

func (r *CycleRepository) queryOne(ctx context.Context, query string, args ...any) (*secondary.CycleRecord, error) {
	record, err := scanCycle(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}
	return record, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(s scanner) (*secondary.CycleRecord, error) {
	var (
		endDate      sql.NullString
		periodLength sql.NullInt64
		length       sql.NullInt64
		createdAt    time.Time
		updatedAt    time.Time
	)

	record := &secondary.CycleRecord{}
	if err := s.Scan(&record.ID, &record.StartDate, &endDate, &periodLength, &length, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.EndDate = endDate.String
	record.PeriodLength = int(periodLength.Int64)
	record.Length = int(length.Int64)
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Ensure CycleRepository implements the interface.
var _ secondary.CycleRepository = (*CycleRepository)(nil)
