package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/ports/secondary"
)

const dailyLogColumns = "id, date, flow, symptoms, mood, fluid, sex_drive, disturbers, temperature, notes, is_period, created_at, updated_at"

// DailyLogRepository implements secondary.DailyLogRepository with SQLite.
// Symptom and disturber sets are stored as JSON arrays.
type DailyLogRepository struct {
	db *sql.DB
}

// NewDailyLogRepository creates a new SQLite daily log repository.
func NewDailyLogRepository(db *sql.DB) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// Upsert inserts the log or replaces the one with the same date.
func (r *DailyLogRepository) Upsert(ctx context.Context, log *secondary.DailyLogRecord) error {
	symptoms, err := encodeSet(log.Symptoms)
	if err != nil {
		return err
	}
	disturbers, err := encodeSet(log.Disturbers)
	if err != nil {
		return err
	}

	var temperature sql.NullFloat64
	if log.Temperature != nil {
		temperature = sql.NullFloat64{Float64: *log.Temperature, Valid: true}
	}

	_, err = conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO daily_logs (id, date, flow, symptoms, mood, fluid, sex_drive, disturbers, temperature, notes, is_period)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			flow = excluded.flow,
			symptoms = excluded.symptoms,
			mood = excluded.mood,
			fluid = excluded.fluid,
			sex_drive = excluded.sex_drive,
			disturbers = excluded.disturbers,
			temperature = excluded.temperature,
			notes = excluded.notes,
			is_period = excluded.is_period,
			updated_at = CURRENT_TIMESTAMP`,
		log.ID,
		log.Date,
		nullString(log.Flow),
		symptoms,
		nullString(log.Mood),
		nullString(log.Fluid),
		nullString(log.SexDrive),
		disturbers,
		temperature,
		nullString(log.Notes),
		log.IsPeriod,
	)
	if err != nil {
		return fmt.Errorf("failed to save daily log: %w", err)
	}
	return nil
}

// GetByDate retrieves the log for date (nil if none).
func (r *DailyLogRepository) GetByDate(ctx context.Context, date string) (*secondary.DailyLogRecord, error) {
	record, err := scanDailyLog(conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE date = ?", date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	return record, nil
}

// GetByID retrieves the log with the given ID (nil if none).
func (r *DailyLogRepository) GetByID(ctx context.Context, id string) (*secondary.DailyLogRecord, error) {
	record, err := scanDailyLog(conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	return record, nil
}

// List retrieves logs in the filter range ordered by date.
func (r *DailyLogRepository) List(ctx context.Context, filters secondary.DailyLogFilters) ([]*secondary.DailyLogRecord, error) {
	query := "SELECT " + dailyLogColumns + " FROM daily_logs WHERE 1=1"
	args := []any{}

	if filters.From != "" {
		query += " AND date >= ?"
		args = append(args, filters.From)
	}

	if filters.To != "" {
		query += " AND date <= ?"
		args = append(args, filters.To)
	}

	query += " ORDER BY date ASC"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.DailyLogRecord
	for rows.Next() {
		record, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}

	return logs, nil
}

// Delete removes the log for date.
func (r *DailyLogRepository) Delete(ctx context.Context, date string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM daily_logs WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("failed to delete daily log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("delete_log", "daily log for", date)
	}
	return nil
}

// GetNextID returns the next available log ID.
func (r *DailyLogRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "daily_logs", "LOG-")
}

func scanDailyLog(s scanner) (*secondary.DailyLogRecord, error) {
	var (
		flow        sql.NullString
		symptoms    string
		mood        sql.NullString
		fluid       sql.NullString
		sexDrive    sql.NullString
		disturbers  string
		temperature sql.NullFloat64
		notes       sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.DailyLogRecord{}
	err := s.Scan(&record.ID, &record.Date, &flow, &symptoms, &mood, &fluid, &sexDrive,
		&disturbers, &temperature, &notes, &record.IsPeriod, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if record.Symptoms, err = decodeSet(symptoms); err != nil {
		return nil, err
	}
	if record.Disturbers, err = decodeSet(disturbers); err != nil {
		return nil, err
	}

	record.Flow = flow.String
	record.Mood = mood.String
	record.Fluid = fluid.String
	record.SexDrive = sexDrive.String
	record.Notes = notes.String
	if temperature.Valid {
		t := temperature.Float64
		record.Temperature = &t
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

func encodeSet(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode set: %w", err)
	}
	return string(b), nil
}

func decodeSet(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode set %q: %w", raw, err)
	}
	return values, nil
}

// Ensure DailyLogRepository implements the interface.
var _ secondary.DailyLogRepository = (*DailyLogRepository)(nil)
