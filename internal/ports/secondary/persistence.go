// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// Transactor runs a unit of work atomically. Repositories called with the
// ctx handed to fn take part in the same transaction; a nested WithinTx
// joins the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CycleRepository defines the secondary port for cycle persistence.
type CycleRepository interface {
	// Create persists a new cycle.
	Create(ctx context.Context, cycle *CycleRecord) error

	// GetByID retrieves a cycle by its ID. Missing cycles yield a not-found fault.
	GetByID(ctx context.Context, id string) (*CycleRecord, error)

	// GetByStartDate retrieves the cycle starting on date (nil if none).
	GetByStartDate(ctx context.Context, date string) (*CycleRecord, error)

	// Latest retrieves the cycle with the greatest start date (nil if empty).
	Latest(ctx context.Context) (*CycleRecord, error)

	// Previous retrieves the closest cycle starting before date (nil if none).
	Previous(ctx context.Context, date string) (*CycleRecord, error)

	// Next retrieves the closest cycle starting after date (nil if none).
	Next(ctx context.Context, date string) (*CycleRecord, error)

	// List retrieves all cycles ordered by start date ascending.
	List(ctx context.Context) ([]*CycleRecord, error)

	// Update updates an existing cycle.
	Update(ctx context.Context, cycle *CycleRecord) error

	// Delete removes a cycle from persistence.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available cycle ID.
	GetNextID(ctx context.Context) (string, error)
}

// CycleRecord represents a cycle as stored in persistence.
type CycleRecord struct {
	ID           string
	StartDate    string
	EndDate      string // Empty string means null (open)
	PeriodLength int    // Zero means null
	Length       int    // Zero means null
	CreatedAt    string
	UpdatedAt    string
}

// DailyLogRepository defines the secondary port for daily log persistence.
// Logs are keyed by date; writing an existing date updates it in place.
type DailyLogRepository interface {
	// Upsert inserts the log or replaces the one with the same date,
	// keeping the stored ID.
	Upsert(ctx context.Context, log *DailyLogRecord) error

	// GetByDate retrieves the log for date (nil if none).
	GetByDate(ctx context.Context, date string) (*DailyLogRecord, error)

	// GetByID retrieves the log with the given ID (nil if none).
	GetByID(ctx context.Context, id string) (*DailyLogRecord, error)

	// List retrieves logs matching the given filters ordered by date.
	List(ctx context.Context, filters DailyLogFilters) ([]*DailyLogRecord, error)

	// Delete removes the log for date.
	Delete(ctx context.Context, date string) error

	// GetNextID returns the next available log ID.
	GetNextID(ctx context.Context) (string, error)
}

// DailyLogRecord represents a daily log as stored in persistence.
type DailyLogRecord struct {
	ID          string
	Date        string
	Flow        string // Empty string means null
	Symptoms    []string
	Mood        string
	Fluid       string
	SexDrive    string
	Disturbers  []string
	Temperature *float64
	Notes       string
	IsPeriod    bool
	CreatedAt   string
	UpdatedAt   string
}

// DailyLogFilters contains filter options for querying logs. Empty bounds
// are open; set bounds are inclusive.
type DailyLogFilters struct {
	From string
	To   string
}

// SettingRepository defines the secondary port for key/value settings.
// Values are opaque serialized blobs.
type SettingRepository interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ActivityLogRepository defines the secondary port for activity log (audit trail) persistence.
// Entries are immutable - no Update operations, but old entries can be pruned.
type ActivityLogRepository interface {
	// Create persists a new activity entry.
	Create(ctx context.Context, entry *ActivityLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters ActivityLogFilters) ([]*ActivityLogRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// ActivityLogRecord represents an activity entry as stored in persistence.
type ActivityLogRecord struct {
	ID         string
	Timestamp  string
	Actor      string // Empty string means null
	EntityType string
	EntityID   string
	Action     string // 'create', 'update', 'delete'
	FieldName  string // Empty string means null - for updates only
	OldValue   string // Empty string means null
	NewValue   string // Empty string means null
}

// ActivityLogFilters contains filter options for querying activity.
type ActivityLogFilters struct {
	EntityType string
	EntityID   string
	Actor      string
	Action     string
	Limit      int
}
