package primary

import (
	"context"

	"github.com/example/flux/internal/models"
)

// DailyLogService defines the primary port for daily observations.
type DailyLogService interface {
	// SaveLog upserts the log for its date. A bleeding entry after a closed
	// cycle opens a new one.
	SaveLog(ctx context.Context, log *models.DailyLog) (*SaveLogResponse, error)

	// GetLog retrieves the log for date.
	GetLog(ctx context.Context, date string) (*models.DailyLog, error)

	// ListLogs retrieves logs in the inclusive range; empty bounds are open.
	ListLogs(ctx context.Context, from, to string) ([]*models.DailyLog, error)

	// DeleteLog removes the log for date.
	DeleteLog(ctx context.Context, date string) error
}

// SaveLogResponse contains the result of saving a log.
type SaveLogResponse struct {
	Log          *models.DailyLog
	StartedCycle *models.Cycle // non-nil when the log opened a cycle
}
