// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces the CLI and HTTP adapters call into.
package primary

import (
	"context"

	"github.com/example/flux/internal/models"
)

// LedgerService defines the primary port for cycle lifecycle operations.
// Every mutation runs in one transaction together with the prediction
// recompute it triggers.
type LedgerService interface {
	// StartPeriod opens a new cycle on date.
	StartPeriod(ctx context.Context, date string) (*models.Cycle, error)

	// EndPeriod records the last bleeding day of a cycle.
	EndPeriod(ctx context.Context, cycleID, date string) (*models.Cycle, error)

	// CorrectStart moves the start date of a cycle.
	CorrectStart(ctx context.Context, cycleID, newDate string) (*models.Cycle, error)

	// CorrectEnd moves the end date of a cycle.
	CorrectEnd(ctx context.Context, cycleID, newDate string) (*models.Cycle, error)

	// UndoEnd reopens the latest cycle. Older cycles are rejected so at most one cycle is open.
	UndoEnd(ctx context.Context, cycleID string) (*models.Cycle, error)

	// UndoStart deletes the latest cycle when it is still open.
	UndoStart(ctx context.Context, cycleID string) error

	// GetCycle retrieves a cycle by ID.
	GetCycle(ctx context.Context, cycleID string) (*models.Cycle, error)

	// ListCycles retrieves all cycles ordered by start date.
	ListCycles(ctx context.Context) ([]*models.Cycle, error)

	// LatestCycle retrieves the most recent cycle, or nil when none exist.
	LatestCycle(ctx context.Context) (*models.Cycle, error)
}
