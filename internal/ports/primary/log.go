package primary

import (
	"context"

	"github.com/example/flux/internal/models"
)

// ActivityService defines the primary port for activity log operations.
type ActivityService interface {
	// ListActivity retrieves entries matching the given filters, newest first.
	ListActivity(ctx context.Context, filters ActivityFilters) ([]*models.ActivityEntry, error)

	// PruneActivity deletes entries older than the specified number of days.
	PruneActivity(ctx context.Context, olderThanDays int) (int, error)
}

// ActivityFilters contains filter options for querying activity.
type ActivityFilters struct {
	EntityType string
	EntityID   string
	Actor      string
	Action     string
	Limit      int
}
