package app

import (
	"context"
	"fmt"

	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/ports/secondary"
)

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	activityRepo secondary.ActivityLogRepository
}

// NewActivityService creates a new ActivityService with injected dependencies.
func NewActivityService(activityRepo secondary.ActivityLogRepository) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		activityRepo: activityRepo,
	}
}

// ListActivity retrieves entries matching the given filters.
func (s *ActivityServiceImpl) ListActivity(ctx context.Context, filters primary.ActivityFilters) ([]*models.ActivityEntry, error) {
	records, err := s.activityRepo.List(ctx, secondary.ActivityLogFilters{
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		Actor:      filters.Actor,
		Action:     filters.Action,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	entries := make([]*models.ActivityEntry, len(records))
	for i, r := range records {
		entries[i] = recordToActivityEntry(r)
	}
	return entries, nil
}

// PruneActivity deletes entries older than the specified number of days.
func (s *ActivityServiceImpl) PruneActivity(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fault.Newf(fault.KindInvalidRange, "prune_activity", "retention must be at least 1 day, got %d", olderThanDays)
	}
	return s.activityRepo.PruneOlderThan(ctx, olderThanDays)
}

func recordToActivityEntry(r *secondary.ActivityLogRecord) *models.ActivityEntry {
	return &models.ActivityEntry{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		Actor:      r.Actor,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
	}
}

// Ensure ActivityServiceImpl implements the interface
var _ primary.ActivityService = (*ActivityServiceImpl)(nil)
