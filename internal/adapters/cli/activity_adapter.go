package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
)

// ActivityAdapter translates activity commands to ActivityService calls.
type ActivityAdapter struct {
	service primary.ActivityService
	out     io.Writer
}

// NewActivityAdapter creates a new ActivityAdapter with the given service.
func NewActivityAdapter(service primary.ActivityService, out io.Writer) *ActivityAdapter {
	return &ActivityAdapter{
		service: service,
		out:     out,
	}
}

// List prints audit entries, newest first.
func (a *ActivityAdapter) List(ctx context.Context, filters primary.ActivityFilters) error {
	entries, err := a.service.ListActivity(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list activity: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No activity found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTOR\tACTION\tENTITY\tCHANGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n", e.Timestamp, orDash(e.Actor), e.Action, e.EntityType, e.EntityID, change(e))
	}
	return w.Flush()
}

// Prune deletes entries older than the given number of days.
func (a *ActivityAdapter) Prune(ctx context.Context, olderThanDays int) error {
	n, err := a.service.PruneActivity(ctx, olderThanDays)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Pruned %d activity entries older than %d day(s)\n", ok, n, olderThanDays)
	return nil
}

func change(e *models.ActivityEntry) string {
	if e.FieldName == "" {
		return "-"
	}
	return fmt.Sprintf("%s: %s -> %s", e.FieldName, orDash(e.OldValue), orDash(e.NewValue))
}
