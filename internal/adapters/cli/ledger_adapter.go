// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
)

var (
	ok     = color.New(color.FgGreen).Sprint("✓")
	warn   = color.New(color.FgYellow).SprintFunc()
	accent = color.New(color.FgCyan).SprintFunc()
)

// LedgerAdapter translates period and cycle commands to LedgerService calls.
type LedgerAdapter struct {
	service primary.LedgerService
	out     io.Writer
}

// NewLedgerAdapter creates a new LedgerAdapter with the given service.
func NewLedgerAdapter(service primary.LedgerService, out io.Writer) *LedgerAdapter {
	return &LedgerAdapter{
		service: service,
		out:     out,
	}
}

// Start opens a new cycle on date.
func (a *LedgerAdapter) Start(ctx context.Context, date string) error {
	c, err := a.service.StartPeriod(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Period started %s (%s)\n", ok, c.StartDate, c.ID)
	return nil
}

// End closes the period of a cycle. An empty cycleID means the latest cycle.
func (a *LedgerAdapter) End(ctx context.Context, cycleID, date string) error {
	cycleID, err := a.resolve(ctx, cycleID)
	if err != nil {
		return err
	}

	c, err := a.service.EndPeriod(ctx, cycleID, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Period ended %s (%s, %d days)\n", ok, c.EndDate, c.ID, c.PeriodLength)
	return nil
}

// CorrectStart moves the start date of a cycle.
func (a *LedgerAdapter) CorrectStart(ctx context.Context, cycleID, date string) error {
	cycleID, err := a.resolve(ctx, cycleID)
	if err != nil {
		return err
	}

	c, err := a.service.CorrectStart(ctx, cycleID, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Cycle %s now starts %s\n", ok, c.ID, c.StartDate)
	return nil
}

// CorrectEnd moves the end date of a cycle.
func (a *LedgerAdapter) CorrectEnd(ctx context.Context, cycleID, date string) error {
	cycleID, err := a.resolve(ctx, cycleID)
	if err != nil {
		return err
	}

	c, err := a.service.CorrectEnd(ctx, cycleID, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Cycle %s now ends %s (%d days)\n", ok, c.ID, c.EndDate, c.PeriodLength)
	return nil
}

// UndoEnd reopens a cycle.
func (a *LedgerAdapter) UndoEnd(ctx context.Context, cycleID string) error {
	cycleID, err := a.resolve(ctx, cycleID)
	if err != nil {
		return err
	}

	c, err := a.service.UndoEnd(ctx, cycleID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Cycle %s reopened (started %s)\n", ok, c.ID, c.StartDate)
	return nil
}

// UndoStart deletes an open cycle.
func (a *LedgerAdapter) UndoStart(ctx context.Context, cycleID string) error {
	cycleID, err := a.resolve(ctx, cycleID)
	if err != nil {
		return err
	}

	if err := a.service.UndoStart(ctx, cycleID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Cycle %s deleted\n", ok, cycleID)
	return nil
}

// List prints every cycle, oldest first.
func (a *LedgerAdapter) List(ctx context.Context) error {
	cycles, err := a.service.ListCycles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cycles: %w", err)
	}

	if len(cycles) == 0 {
		fmt.Fprintln(a.out, "No cycles recorded")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tEND\tPERIOD\tLENGTH")
	for _, c := range cycles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.StartDate, orDash(c.EndDate), days(c.PeriodLength), days(c.Length))
	}
	return w.Flush()
}

// Show prints a single cycle.
func (a *LedgerAdapter) Show(ctx context.Context, cycleID string) (*models.Cycle, error) {
	cycleID, err := a.resolve(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	c, err := a.service.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}

	fmt.Fprintf(a.out, "\nCycle: %s\n", accent(c.ID))
	fmt.Fprintf(a.out, "Start:  %s\n", c.StartDate)
	if c.IsOpen() {
		fmt.Fprintf(a.out, "End:    %s\n", warn("(ongoing)"))
	} else {
		fmt.Fprintf(a.out, "End:    %s\n", c.EndDate)
		fmt.Fprintf(a.out, "Period: %d days\n", c.PeriodLength)
	}
	if c.Length > 0 {
		fmt.Fprintf(a.out, "Length: %d days\n", c.Length)
	}
	fmt.Fprintln(a.out)

	return c, nil
}

// resolve maps an empty cycle ID to the latest cycle.
func (a *LedgerAdapter) resolve(ctx context.Context, cycleID string) (string, error) {
	if cycleID != "" {
		return cycleID, nil
	}
	latest, err := a.service.LatestCycle(ctx)
	if err != nil {
		return "", err
	}
	if latest == nil {
		return "", fmt.Errorf("no cycles recorded yet - run 'flux period start' first")
	}
	return latest.ID, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func days(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%dd", n)
}
