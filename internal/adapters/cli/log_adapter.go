package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
)

// LogAdapter translates daily log commands to DailyLogService calls.
type LogAdapter struct {
	service primary.DailyLogService
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter with the given service.
func NewLogAdapter(service primary.DailyLogService, out io.Writer) *LogAdapter {
	return &LogAdapter{
		service: service,
		out:     out,
	}
}

// Save stores the log for its date.
func (a *LogAdapter) Save(ctx context.Context, log *models.DailyLog) error {
	resp, err := a.service.SaveLog(ctx, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Saved log for %s (%s)\n", ok, resp.Log.Date, resp.Log.ID)
	if resp.StartedCycle != nil {
		fmt.Fprintf(a.out, "  Started cycle %s on %s\n", resp.StartedCycle.ID, resp.StartedCycle.StartDate)
	}
	return nil
}

// Show prints the log for date.
func (a *LogAdapter) Show(ctx context.Context, date string) error {
	l, err := a.service.GetLog(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nLog: %s (%s)\n", accent(l.Date), l.ID)
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(a.out, "%-12s %s\n", name+":", value)
		}
	}
	field("Flow", l.Flow)
	if l.IsPeriod && l.Flow == "" {
		field("Period", "yes")
	}
	field("Symptoms", strings.Join(l.Symptoms, ", "))
	field("Mood", l.Mood)
	field("Fluid", l.Fluid)
	field("Sex drive", l.SexDrive)
	field("Disturbers", strings.Join(l.Disturbers, ", "))
	if l.Temperature != nil {
		field("Temperature", fmt.Sprintf("%.2f", *l.Temperature))
	}
	field("Notes", l.Notes)
	fmt.Fprintln(a.out)
	return nil
}

// List prints logs in the inclusive range.
func (a *LogAdapter) List(ctx context.Context, from, to string) error {
	logs, err := a.service.ListLogs(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}

	if len(logs) == 0 {
		fmt.Fprintln(a.out, "No logs found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tFLOW\tMOOD\tSYMPTOMS")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Date, orDash(l.Flow), orDash(l.Mood), orDash(strings.Join(l.Symptoms, ",")))
	}
	return w.Flush()
}

// Delete removes the log for date.
func (a *LogAdapter) Delete(ctx context.Context, date string) error {
	if err := a.service.DeleteLog(ctx, date); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted log for %s\n", ok, date)
	return nil
}
