package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/example/flux/internal/adapters/backup"
	"github.com/example/flux/internal/ports/primary"
)

// DataAdapter translates import, export and backup commands to
// ImportService calls.
type DataAdapter struct {
	service primary.ImportService
	out     io.Writer
}

// NewDataAdapter creates a new DataAdapter with the given service.
func NewDataAdapter(service primary.ImportService, out io.Writer) *DataAdapter {
	return &DataAdapter{
		service: service,
		out:     out,
	}
}

// Import normalizes and stores a third-party export file.
func (a *DataAdapter) Import(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}

	summary, err := a.service.ImportExport(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Imported %d cycle(s) and %d log(s) from %s\n", ok, summary.Cycles, summary.Logs, path)
	return nil
}

// Export writes a backup document to path. A path ending in .sz is always
// compressed.
func (a *DataAdapter) Export(ctx context.Context, path string, compress bool) error {
	exp, err := a.service.ExportData(ctx)
	if err != nil {
		return err
	}

	if err := backup.WriteFile(path, exp, compress); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Exported %d cycle(s) and %d log(s) to %s\n", ok, len(exp.Cycles), len(exp.Logs), path)
	return nil
}

// Restore loads a backup document written by Export.
func (a *DataAdapter) Restore(ctx context.Context, path string) error {
	raw, err := backup.ReadFile(path)
	if err != nil {
		return err
	}

	summary, err := a.service.RestoreBackup(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Restored %d cycle(s) and %d log(s) from %s\n", ok, summary.Cycles, summary.Logs, path)
	if summary.ModelParams {
		fmt.Fprintln(a.out, "  Model parameters restored")
	}
	return nil
}
