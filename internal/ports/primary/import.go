package primary

import (
	"context"

	"github.com/example/flux/internal/models"
)

// ImportService defines the primary port for bulk data movement. Bulk
// writes bypass the live ledger guards and upsert by natural key.
type ImportService interface {
	// ImportExport normalizes a third-party export and stores its cycles and logs.
	ImportExport(ctx context.Context, raw []byte) (*ImportSummary, error)

	// RestoreBackup loads a flux backup document.
	RestoreBackup(ctx context.Context, raw []byte) (*ImportSummary, error)

	// ExportData serializes the current store contents.
	ExportData(ctx context.Context) (*models.Export, error)

	// ImportCycles bulk-upserts cycles.
	ImportCycles(ctx context.Context, cycles []*models.Cycle) (int, error)

	// ImportLogs bulk-upserts daily logs.
	ImportLogs(ctx context.Context, logs []*models.DailyLog) (int, error)
}

// ImportSummary reports what a bulk import wrote.
type ImportSummary struct {
	Cycles      int  `json:"cycles"`
	Logs        int  `json:"logs"`
	ModelParams bool `json:"modelParams"`
}
