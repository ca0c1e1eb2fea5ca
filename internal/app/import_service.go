package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/cycle"
	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/core/importer"
	"github.com/example/flux/internal/ctxutil"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/ports/secondary"
)

// ImportServiceImpl implements the ImportService interface.
//
// Bulk writes skip the ledger guards. Existing rows are matched by natural
// key (start date for cycles, date for logs) so repeating an import does not
// duplicate data.
type ImportServiceImpl struct {
	cycleRepo  secondary.CycleRepository
	logRepo    secondary.DailyLogRepository
	transactor secondary.Transactor
	predictor  primary.PredictionService
	logWriter  secondary.LogWriter
	now        func() time.Time
	logger     logrus.FieldLogger
}

// NewImportService creates a new ImportService with injected dependencies.
func NewImportService(
	cycleRepo secondary.CycleRepository,
	logRepo secondary.DailyLogRepository,
	transactor secondary.Transactor,
	predictor primary.PredictionService,
	logWriter secondary.LogWriter,
	now func() time.Time,
	logger logrus.FieldLogger,
) *ImportServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &ImportServiceImpl{
		cycleRepo:  cycleRepo,
		logRepo:    logRepo,
		transactor: transactor,
		predictor:  predictor,
		logWriter:  logWriter,
		now:        now,
		logger:     logger,
	}
}

// ImportExport normalizes a third-party export and stores its cycles and logs.
func (s *ImportServiceImpl) ImportExport(ctx context.Context, raw []byte) (*primary.ImportSummary, error) {
	result, err := importer.NormalizeJSON(raw)
	if err != nil {
		return nil, err
	}
	if len(result.Cycles) == 0 {
		return nil, fault.New(fault.KindMalformedImport, "import_export", "no cycles found in export")
	}

	summary := &primary.ImportSummary{}
	err = s.transactor.WithinTx(withImportActor(ctx), func(ctx context.Context) error {
		if summary.Cycles, err = s.upsertCycles(ctx, result.Cycles); err != nil {
			return err
		}
		if summary.Logs, err = s.upsertLogs(ctx, result.Logs); err != nil {
			return err
		}
		_, err = s.predictor.RecomputeFromLatest(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"cycles": summary.Cycles, "logs": summary.Logs}).Info("export imported")
	return summary, nil
}

// RestoreBackup loads a flux backup document.
func (s *ImportServiceImpl) RestoreBackup(ctx context.Context, raw []byte) (*primary.ImportSummary, error) {
	exp, err := importer.ParseBackup(raw)
	if err != nil {
		return nil, err
	}

	summary := &primary.ImportSummary{}
	err = s.transactor.WithinTx(withImportActor(ctx), func(ctx context.Context) error {
		if summary.Cycles, err = s.upsertCycles(ctx, exp.Cycles); err != nil {
			return err
		}
		if summary.Logs, err = s.upsertLogs(ctx, exp.Logs); err != nil {
			return err
		}
		if exp.ModelParams != nil {
			if err := s.predictor.SaveModelParams(ctx, exp.ModelParams); err != nil {
				return err
			}
			summary.ModelParams = true
		}
		_, err = s.predictor.RecomputeFromLatest(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"cycles":      summary.Cycles,
		"logs":        summary.Logs,
		"modelParams": summary.ModelParams,
	}).Info("backup restored")
	return summary, nil
}

// ExportData serializes the current store contents.
func (s *ImportServiceImpl) ExportData(ctx context.Context) (*models.Export, error) {
	exp := &models.Export{
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Cycles:     []*models.Cycle{},
		Logs:       []*models.DailyLog{},
	}

	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		cycles, err := s.cycleRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list cycles: %w", err)
		}
		for _, r := range cycles {
			exp.Cycles = append(exp.Cycles, recordToCycle(r))
		}

		logs, err := s.logRepo.List(ctx, secondary.DailyLogFilters{})
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}
		for _, r := range logs {
			exp.Logs = append(exp.Logs, recordToLog(r))
		}

		exp.ModelParams, err = s.predictor.GetModelParams(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// ImportCycles bulk-upserts cycles and re-seeds the prediction.
func (s *ImportServiceImpl) ImportCycles(ctx context.Context, cycles []*models.Cycle) (int, error) {
	var n int
	err := s.transactor.WithinTx(withImportActor(ctx), func(ctx context.Context) error {
		var err error
		if n, err = s.upsertCycles(ctx, cycles); err != nil {
			return err
		}
		_, err = s.predictor.RecomputeFromLatest(ctx)
		return err
	})
	return n, err
}

// ImportLogs bulk-upserts daily logs. Logs never start cycles here.
func (s *ImportServiceImpl) ImportLogs(ctx context.Context, logs []*models.DailyLog) (int, error) {
	var n int
	err := s.transactor.WithinTx(withImportActor(ctx), func(ctx context.Context) error {
		var err error
		n, err = s.upsertLogs(ctx, logs)
		return err
	})
	return n, err
}

// Helper methods

func withImportActor(ctx context.Context) context.Context {
	if ctxutil.ActorFromContext(ctx) != "" {
		return ctx
	}
	return ctxutil.WithActorID(ctx, ctxutil.ActorImport)
}

// upsertCycles writes cycles and then re-derives lengths across the whole
// ledger.
func (s *ImportServiceImpl) upsertCycles(ctx context.Context, cycles []*models.Cycle) (int, error) {
	const op = "import_cycles"

	n := 0
	for _, c := range cycles {
		if !caldate.Valid(c.StartDate) {
			return n, fault.Newf(fault.KindMalformedImport, op, "invalid start date %q", c.StartDate)
		}
		if c.EndDate != "" && (!caldate.Valid(c.EndDate) || c.EndDate < c.StartDate) {
			return n, fault.Newf(fault.KindMalformedImport, op, "cycle starting %s has invalid end %q", c.StartDate, c.EndDate)
		}
		if err := s.upsertCycle(ctx, c); err != nil {
			return n, err
		}
		n++
	}

	return n, s.syncLengths(ctx)
}

// upsertCycle matches c by start date, then by its own ID, and creates a
// new row when neither exists.
func (s *ImportServiceImpl) upsertCycle(ctx context.Context, c *models.Cycle) error {
	record := cycleToRecord(c)
	if record.EndDate != "" && record.PeriodLength == 0 {
		record.PeriodLength, _ = cycle.PeriodLength(record.StartDate, record.EndDate)
	}

	existing, err := s.cycleRepo.GetByStartDate(ctx, c.StartDate)
	if err != nil {
		return err
	}
	if existing == nil && c.ID != "" {
		existing, err = s.cycleRepo.GetByID(ctx, c.ID)
		if err != nil && !fault.IsNotFound(err) {
			return err
		}
	}

	if existing != nil {
		record.ID = existing.ID
		if record.Length == 0 && existing.StartDate == record.StartDate {
			record.Length = existing.Length
		}
		if sameCycle(existing, record) {
			return nil
		}
		if err := s.cycleRepo.Update(ctx, record); err != nil {
			return err
		}
		return s.logWriter.LogUpdate(ctx, models.EntityCycle, record.ID, "startDate", existing.StartDate, record.StartDate)
	}

	if record.ID == "" {
		if record.ID, err = s.cycleRepo.GetNextID(ctx); err != nil {
			return fmt.Errorf("failed to generate cycle ID: %w", err)
		}
	}
	if err := s.cycleRepo.Create(ctx, record); err != nil {
		return err
	}
	return s.logWriter.LogCreate(ctx, models.EntityCycle, record.ID)
}

func sameCycle(a, b *secondary.CycleRecord) bool {
	return a.StartDate == b.StartDate &&
		a.EndDate == b.EndDate &&
		a.PeriodLength == b.PeriodLength &&
		a.Length == b.Length
}

// syncLengths sets every cycle's length to the gap to its successor and
// clears it on the last cycle, so starts moved by an import leave no stale
// length behind.
func (s *ImportServiceImpl) syncLengths(ctx context.Context) error {
	all, err := s.cycleRepo.List(ctx)
	if err != nil {
		return err
	}
	for i, record := range all {
		want := 0
		if i+1 < len(all) {
			if want, err = cycle.Length(record.StartDate, all[i+1].StartDate); err != nil {
				return err
			}
		}
		if record.Length == want {
			continue
		}
		record.Length = want
		if err := s.cycleRepo.Update(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *ImportServiceImpl) upsertLogs(ctx context.Context, logs []*models.DailyLog) (int, error) {
	n := 0
	for _, l := range logs {
		if !caldate.Valid(l.Date) {
			return n, fault.Newf(fault.KindMalformedImport, "import_logs", "invalid log date %q", l.Date)
		}
		if !models.IsValidFlow(l.Flow) {
			return n, fault.Newf(fault.KindMalformedImport, "import_logs", "log %s has unknown flow %q", l.Date, l.Flow)
		}
		if err := s.upsertLog(ctx, logToRecord(l)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// upsertLog matches record by date, then by its own ID, and creates a new
// row when neither exists. A log matched by ID moves to the new date.
func (s *ImportServiceImpl) upsertLog(ctx context.Context, record *secondary.DailyLogRecord) error {
	existing, err := s.logRepo.GetByDate(ctx, record.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		record.ID = existing.ID
		return s.logRepo.Upsert(ctx, record)
	}

	if record.ID != "" {
		byID, err := s.logRepo.GetByID(ctx, record.ID)
		if err != nil {
			return err
		}
		if byID != nil {
			if err := s.logRepo.Delete(ctx, byID.Date); err != nil {
				return err
			}
			if err := s.logRepo.Upsert(ctx, record); err != nil {
				return err
			}
			return s.logWriter.LogUpdate(ctx, models.EntityDailyLog, record.ID, "date", byID.Date, record.Date)
		}
	} else if record.ID, err = s.logRepo.GetNextID(ctx); err != nil {
		return fmt.Errorf("failed to generate log ID: %w", err)
	}

	if err := s.logRepo.Upsert(ctx, record); err != nil {
		return err
	}
	return s.logWriter.LogCreate(ctx, models.EntityDailyLog, record.ID)
}

// Ensure ImportServiceImpl implements the interface.
var _ primary.ImportService = (*ImportServiceImpl)(nil)
