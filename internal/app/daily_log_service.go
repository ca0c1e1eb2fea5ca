package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/cycle"
	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/ports/secondary"
)

// DailyLogServiceImpl implements the DailyLogService interface.
type DailyLogServiceImpl struct {
	logRepo    secondary.DailyLogRepository
	cycleRepo  secondary.CycleRepository
	transactor secondary.Transactor
	ledger     primary.LedgerService
	logWriter  secondary.LogWriter
	logger     logrus.FieldLogger
}

// NewDailyLogService creates a new DailyLogService with injected dependencies.
func NewDailyLogService(
	logRepo secondary.DailyLogRepository,
	cycleRepo secondary.CycleRepository,
	transactor secondary.Transactor,
	ledger primary.LedgerService,
	logWriter secondary.LogWriter,
	logger logrus.FieldLogger,
) *DailyLogServiceImpl {
	return &DailyLogServiceImpl{
		logRepo:    logRepo,
		cycleRepo:  cycleRepo,
		transactor: transactor,
		ledger:     ledger,
		logWriter:  logWriter,
		logger:     logger,
	}
}

// SaveLog upserts the log for its date. Flow on a day after the latest
// closed period starts a new cycle through the ledger.
func (s *DailyLogServiceImpl) SaveLog(ctx context.Context, log *models.DailyLog) (*primary.SaveLogResponse, error) {
	const op = "save_log"

	if !caldate.Valid(log.Date) {
		return nil, fault.Newf(fault.KindInvalidRange, op, "invalid date %q", log.Date)
	}
	if !models.IsValidFlow(log.Flow) {
		return nil, fault.Newf(fault.KindInvalidRange, op, "unknown flow %q (want one of %v)", log.Flow, models.ValidFlows)
	}

	resp := &primary.SaveLogResponse{}
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.logRepo.GetByDate(ctx, log.Date)
		if err != nil {
			return err
		}

		record := logToRecord(log)
		record.IsPeriod = log.IsPeriod || log.HasFlow()
		if existing != nil {
			record.ID = existing.ID
		} else {
			if record.ID, err = s.logRepo.GetNextID(ctx); err != nil {
				return fmt.Errorf("failed to generate log ID: %w", err)
			}
		}

		if err := s.logRepo.Upsert(ctx, record); err != nil {
			return err
		}
		if existing != nil {
			err = s.logWriter.LogUpdate(ctx, models.EntityDailyLog, record.ID, "flow", existing.Flow, record.Flow)
		} else {
			err = s.logWriter.LogCreate(ctx, models.EntityDailyLog, record.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		resp.Log = recordToLog(record)

		latest, err := s.cycleRepo.Latest(ctx)
		if err != nil {
			return err
		}
		taken, err := s.cycleRepo.GetByStartDate(ctx, log.Date)
		if err != nil {
			return err
		}
		flowCtx := cycle.FlowLogContext{
			Date:       log.Date,
			HasFlow:    log.HasFlow(),
			StartTaken: taken != nil,
			Latest:     snapshotOf(latest),
		}
		if !cycle.ShouldStartFromFlowLog(flowCtx) {
			return nil
		}

		resp.StartedCycle, err = s.ledger.StartPeriod(ctx, log.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	entry := s.logger.WithField("date", log.Date)
	if resp.StartedCycle != nil {
		entry = entry.WithField("cycle", resp.StartedCycle.ID)
	}
	entry.Debug("daily log saved")
	return resp, nil
}

// GetLog retrieves the log for date.
func (s *DailyLogServiceImpl) GetLog(ctx context.Context, date string) (*models.DailyLog, error) {
	record, err := s.logRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fault.NotFound("get_log", "daily log for", date)
	}
	return recordToLog(record), nil
}

// ListLogs retrieves logs in the inclusive range.
func (s *DailyLogServiceImpl) ListLogs(ctx context.Context, from, to string) ([]*models.DailyLog, error) {
	for _, bound := range []string{from, to} {
		if bound != "" && !caldate.Valid(bound) {
			return nil, fault.Newf(fault.KindInvalidRange, "list_logs", "invalid date %q", bound)
		}
	}

	records, err := s.logRepo.List(ctx, secondary.DailyLogFilters{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	logs := make([]*models.DailyLog, len(records))
	for i, r := range records {
		logs[i] = recordToLog(r)
	}
	return logs, nil
}

// DeleteLog removes the log for date.
func (s *DailyLogServiceImpl) DeleteLog(ctx context.Context, date string) error {
	return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.logRepo.GetByDate(ctx, date)
		if err != nil {
			return err
		}
		if record == nil {
			return fault.NotFound("delete_log", "daily log for", date)
		}
		if err := s.logRepo.Delete(ctx, date); err != nil {
			return err
		}
		if err := s.logWriter.LogDelete(ctx, models.EntityDailyLog, record.ID); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		return nil
	})
}

// Helper methods

func recordToLog(r *secondary.DailyLogRecord) *models.DailyLog {
	return &models.DailyLog{
		ID:          r.ID,
		Date:        r.Date,
		Flow:        r.Flow,
		Symptoms:    r.Symptoms,
		Mood:        r.Mood,
		Fluid:       r.Fluid,
		SexDrive:    r.SexDrive,
		Disturbers:  r.Disturbers,
		Temperature: r.Temperature,
		Notes:       r.Notes,
		IsPeriod:    r.IsPeriod,
	}
}

func logToRecord(l *models.DailyLog) *secondary.DailyLogRecord {
	return &secondary.DailyLogRecord{
		ID:          l.ID,
		Date:        l.Date,
		Flow:        l.Flow,
		Symptoms:    l.Symptoms,
		Mood:        l.Mood,
		Fluid:       l.Fluid,
		SexDrive:    l.SexDrive,
		Disturbers:  l.Disturbers,
		Temperature: l.Temperature,
		Notes:       l.Notes,
		IsPeriod:    l.IsPeriod,
	}
}

// Ensure DailyLogServiceImpl implements the interface.
var _ primary.DailyLogService = (*DailyLogServiceImpl)(nil)
