package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/example/flux/internal/core/cycle"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/ports/secondary"
)

// recomputer re-seeds the stored prediction. Satisfied by PredictionServiceImpl.
type recomputer interface {
	RecomputeFrom(ctx context.Context, seed string) (*models.ModelParams, error)
}

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	cycleRepo  secondary.CycleRepository
	transactor secondary.Transactor
	predictor  recomputer
	logWriter  secondary.LogWriter
	logger     logrus.FieldLogger
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(
	cycleRepo secondary.CycleRepository,
	transactor secondary.Transactor,
	predictor recomputer,
	logWriter secondary.LogWriter,
	logger logrus.FieldLogger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		cycleRepo:  cycleRepo,
		transactor: transactor,
		predictor:  predictor,
		logWriter:  logWriter,
		logger:     logger,
	}
}

// StartPeriod opens a new cycle on date and re-seeds the prediction from it.
func (s *LedgerServiceImpl) StartPeriod(ctx context.Context, date string) (*models.Cycle, error) {
	var result *models.Cycle
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		latest, err := s.cycleRepo.Latest(ctx)
		if err != nil {
			return err
		}
		taken, err := s.cycleRepo.GetByStartDate(ctx, date)
		if err != nil {
			return err
		}

		guardCtx := cycle.StartContext{
			Date:       date,
			Latest:     snapshotOf(latest),
			StartTaken: taken != nil,
		}
		if err := cycle.CanStartPeriod(guardCtx).Error(); err != nil {
			return err
		}

		nextID, err := s.cycleRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate cycle ID: %w", err)
		}
		record := &secondary.CycleRecord{ID: nextID, StartDate: date}
		if err := s.cycleRepo.Create(ctx, record); err != nil {
			return err
		}
		if err := s.logWriter.LogCreate(ctx, models.EntityCycle, nextID); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		// The previous cycle now has a successor.
		if latest != nil {
			length, err := cycle.Length(latest.StartDate, date)
			if err != nil {
				return err
			}
			if err := s.setLength(ctx, latest, length); err != nil {
				return err
			}
		}

		if _, err := s.predictor.RecomputeFrom(ctx, date); err != nil {
			return err
		}

		result = recordToCycle(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"cycle": result.ID, "start": result.StartDate}).Info("period started")
	return result, nil
}

// EndPeriod records date as the last bleeding day of the cycle.
func (s *LedgerServiceImpl) EndPeriod(ctx context.Context, cycleID, date string) (*models.Cycle, error) {
	var result *models.Cycle
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.cycleRepo.GetByID(ctx, cycleID)
		if err != nil {
			return err
		}

		guardCtx := cycle.EndContext{CycleID: cycleID, StartDate: record.StartDate, Date: date}
		if err := cycle.CanEndPeriod(guardCtx).Error(); err != nil {
			return err
		}

		result, err = s.setEnd(ctx, record, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"cycle": cycleID, "end": date}).Info("period ended")
	return result, nil
}

// CorrectStart moves the start of a cycle, keeping the neighbouring lengths
// consistent. The prediction follows only when the latest cycle moves.
func (s *LedgerServiceImpl) CorrectStart(ctx context.Context, cycleID, newDate string) (*models.Cycle, error) {
	var result *models.Cycle
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.cycleRepo.GetByID(ctx, cycleID)
		if err != nil {
			return err
		}
		prev, err := s.cycleRepo.Previous(ctx, record.StartDate)
		if err != nil {
			return err
		}
		next, err := s.cycleRepo.Next(ctx, record.StartDate)
		if err != nil {
			return err
		}

		guardCtx := cycle.CorrectStartContext{
			CycleID: cycleID,
			EndDate: record.EndDate,
			NewDate: newDate,
		}
		if prev != nil {
			guardCtx.PreviousStart = prev.StartDate
		}
		if next != nil {
			guardCtx.NextStart = next.StartDate
		}
		if err := cycle.CanCorrectStart(guardCtx).Error(); err != nil {
			return err
		}

		oldStart := record.StartDate
		record.StartDate = newDate
		if record.EndDate != "" {
			if record.PeriodLength, err = cycle.PeriodLength(newDate, record.EndDate); err != nil {
				return err
			}
		}
		if next != nil {
			if record.Length, err = cycle.Length(newDate, next.StartDate); err != nil {
				return err
			}
		}
		if err := s.cycleRepo.Update(ctx, record); err != nil {
			return err
		}
		if err := s.logWriter.LogUpdate(ctx, models.EntityCycle, cycleID, "startDate", oldStart, newDate); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		if prev != nil {
			length, err := cycle.Length(prev.StartDate, newDate)
			if err != nil {
				return err
			}
			if err := s.setLength(ctx, prev, length); err != nil {
				return err
			}
		}

		if next == nil {
			if _, err := s.predictor.RecomputeFrom(ctx, newDate); err != nil {
				return err
			}
		}

		result = recordToCycle(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"cycle": cycleID, "start": newDate}).Info("cycle start corrected")
	return result, nil
}

// CorrectEnd moves the end of a cycle.
func (s *LedgerServiceImpl) CorrectEnd(ctx context.Context, cycleID, newDate string) (*models.Cycle, error) {
	var result *models.Cycle
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.cycleRepo.GetByID(ctx, cycleID)
		if err != nil {
			return err
		}

		guardCtx := cycle.CorrectEndContext{CycleID: cycleID, StartDate: record.StartDate, NewDate: newDate}
		if err := cycle.CanCorrectEnd(guardCtx).Error(); err != nil {
			return err
		}

		result, err = s.setEnd(ctx, record, newDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"cycle": cycleID, "end": newDate}).Info("cycle end corrected")
	return result, nil
}

// UndoEnd reopens the latest cycle.
func (s *LedgerServiceImpl) UndoEnd(ctx context.Context, cycleID string) (*models.Cycle, error) {
	var result *models.Cycle
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.cycleRepo.GetByID(ctx, cycleID)
		if err != nil {
			return err
		}
		next, err := s.cycleRepo.Next(ctx, record.StartDate)
		if err != nil {
			return err
		}

		if err := cycle.CanUndoEnd(cycle.UndoEndContext{CycleID: cycleID, HasLater: next != nil}).Error(); err != nil {
			return err
		}

		oldEnd := record.EndDate
		record.EndDate = ""
		record.PeriodLength = 0
		if err := s.cycleRepo.Update(ctx, record); err != nil {
			return err
		}
		if oldEnd != "" {
			if err := s.logWriter.LogUpdate(ctx, models.EntityCycle, cycleID, "endDate", oldEnd, ""); err != nil {
				return fmt.Errorf("failed to record activity: %w", err)
			}
		}

		result = recordToCycle(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("cycle", cycleID).Info("period reopened")
	return result, nil
}

// UndoStart deletes the open latest cycle and re-seeds the prediction from the
// cycle that becomes the latest.
func (s *LedgerServiceImpl) UndoStart(ctx context.Context, cycleID string) error {
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.cycleRepo.GetByID(ctx, cycleID)
		if err != nil {
			return err
		}

		next, err := s.cycleRepo.Next(ctx, record.StartDate)
		if err != nil {
			return err
		}

		undoCtx := cycle.UndoStartContext{CycleID: cycleID, EndDate: record.EndDate, HasLater: next != nil}
		if err := cycle.CanUndoStart(undoCtx).Error(); err != nil {
			return err
		}

		if err := s.cycleRepo.Delete(ctx, cycleID); err != nil {
			return err
		}
		if err := s.logWriter.LogDelete(ctx, models.EntityCycle, cycleID); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}

		latest, err := s.cycleRepo.Latest(ctx)
		if err != nil {
			return err
		}
		if latest == nil {
			return nil
		}
		if err := s.setLength(ctx, latest, 0); err != nil {
			return err
		}
		_, err = s.predictor.RecomputeFrom(ctx, latest.StartDate)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.WithField("cycle", cycleID).Info("period start undone")
	return nil
}

// GetCycle retrieves a cycle by ID.
func (s *LedgerServiceImpl) GetCycle(ctx context.Context, cycleID string) (*models.Cycle, error) {
	record, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return recordToCycle(record), nil
}

// ListCycles retrieves all cycles ordered by start date.
func (s *LedgerServiceImpl) ListCycles(ctx context.Context) ([]*models.Cycle, error) {
	records, err := s.cycleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}

	cycles := make([]*models.Cycle, len(records))
	for i, r := range records {
		cycles[i] = recordToCycle(r)
	}
	return cycles, nil
}

// LatestCycle retrieves the most recent cycle, or nil.
func (s *LedgerServiceImpl) LatestCycle(ctx context.Context) (*models.Cycle, error) {
	record, err := s.cycleRepo.Latest(ctx)
	if err != nil || record == nil {
		return nil, err
	}
	return recordToCycle(record), nil
}

// Helper methods

func (s *LedgerServiceImpl) setEnd(ctx context.Context, record *secondary.CycleRecord, date string) (*models.Cycle, error) {
	periodLength, err := cycle.PeriodLength(record.StartDate, date)
	if err != nil {
		return nil, err
	}

	oldEnd := record.EndDate
	record.EndDate = date
	record.PeriodLength = periodLength
	if err := s.cycleRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	if err := s.logWriter.LogUpdate(ctx, models.EntityCycle, record.ID, "endDate", oldEnd, date); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	return recordToCycle(record), nil
}

func (s *LedgerServiceImpl) setLength(ctx context.Context, record *secondary.CycleRecord, length int) error {
	if record.Length == length {
		return nil
	}

	old := record.Length
	record.Length = length
	if err := s.cycleRepo.Update(ctx, record); err != nil {
		return err
	}
	if err := s.logWriter.LogUpdate(ctx, models.EntityCycle, record.ID, "length", formatLength(old), formatLength(length)); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func formatLength(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func snapshotOf(r *secondary.CycleRecord) *cycle.Snapshot {
	if r == nil {
		return nil
	}
	return &cycle.Snapshot{ID: r.ID, StartDate: r.StartDate, EndDate: r.EndDate}
}

func recordToCycle(r *secondary.CycleRecord) *models.Cycle {
	return &models.Cycle{
		ID:           r.ID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		PeriodLength: r.PeriodLength,
		Length:       r.Length,
	}
}

func cycleToRecord(c *models.Cycle) *secondary.CycleRecord {
	return &secondary.CycleRecord{
		ID:           c.ID,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		PeriodLength: c.PeriodLength,
		Length:       c.Length,
	}
}

// Ensure LedgerServiceImpl implements the interface.
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
