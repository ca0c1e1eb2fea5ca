package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/importer"
	"github.com/example/flux/internal/core/prediction"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/ports/secondary"
)

// ModelParamsKey is the setting key the model parameters blob is stored under.
const ModelParamsKey = "modelParams"

// PredictionServiceImpl implements the PredictionService interface.
type PredictionServiceImpl struct {
	cycleRepo   secondary.CycleRepository
	settingRepo secondary.SettingRepository
	transactor  secondary.Transactor
	logWriter   secondary.LogWriter
	policy      prediction.FertileWindowPolicy
	now         func() time.Time
	logger      logrus.FieldLogger
}

// NewPredictionService creates a new PredictionService with injected dependencies.
func NewPredictionService(
	cycleRepo secondary.CycleRepository,
	settingRepo secondary.SettingRepository,
	transactor secondary.Transactor,
	logWriter secondary.LogWriter,
	policy prediction.FertileWindowPolicy,
	now func() time.Time,
	logger logrus.FieldLogger,
) *PredictionServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &PredictionServiceImpl{
		cycleRepo:   cycleRepo,
		settingRepo: settingRepo,
		transactor:  transactor,
		logWriter:   logWriter,
		policy:      policy,
		now:         now,
		logger:      logger,
	}
}

// RecomputeFrom re-seeds the stored prediction from seed.
func (s *PredictionServiceImpl) RecomputeFrom(ctx context.Context, seed string) (*models.ModelParams, error) {
	var result *models.ModelParams
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		params, err := s.load(ctx)
		if err != nil {
			return err
		}

		updated, changed, err := prediction.Recompute(seed, params, s.policy)
		if err != nil {
			return err
		}
		result = updated
		if !changed {
			return nil
		}

		before := params.Prediction.NextPeriodDate
		after := updated.Prediction.NextPeriodDate
		if err := s.store(ctx, updated); err != nil {
			return err
		}
		if before != after {
			if err := s.logWriter.LogUpdate(ctx, models.EntityModelParams, ModelParamsKey, "nextPeriodDate", before, after); err != nil {
				return fmt.Errorf("failed to record activity: %w", err)
			}
		}

		s.logger.WithFields(logrus.Fields{
			"seed":           seed,
			"nextPeriodDate": after,
		}).Debug("prediction recomputed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecomputeFromLatest re-seeds from the latest cycle start. With no cycles
// the stored parameters are returned untouched.
func (s *PredictionServiceImpl) RecomputeFromLatest(ctx context.Context) (*models.ModelParams, error) {
	var result *models.ModelParams
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		latest, err := s.cycleRepo.Latest(ctx)
		if err != nil {
			return err
		}
		if latest == nil {
			result, err = s.load(ctx)
			return err
		}
		result, err = s.RecomputeFrom(ctx, latest.StartDate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CurrentCycleDay returns today's cycle day, or nil when unknown.
func (s *PredictionServiceImpl) CurrentCycleDay(ctx context.Context) (*int, error) {
	latest, params, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return prediction.CurrentCycleDay(latest, params, caldate.Today(s.now()))
}

// Status returns the cycle status read model for today.
func (s *PredictionServiceImpl) Status(ctx context.Context) (*models.CycleStatus, error) {
	latest, params, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return prediction.Status(latest, params, caldate.Today(s.now()))
}

// GetModelParams returns the stored parameters, or nil.
func (s *PredictionServiceImpl) GetModelParams(ctx context.Context) (*models.ModelParams, error) {
	return s.load(ctx)
}

// ImportModelParams parses and stores a trainer output document, then
// re-seeds its prediction from the latest cycle.
func (s *PredictionServiceImpl) ImportModelParams(ctx context.Context, raw []byte) (*models.ModelParams, error) {
	params, err := importer.ParseModelParams(raw)
	if err != nil {
		return nil, err
	}

	var result *models.ModelParams
	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.SaveModelParams(ctx, params); err != nil {
			return err
		}
		result, err = s.RecomputeFromLatest(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"modelType":      result.ModelType,
		"cyclesTrained":  result.CyclesTrained,
		"nextPeriodDate": result.Prediction.NextPeriodDate,
	}).Info("model parameters imported")
	return result, nil
}

// SaveModelParams stores params as they are.
func (s *PredictionServiceImpl) SaveModelParams(ctx context.Context, params *models.ModelParams) error {
	return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store(ctx, params); err != nil {
			return err
		}
		if err := s.logWriter.LogCreate(ctx, models.EntityModelParams, ModelParamsKey); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		return nil
	})
}

// ClearModelParams removes the stored parameters.
func (s *PredictionServiceImpl) ClearModelParams(ctx context.Context) error {
	return s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.settingRepo.Delete(ctx, ModelParamsKey); err != nil {
			return err
		}
		if err := s.logWriter.LogDelete(ctx, models.EntityModelParams, ModelParamsKey); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
		return nil
	})
}

// Helper methods

func (s *PredictionServiceImpl) snapshot(ctx context.Context) (*models.Cycle, *models.ModelParams, error) {
	var (
		latest *models.Cycle
		params *models.ModelParams
	)
	err := s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.cycleRepo.Latest(ctx)
		if err != nil {
			return err
		}
		if record != nil {
			latest = recordToCycle(record)
		}
		params, err = s.load(ctx)
		return err
	})
	return latest, params, err
}

func (s *PredictionServiceImpl) load(ctx context.Context) (*models.ModelParams, error) {
	raw, ok, err := s.settingRepo.Get(ctx, ModelParamsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var params models.ModelParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("failed to decode stored model parameters: %w", err)
	}
	return &params, nil
}

func (s *PredictionServiceImpl) store(ctx context.Context, params *models.ModelParams) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode model parameters: %w", err)
	}
	return s.settingRepo.Put(ctx, ModelParamsKey, string(raw))
}

// Ensure PredictionServiceImpl implements the interface.
var _ primary.PredictionService = (*PredictionServiceImpl)(nil)
