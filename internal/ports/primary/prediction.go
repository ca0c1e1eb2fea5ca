package primary

import (
	"context"

	"github.com/example/flux/internal/models"
)

// PredictionService defines the primary port for model parameters and the
// prediction derived from them.
type PredictionService interface {
	// RecomputeFrom re-seeds the stored prediction from seed. Returns the
	// stored parameters, or nil when no model has been imported.
	RecomputeFrom(ctx context.Context, seed string) (*models.ModelParams, error)

	// RecomputeFromLatest re-seeds from the latest cycle start, if any.
	RecomputeFromLatest(ctx context.Context) (*models.ModelParams, error)

	// CurrentCycleDay returns today's cycle day, or nil when unknown.
	CurrentCycleDay(ctx context.Context) (*int, error)

	// Status returns the cycle status read model for today.
	Status(ctx context.Context) (*models.CycleStatus, error)

	// GetModelParams returns the stored parameters, or nil.
	GetModelParams(ctx context.Context) (*models.ModelParams, error)

	// ImportModelParams parses, stores and re-seeds a trainer output document.
	ImportModelParams(ctx context.Context, raw []byte) (*models.ModelParams, error)

	// SaveModelParams stores already-validated parameters as they are.
	SaveModelParams(ctx context.Context, params *models.ModelParams) error

	// ClearModelParams removes the stored parameters.
	ClearModelParams(ctx context.Context) error
}
