package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
)

// PredictionAdapter translates status, predict and model commands to
// PredictionService calls.
type PredictionAdapter struct {
	service primary.PredictionService
	out     io.Writer
}

// NewPredictionAdapter creates a new PredictionAdapter with the given service.
func NewPredictionAdapter(service primary.PredictionService, out io.Writer) *PredictionAdapter {
	return &PredictionAdapter{
		service: service,
		out:     out,
	}
}

// Status prints where today falls in the cycle.
func (a *PredictionAdapter) Status(ctx context.Context) error {
	st, err := a.service.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nToday:  %s\n", st.Today)
	if st.CycleDay != nil {
		fmt.Fprintf(a.out, "Day:    %s\n", accent(fmt.Sprintf("%d", *st.CycleDay)))
	} else {
		fmt.Fprintln(a.out, "Day:    unknown")
	}
	fmt.Fprintf(a.out, "Phase:  %s\n", st.Phase)

	switch {
	case st.Overdue:
		fmt.Fprintf(a.out, "Next:   %s\n", warn(fmt.Sprintf("%d day(s) overdue", st.DaysOverdue)))
	case st.DaysUntilNextPeriod != nil:
		fmt.Fprintf(a.out, "Next:   %s (in %d day(s))\n", st.Prediction.NextPeriodDate, *st.DaysUntilNextPeriod)
	default:
		fmt.Fprintln(a.out, "Next:   no prediction (import a model with 'flux model import')")
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints the stored prediction.
func (a *PredictionAdapter) Show(ctx context.Context) error {
	params, err := a.service.GetModelParams(ctx)
	if err != nil {
		return err
	}
	if params == nil || params.Prediction == nil {
		fmt.Fprintln(a.out, "No prediction available")
		return nil
	}

	a.printPrediction(params.Prediction)
	return nil
}

// Recompute re-seeds the prediction from the latest cycle start.
func (a *PredictionAdapter) Recompute(ctx context.Context) error {
	params, err := a.service.RecomputeFromLatest(ctx)
	if err != nil {
		return err
	}
	if params == nil {
		fmt.Fprintln(a.out, "No model parameters stored; nothing to recompute")
		return nil
	}

	fmt.Fprintf(a.out, "%s Prediction recomputed\n", ok)
	a.printPrediction(params.Prediction)
	return nil
}

// ImportModel stores a trainer output document.
func (a *PredictionAdapter) ImportModel(ctx context.Context, raw []byte) error {
	params, err := a.service.ImportModelParams(ctx, raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Imported model trained %s on %d cycle(s)\n", ok, params.TrainedAt, params.CyclesTrained)
	a.printPrediction(params.Prediction)
	return nil
}

// ShowModel prints the stored model parameters.
func (a *PredictionAdapter) ShowModel(ctx context.Context) error {
	params, err := a.service.GetModelParams(ctx)
	if err != nil {
		return err
	}
	if params == nil {
		fmt.Fprintln(a.out, "No model parameters stored")
		return nil
	}

	fmt.Fprintf(a.out, "\nModel:   %s\n", orDash(params.ModelType))
	fmt.Fprintf(a.out, "Trained: %s (%d cycles)\n", params.TrainedAt, params.CyclesTrained)
	fmt.Fprintf(a.out, "Average: %.1f ± %.1f days\n", params.AvgCycleLength, params.StdCycleLength)
	if params.AvgPeriodLength != nil {
		fmt.Fprintf(a.out, "Period:  %.1f days\n", *params.AvgPeriodLength)
	}
	a.printPrediction(params.Prediction)
	return nil
}

// ClearModel removes the stored model parameters.
func (a *PredictionAdapter) ClearModel(ctx context.Context) error {
	if err := a.service.ClearModelParams(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Model parameters cleared\n", ok)
	return nil
}

func (a *PredictionAdapter) printPrediction(p *models.Prediction) {
	if p == nil {
		return
	}
	fmt.Fprintf(a.out, "\nNext period:    %s\n", accent(p.NextPeriodDate))
	fmt.Fprintf(a.out, "Expected cycle: %.1f days\n", p.ExpectedCycleLength)
	fmt.Fprintf(a.out, "Confidence:     %.0f%%\n", p.Confidence*100)
	if p.FertileWindowStart != "" {
		fmt.Fprintf(a.out, "Fertile window: %s .. %s\n", p.FertileWindowStart, p.FertileWindowEnd)
	}
	fmt.Fprintln(a.out)
}
