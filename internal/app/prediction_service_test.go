package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
)

func TestImportModelParams(t *testing.T) {
	env := newTestEnv(t)
	env.start(t, "2024-05-27")

	params, err := env.prediction.ImportModelParams(cliContext(), []byte(testModelParams))
	if err != nil {
		t.Fatalf("ImportModelParams failed: %v", err)
	}
	if params.Prediction.NextPeriodDate != "2024-06-24" {
		t.Errorf("expected prediction seeded from latest start, got %s", params.Prediction.NextPeriodDate)
	}
	if params.ModelType != models.ModelTypeWeightedAverage {
		t.Errorf("expected model type weighted_average, got %s", params.ModelType)
	}
}

func TestImportModelParams_Rejects(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.prediction.ImportModelParams(cliContext(), []byte(`{"trained_at": "2024-01-01"}`))
	if !errors.Is(err, fault.ErrMalformedImport) {
		t.Errorf("expected MalformedImport, got %v", err)
	}

	params, err := env.prediction.GetModelParams(context.Background())
	if err != nil {
		t.Fatalf("GetModelParams failed: %v", err)
	}
	if params != nil {
		t.Error("expected nothing stored")
	}
}

func TestRecomputeFrom_WithoutModel(t *testing.T) {
	env := newTestEnv(t)

	params, err := env.prediction.RecomputeFrom(context.Background(), "2024-01-01")
	if err != nil {
		t.Fatalf("RecomputeFrom failed: %v", err)
	}
	if params != nil {
		t.Errorf("expected nil params, got %+v", params)
	}
}

func TestRecomputeFrom_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.importModel(t)
	ctx := context.Background()

	if _, err := env.prediction.RecomputeFrom(ctx, "2024-01-01"); err != nil {
		t.Fatalf("RecomputeFrom failed: %v", err)
	}
	first, _, _ := env.store.Settings().Get(ctx, ModelParamsKey)
	if _, err := env.prediction.RecomputeFrom(ctx, "2024-01-01"); err != nil {
		t.Fatalf("RecomputeFrom failed: %v", err)
	}
	second, _, _ := env.store.Settings().Get(ctx, ModelParamsKey)

	if first != second {
		t.Errorf("expected identical stored parameters:\n%s\n%s", first, second)
	}
}

func TestCurrentCycleDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	day, err := env.prediction.CurrentCycleDay(ctx)
	if err != nil {
		t.Fatalf("CurrentCycleDay failed: %v", err)
	}
	if day != nil {
		t.Errorf("expected nil day on empty store, got %d", *day)
	}

	env.start(t, "2024-06-01")
	day, err = env.prediction.CurrentCycleDay(ctx)
	if err != nil {
		t.Fatalf("CurrentCycleDay failed: %v", err)
	}
	if day == nil || *day != 10 {
		t.Errorf("expected day 10, got %v", day)
	}
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)
	env.importModel(t)
	env.start(t, "2024-06-01")

	status, err := env.prediction.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Phase != models.PhaseFollicular {
		t.Errorf("expected follicular phase, got %s", status.Phase)
	}
	if status.DaysUntilNextPeriod == nil || *status.DaysUntilNextPeriod != 19 {
		t.Errorf("expected 19 days until next period, got %v", status.DaysUntilNextPeriod)
	}
	if status.Overdue {
		t.Error("expected not overdue")
	}
}

func TestClearModelParams(t *testing.T) {
	env := newTestEnv(t)
	env.importModel(t)
	ctx := cliContext()

	if err := env.prediction.ClearModelParams(ctx); err != nil {
		t.Fatalf("ClearModelParams failed: %v", err)
	}
	params, err := env.prediction.GetModelParams(ctx)
	if err != nil {
		t.Fatalf("GetModelParams failed: %v", err)
	}
	if params != nil {
		t.Error("expected parameters to be cleared")
	}
}
