package app

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/example/flux/internal/adapters/memory"
	"github.com/example/flux/internal/adapters/sqlite"
	"github.com/example/flux/internal/core/prediction"
	"github.com/example/flux/internal/ctxutil"
)

// testNow is the fixed clock used by every service under test.
var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

const testModelParams = `{
	"trained_at": "2024-01-01T00:00:00Z",
	"cycles_trained": 6,
	"model_type": "weighted_average",
	"avg_cycle_length": 28,
	"std_cycle_length": 1.5,
	"recent_cycle_lengths": [27, 28, 29],
	"prediction": {
		"next_period_date": "2024-01-29",
		"confidence": 0.8,
		"expected_cycle_length": 28
	}
}`

type testEnv struct {
	store      *memory.Store
	ledger     *LedgerServiceImpl
	prediction *PredictionServiceImpl
	logs       *DailyLogServiceImpl
	imports    *ImportServiceImpl
	activity   *ActivityServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.SetNow(func() time.Time { return testNow })
	logger, _ := test.NewNullLogger()
	logWriter := sqlite.NewLogWriterAdapter(store.Activity())
	now := func() time.Time { return testNow }

	predictionService := NewPredictionService(store.Cycles(), store.Settings(), store, logWriter, prediction.PolicyFixed, now, logger)
	ledgerService := NewLedgerService(store.Cycles(), store, predictionService, logWriter, logger)

	return &testEnv{
		store:      store,
		ledger:     ledgerService,
		prediction: predictionService,
		logs:       NewDailyLogService(store.Logs(), store.Cycles(), store, ledgerService, logWriter, logger),
		imports:    NewImportService(store.Cycles(), store.Logs(), store, predictionService, logWriter, now, logger),
		activity:   NewActivityService(store.Activity()),
	}
}

func cliContext() context.Context {
	return ctxutil.WithActorID(context.Background(), ctxutil.ActorCLI)
}

func (e *testEnv) importModel(t *testing.T) {
	t.Helper()
	if _, err := e.prediction.ImportModelParams(cliContext(), []byte(testModelParams)); err != nil {
		t.Fatalf("ImportModelParams failed: %v", err)
	}
}

func (e *testEnv) start(t *testing.T, date string) string {
	t.Helper()
	c, err := e.ledger.StartPeriod(cliContext(), date)
	if err != nil {
		t.Fatalf("StartPeriod(%s) failed: %v", date, err)
	}
	return c.ID
}

func (e *testEnv) end(t *testing.T, id, date string) {
	t.Helper()
	if _, err := e.ledger.EndPeriod(cliContext(), id, date); err != nil {
		t.Fatalf("EndPeriod(%s, %s) failed: %v", id, date, err)
	}
}
