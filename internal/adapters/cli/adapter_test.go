package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/example/flux/internal/adapters/memory"
	"github.com/example/flux/internal/adapters/sqlite"
	"github.com/example/flux/internal/app"
	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/core/prediction"
	"github.com/example/flux/internal/ctxutil"
	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/ports/primary"
)

const modelDoc = `{
	"trained_at": "2024-01-01T00:00:00Z",
	"cycles_trained": 6,
	"avg_cycle_length": 28,
	"std_cycle_length": 1.5,
	"prediction": {
		"next_period_date": "2024-01-29",
		"confidence": 0.8,
		"expected_cycle_length": 28
	}
}`

type services struct {
	ledger     *app.LedgerServiceImpl
	prediction *app.PredictionServiceImpl
	logs       *app.DailyLogServiceImpl
	imports    *app.ImportServiceImpl
	activity   *app.ActivityServiceImpl
}

func newServices(t *testing.T) *services {
	t.Helper()

	now := func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	store := memory.NewStore()
	store.SetNow(now)
	logger, _ := test.NewNullLogger()
	logWriter := sqlite.NewLogWriterAdapter(store.Activity())

	predictionService := app.NewPredictionService(store.Cycles(), store.Settings(), store, logWriter, prediction.PolicyFixed, now, logger)
	ledgerService := app.NewLedgerService(store.Cycles(), store, predictionService, logWriter, logger)

	return &services{
		ledger:     ledgerService,
		prediction: predictionService,
		logs:       app.NewDailyLogService(store.Logs(), store.Cycles(), store, ledgerService, logWriter, logger),
		imports:    app.NewImportService(store.Cycles(), store.Logs(), store, predictionService, logWriter, now, logger),
		activity:   app.NewActivityService(store.Activity()),
	}
}

func ctx() context.Context {
	return ctxutil.WithActorID(context.Background(), ctxutil.ActorCLI)
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, out)
	}
}

func TestLedgerAdapter_Lifecycle(t *testing.T) {
	svc := newServices(t)
	var out bytes.Buffer
	adapter := NewLedgerAdapter(svc.ledger, &out)

	if err := adapter.Start(ctx(), "2024-05-01"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	assertContains(t, out.String(), "Period started 2024-05-01 (CYC-0001)")

	out.Reset()
	if err := adapter.End(ctx(), "", "2024-05-05"); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	assertContains(t, out.String(), "Period ended 2024-05-05 (CYC-0001, 5 days)")

	out.Reset()
	if err := adapter.CorrectEnd(ctx(), "CYC-0001", "2024-05-06"); err != nil {
		t.Fatalf("CorrectEnd failed: %v", err)
	}
	assertContains(t, out.String(), "now ends 2024-05-06 (6 days)")

	out.Reset()
	if err := adapter.Start(ctx(), "2024-05-29"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	out.Reset()
	if err := adapter.List(ctx()); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), out.String())
	}
	assertContains(t, lines[0], "START")
	assertContains(t, lines[1], "2024-05-06")
	assertContains(t, lines[1], "28d")
	assertContains(t, lines[2], "CYC-0002")

	out.Reset()
	c, err := adapter.Show(ctx(), "")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if c.ID != "CYC-0002" {
		t.Errorf("expected latest cycle CYC-0002, got %s", c.ID)
	}
	assertContains(t, out.String(), "(ongoing)")

	out.Reset()
	if err := adapter.UndoStart(ctx(), ""); err != nil {
		t.Fatalf("UndoStart failed: %v", err)
	}
	assertContains(t, out.String(), "Cycle CYC-0002 deleted")
}

func TestLedgerAdapter_EmptyLedger(t *testing.T) {
	svc := newServices(t)
	var out bytes.Buffer
	adapter := NewLedgerAdapter(svc.ledger, &out)

	if err := adapter.List(ctx()); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	assertContains(t, out.String(), "No cycles recorded")

	err := adapter.End(ctx(), "", "2024-05-05")
	if err == nil {
		t.Fatal("expected error ending a period with no cycles")
	}
	assertContains(t, err.Error(), "no cycles recorded yet")
}

func TestLedgerAdapter_PropagatesFaults(t *testing.T) {
	svc := newServices(t)
	var out bytes.Buffer
	adapter := NewLedgerAdapter(svc.ledger, &out)

	if err := adapter.Start(ctx(), "2024-05-01"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	out.Reset()

	err := adapter.Start(ctx(), "2024-05-03")
	if !errors.Is(err, fault.ErrInvalidTransition) {
		t.Errorf("expected invalid transition, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output on failure, got %q", out.String())
	}
}

func TestLogAdapter(t *testing.T) {
	svc := newServices(t)
	var out bytes.Buffer
	adapter := NewLogAdapter(svc.logs, &out)

	temp := 36.55
	err := adapter.Save(ctx(), &models.DailyLog{
		Date:        "2024-06-01",
		Flow:        models.FlowMedium,
		Symptoms:    []string{"cramps", "headache"},
		Mood:        "calm",
		Temperature: &temp,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	assertContains(t, out.String(), "Saved log for 2024-06-01 (LOG-0001)")
	assertContains(t, out.String(), "Started cycle CYC-0001 on 2024-06-01")

	out.Reset()
	if err := adapter.Show(ctx(), "2024-06-01"); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	assertContains(t, out.String(), "cramps, headache")
	assertContains(t, out.String(), "36.55")

	out.Reset()
	if err := adapter.List(ctx(), "2024-06-01", "2024-06-30"); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	assertContains(t, out.String(), "medium")

	out.Reset()
	if err := adapter.Delete(ctx(), "2024-06-01"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertContains(t, out.String(), "Deleted log for 2024-06-01")

	if err := adapter.Show(ctx(), "2024-06-01"); !fault.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestPredictionAdapter(t *testing.T) {
	svc := newServices(t)
	var out bytes.Buffer
	adapter := NewPredictionAdapter(svc.prediction, &out)

	if err := adapter.Status(ctx()); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	assertContains(t, out.String(), "Day:    unknown")
	assertContains(t, out.String(), "no prediction")

	out.Reset()
	if err := adapter.ImportModel(ctx(), []byte(modelDoc)); err != nil {
		t.Fatalf("ImportModel failed: %v", err)
	}
	assertContains(t, out.String(), "on 6 cycle(s)")

	if _, err := svc.ledger.StartPeriod(ctx(), "2024-06-01"); err != nil {
		t.Fatalf("StartPeriod failed: %v", err)
	}

	out.Reset()
	if err := adapter.Show(ctx()); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	assertContains(t, out.String(), "2024-06-29")
	assertContains(t, out.String(), "Confidence:     80%")

	out.Reset()
	if err := adapter.Status(ctx()); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	assertContains(t, out.String(), "(in 19 day(s))")

	out.Reset()
	if err := adapter.ClearModel(ctx()); err != nil {
		t.Fatalf("ClearModel failed: %v", err)
	}
	out.Reset()
	if err := adapter.Recompute(ctx()); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	assertContains(t, out.String(), "nothing to recompute")
}

func TestDataAdapter_ExportRestore(t *testing.T) {
	src := newServices(t)
	for _, date := range []string{"2024-04-03", "2024-05-01"} {
		if _, err := src.ledger.StartPeriod(ctx(), date); err != nil {
			t.Fatalf("StartPeriod failed: %v", err)
		}
	}

	tests := []struct {
		name     string
		file     string
		compress bool
	}{
		{"plain", "backup.json", false},
		{"compressed flag", "backup.json", true},
		{"compressed extension", "backup.json.sz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			var out bytes.Buffer

			if err := NewDataAdapter(src.imports, &out).Export(ctx(), path, tt.compress); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			assertContains(t, out.String(), "Exported 2 cycle(s)")

			dst := newServices(t)
			out.Reset()
			if err := NewDataAdapter(dst.imports, &out).Restore(ctx(), path); err != nil {
				t.Fatalf("Restore failed: %v", err)
			}
			assertContains(t, out.String(), "Restored 2 cycle(s)")

			cycles, err := dst.ledger.ListCycles(ctx())
			if err != nil {
				t.Fatalf("ListCycles failed: %v", err)
			}
			if len(cycles) != 2 || cycles[0].Length != 28 {
				t.Errorf("unexpected restored cycles: %+v", cycles)
			}
		})
	}
}

func TestDataAdapter_Import(t *testing.T) {
	svc := newServices(t)
	path := filepath.Join(t.TempDir(), "export.json")
	doc := `{"periods": [{"start": "2024-01-01", "end": "2024-01-05"}, {"start": "2024-02-01"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	var out bytes.Buffer
	if err := NewDataAdapter(svc.imports, &out).Import(ctx(), path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	assertContains(t, out.String(), "Imported 2 cycle(s)")

	if err := NewDataAdapter(svc.imports, &out).Import(ctx(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestActivityAdapter(t *testing.T) {
	svc := newServices(t)
	if _, err := svc.ledger.StartPeriod(ctx(), "2024-05-01"); err != nil {
		t.Fatalf("StartPeriod failed: %v", err)
	}
	if _, err := svc.ledger.CorrectStart(ctx(), "CYC-0001", "2024-05-02"); err != nil {
		t.Fatalf("CorrectStart failed: %v", err)
	}

	var out bytes.Buffer
	adapter := NewActivityAdapter(svc.activity, &out)

	if err := adapter.List(ctx(), primary.ActivityFilters{EntityType: models.EntityCycle}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	assertContains(t, out.String(), "startDate: 2024-05-01 -> 2024-05-02")
	assertContains(t, out.String(), "cli")

	out.Reset()
	if err := adapter.List(ctx(), primary.ActivityFilters{Actor: "nobody"}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	assertContains(t, out.String(), "No activity found")

	out.Reset()
	if err := adapter.Prune(ctx(), 30); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	assertContains(t, out.String(), "Pruned 0 activity entries")

	if err := adapter.Prune(ctx(), 0); !errors.Is(err, fault.ErrInvalidRange) {
		t.Errorf("expected invalid range for zero days, got %v", err)
	}
}
