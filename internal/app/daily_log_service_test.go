package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
)

func TestSaveLog_FlowStartsCycleOnEmptyLedger(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.logs.SaveLog(cliContext(), &models.DailyLog{Date: "2024-03-01", Flow: models.FlowLight})
	if err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}
	if resp.StartedCycle == nil {
		t.Fatal("expected a cycle to be started")
	}
	if resp.StartedCycle.StartDate != "2024-03-01" {
		t.Errorf("expected start 2024-03-01, got %s", resp.StartedCycle.StartDate)
	}
	if !resp.Log.IsPeriod {
		t.Error("expected log with flow to be marked as period")
	}
}

func TestSaveLog_FlowTriggers(t *testing.T) {
	env := newTestEnv(t)
	id := env.start(t, "2024-03-01")

	tests := []struct {
		name      string
		setup     func(t *testing.T)
		log       *models.DailyLog
		wantStart bool
	}{
		{
			name:      "inside open period",
			log:       &models.DailyLog{Date: "2024-03-02", Flow: models.FlowMedium},
			wantStart: false,
		},
		{
			name:      "inside recorded period",
			setup:     func(t *testing.T) { env.end(t, id, "2024-03-05") },
			log:       &models.DailyLog{Date: "2024-03-04", Flow: models.FlowHeavy},
			wantStart: false,
		},
		{
			name:      "no flow",
			log:       &models.DailyLog{Date: "2024-03-20", Mood: "calm"},
			wantStart: false,
		},
		{
			name:      "after closed period",
			log:       &models.DailyLog{Date: "2024-03-29", Flow: models.FlowSpotting},
			wantStart: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}
			resp, err := env.logs.SaveLog(cliContext(), tt.log)
			if err != nil {
				t.Fatalf("SaveLog failed: %v", err)
			}
			if got := resp.StartedCycle != nil; got != tt.wantStart {
				t.Errorf("expected started=%v, got %v", tt.wantStart, got)
			}
		})
	}
}

func TestSaveLog_UpsertKeepsID(t *testing.T) {
	env := newTestEnv(t)
	ctx := cliContext()

	first, err := env.logs.SaveLog(ctx, &models.DailyLog{Date: "2024-03-10", Mood: "tired"})
	if err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}
	second, err := env.logs.SaveLog(ctx, &models.DailyLog{Date: "2024-03-10", Mood: "happy", Symptoms: []string{"Headache"}})
	if err != nil {
		t.Fatalf("SaveLog failed: %v", err)
	}
	if first.Log.ID != second.Log.ID {
		t.Errorf("expected ID %s to be kept, got %s", first.Log.ID, second.Log.ID)
	}

	got, err := env.logs.GetLog(ctx, "2024-03-10")
	if err != nil {
		t.Fatalf("GetLog failed: %v", err)
	}
	if got.Mood != "happy" || len(got.Symptoms) != 1 {
		t.Errorf("expected updated log, got %+v", got)
	}
}

func TestSaveLog_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		log  *models.DailyLog
	}{
		{name: "bad date", log: &models.DailyLog{Date: "10/03/2024"}},
		{name: "unknown flow", log: &models.DailyLog{Date: "2024-03-10", Flow: "torrential"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.logs.SaveLog(cliContext(), tt.log)
			if !errors.Is(err, fault.ErrInvalidRange) {
				t.Errorf("expected InvalidRange, got %v", err)
			}
		})
	}
}

func TestListAndDeleteLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := cliContext()
	for _, date := range []string{"2024-03-03", "2024-03-01", "2024-03-02"} {
		if _, err := env.logs.SaveLog(ctx, &models.DailyLog{Date: date, Notes: "n"}); err != nil {
			t.Fatalf("SaveLog failed: %v", err)
		}
	}

	logs, err := env.logs.ListLogs(ctx, "2024-03-02", "")
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 2 || logs[0].Date != "2024-03-02" {
		t.Errorf("expected logs from 2024-03-02 in order, got %d", len(logs))
	}

	if err := env.logs.DeleteLog(ctx, "2024-03-02"); err != nil {
		t.Fatalf("DeleteLog failed: %v", err)
	}
	if _, err := env.logs.GetLog(context.Background(), "2024-03-02"); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
	if err := env.logs.DeleteLog(ctx, "2024-03-02"); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
}
