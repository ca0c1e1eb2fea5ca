package cycle

import (
	"errors"
	"testing"

	"github.com/example/flux/internal/core/fault"
)

func TestCanStartPeriod(t *testing.T) {
	closed := &Snapshot{ID: "CYC-0001", StartDate: "2024-01-01", EndDate: "2024-01-05"}
	open := &Snapshot{ID: "CYC-0001", StartDate: "2024-01-01"}

	tests := []struct {
		name        string
		ctx         StartContext
		wantAllowed bool
		wantKind    fault.Kind
		wantReason  string
	}{
		{
			name:        "can start on empty ledger",
			ctx:         StartContext{Date: "2024-01-01"},
			wantAllowed: true,
		},
		{
			name:        "can start after closed latest",
			ctx:         StartContext{Date: "2024-01-29", Latest: closed},
			wantAllowed: true,
		},
		{
			name:        "cannot start while latest is open",
			ctx:         StartContext{Date: "2024-01-29", Latest: open},
			wantAllowed: false,
			wantKind:    fault.KindInvalidTransition,
			wantReason:  "cycle CYC-0001 (started 2024-01-01) is still open. End it first with: flux period end --cycle CYC-0001",
		},
		{
			name:        "cannot start on the latest start date",
			ctx:         StartContext{Date: "2024-01-01", Latest: closed},
			wantAllowed: false,
			wantKind:    fault.KindInvalidTransition,
			wantReason:  "new period 2024-01-01 must start after the latest cycle start 2024-01-01",
		},
		{
			name:        "cannot start before the latest start",
			ctx:         StartContext{Date: "2023-12-20", Latest: closed},
			wantAllowed: false,
			wantKind:    fault.KindInvalidTransition,
			wantReason:  "new period 2023-12-20 must start after the latest cycle start 2024-01-01",
		},
		{
			name:        "cannot start on a taken date",
			ctx:         StartContext{Date: "2024-01-01", StartTaken: true},
			wantAllowed: false,
			wantKind:    fault.KindInvalidTransition,
			wantReason:  "a cycle already starts on 2024-01-01",
		},
		{
			name:        "cannot start on malformed date",
			ctx:         StartContext{Date: "2024-02-30"},
			wantAllowed: false,
			wantKind:    fault.KindInvalidRange,
			wantReason:  `invalid date "2024-02-30"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGuard(t, CanStartPeriod(tt.ctx), tt.wantAllowed, tt.wantKind, tt.wantReason)
		})
	}
}

func TestCanEndPeriod(t *testing.T) {
	tests := []struct {
		name        string
		ctx         EndContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can end on start date",
			ctx:         EndContext{CycleID: "CYC-0001", StartDate: "2024-01-01", Date: "2024-01-01"},
			wantAllowed: true,
		},
		{
			name:        "can end after start",
			ctx:         EndContext{CycleID: "CYC-0001", StartDate: "2024-01-01", Date: "2024-01-05"},
			wantAllowed: true,
		},
		{
			name:        "cannot end before start",
			ctx:         EndContext{CycleID: "CYC-0001", StartDate: "2024-01-10", Date: "2024-01-05"},
			wantAllowed: false,
			wantReason:  "end 2024-01-05 is before start 2024-01-10 of cycle CYC-0001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGuard(t, CanEndPeriod(tt.ctx), tt.wantAllowed, fault.KindInvalidRange, tt.wantReason)
		})
	}
}

func TestCanCorrectStart(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CorrectStartContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can move start of sole open cycle anywhere",
			ctx:         CorrectStartContext{CycleID: "CYC-0001", NewDate: "2023-06-01"},
			wantAllowed: true,
		},
		{
			name:        "can move start between neighbours",
			ctx:         CorrectStartContext{CycleID: "CYC-0002", NewDate: "2024-01-30", PreviousStart: "2024-01-01", NextStart: "2024-02-26"},
			wantAllowed: true,
		},
		{
			name:        "can move start onto own end date",
			ctx:         CorrectStartContext{CycleID: "CYC-0001", NewDate: "2024-01-05", EndDate: "2024-01-05"},
			wantAllowed: true,
		},
		{
			name:        "cannot move start onto previous start",
			ctx:         CorrectStartContext{CycleID: "CYC-0002", NewDate: "2024-01-01", PreviousStart: "2024-01-01"},
			wantAllowed: false,
			wantReason:  "start 2024-01-01 must be after the previous cycle start 2024-01-01",
		},
		{
			name:        "cannot move start past next start",
			ctx:         CorrectStartContext{CycleID: "CYC-0001", NewDate: "2024-02-26", NextStart: "2024-02-26"},
			wantAllowed: false,
			wantReason:  "start 2024-02-26 must be before the next cycle start 2024-02-26",
		},
		{
			name:        "cannot move start after end",
			ctx:         CorrectStartContext{CycleID: "CYC-0001", NewDate: "2024-01-06", EndDate: "2024-01-05"},
			wantAllowed: false,
			wantReason:  "start 2024-01-06 is after end 2024-01-05 of cycle CYC-0001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGuard(t, CanCorrectStart(tt.ctx), tt.wantAllowed, fault.KindInvalidRange, tt.wantReason)
		})
	}
}

func TestCanCorrectEnd(t *testing.T) {
	ok := CanCorrectEnd(CorrectEndContext{CycleID: "CYC-0001", StartDate: "2024-01-01", NewDate: "2024-01-03"})
	checkGuard(t, ok, true, "", "")

	bad := CanCorrectEnd(CorrectEndContext{CycleID: "CYC-0001", StartDate: "2024-01-01", NewDate: "2023-12-31"})
	checkGuard(t, bad, false, fault.KindInvalidRange, "end 2023-12-31 is before start 2024-01-01 of cycle CYC-0001")
}

func TestCanUndoEnd(t *testing.T) {
	checkGuard(t, CanUndoEnd(UndoEndContext{CycleID: "CYC-0002"}), true, "", "")
	checkGuard(t, CanUndoEnd(UndoEndContext{CycleID: "CYC-0001", HasLater: true}), false,
		fault.KindInvalidTransition, "cycle CYC-0001 is not the latest cycle; only the latest period can be reopened")
}

func TestCanUndoStart(t *testing.T) {
	checkGuard(t, CanUndoStart(UndoStartContext{CycleID: "CYC-0001"}), true, "", "")
	checkGuard(t, CanUndoStart(UndoStartContext{CycleID: "CYC-0001", EndDate: "2024-01-05"}), false,
		fault.KindInvalidTransition, "cycle CYC-0001 already ended on 2024-01-05. Undo the end first with: flux period undo-end --cycle CYC-0001")
	checkGuard(t, CanUndoStart(UndoStartContext{CycleID: "CYC-0002", HasLater: true}), false,
		fault.KindInvalidTransition, "cycle CYC-0002 is not the latest cycle; only the latest start can be undone")
}

func TestShouldStartFromFlowLog(t *testing.T) {
	closed := &Snapshot{ID: "CYC-0001", StartDate: "2024-01-01", EndDate: "2024-01-05"}

	tests := []struct {
		name string
		ctx  FlowLogContext
		want bool
	}{
		{"no flow never starts", FlowLogContext{Date: "2024-02-01"}, false},
		{"empty ledger starts", FlowLogContext{Date: "2024-02-01", HasFlow: true}, true},
		{"taken date does not start", FlowLogContext{Date: "2024-01-01", HasFlow: true, StartTaken: true, Latest: closed}, false},
		{"open latest does not start", FlowLogContext{Date: "2024-01-03", HasFlow: true, Latest: &Snapshot{ID: "CYC-0001", StartDate: "2024-01-01"}}, false},
		{"inside closed period does not start", FlowLogContext{Date: "2024-01-04", HasFlow: true, Latest: closed}, false},
		{"before latest start does not start", FlowLogContext{Date: "2023-12-20", HasFlow: true, Latest: closed}, false},
		{"after closed latest starts", FlowLogContext{Date: "2024-01-29", HasFlow: true, Latest: closed}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldStartFromFlowLog(tt.ctx); got != tt.want {
				t.Errorf("ShouldStartFromFlowLog() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuardResultError(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	err := CanUndoStart(UndoStartContext{CycleID: "CYC-0001", EndDate: "2024-01-05"}).Error()
	if !errors.Is(err, fault.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestLengths(t *testing.T) {
	pl, err := PeriodLength("2024-01-01", "2024-01-05")
	if err != nil || pl != 5 {
		t.Errorf("PeriodLength = %d, %v; want 5", pl, err)
	}
	cl, err := Length("2024-01-01", "2024-01-29")
	if err != nil || cl != 28 {
		t.Errorf("Length = %d, %v; want 28", cl, err)
	}
}

func checkGuard(t *testing.T, got GuardResult, wantAllowed bool, wantKind fault.Kind, wantReason string) {
	t.Helper()
	if got.Allowed != wantAllowed {
		t.Fatalf("Allowed = %v, want %v (reason %q)", got.Allowed, wantAllowed, got.Reason)
	}
	if wantAllowed {
		return
	}
	if got.Kind != wantKind {
		t.Errorf("Kind = %q, want %q", got.Kind, wantKind)
	}
	if got.Reason != wantReason {
		t.Errorf("Reason = %q, want %q", got.Reason, wantReason)
	}
}
