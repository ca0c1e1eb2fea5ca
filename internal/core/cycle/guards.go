// Package cycle contains the pure business logic for the cycle ledger.
// Guards are pure functions that evaluate preconditions without side effects;
// the derivation helpers compute the lengths the ledger stores.
package cycle

import (
	"fmt"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/fault"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    fault.Kind
	Op      string
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fault.New(r.Kind, r.Op, r.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(kind fault.Kind, op, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Snapshot is the slice of a cycle record the guards need.
type Snapshot struct {
	ID        string
	StartDate string
	EndDate   string
}

// StartContext provides context for starting a new period.
type StartContext struct {
	Date       string
	Latest     *Snapshot // nil when the ledger is empty
	StartTaken bool      // a cycle already starts on Date
}

// EndContext provides context for ending (closing) a period.
type EndContext struct {
	CycleID   string
	StartDate string
	Date      string
}

// CorrectStartContext provides context for moving a cycle's start date.
type CorrectStartContext struct {
	CycleID       string
	EndDate       string // empty while open
	NewDate       string
	PreviousStart string // empty when no earlier cycle exists
	NextStart     string // empty when this is the latest cycle
}

// CorrectEndContext provides context for moving a cycle's end date.
type CorrectEndContext struct {
	CycleID   string
	StartDate string
	NewDate   string
}

// UndoEndContext provides context for reopening a closed period.
type UndoEndContext struct {
	CycleID  string
	HasLater bool
}

// UndoStartContext provides context for deleting a freshly started cycle.
type UndoStartContext struct {
	CycleID  string
	EndDate  string
	HasLater bool
}

// FlowLogContext provides context for deciding whether a daily log with
// bleeding should open a new cycle.
type FlowLogContext struct {
	Date       string
	HasFlow    bool
	StartTaken bool
	Latest     *Snapshot
}

// CanStartPeriod evaluates whether a new cycle can start on ctx.Date.
// Rules:
// - Date must be a valid calendar date
// - No cycle may already start on Date
// - The latest cycle, if any, must be closed
// - Date must be strictly after the latest cycle's start
func CanStartPeriod(ctx StartContext) GuardResult {
	const op = "start_period"

	if !caldate.Valid(ctx.Date) {
		return deny(fault.KindInvalidRange, op, "invalid date %q", ctx.Date)
	}

	if ctx.StartTaken {
		return deny(fault.KindInvalidTransition, op, "a cycle already starts on %s", ctx.Date)
	}

	if ctx.Latest == nil {
		return allow()
	}

	if ctx.Latest.EndDate == "" {
		return deny(fault.KindInvalidTransition, op,
			"cycle %s (started %s) is still open. End it first with: flux period end --cycle %s",
			ctx.Latest.ID, ctx.Latest.StartDate, ctx.Latest.ID)
	}

	if ctx.Date <= ctx.Latest.StartDate {
		return deny(fault.KindInvalidTransition, op,
			"new period %s must start after the latest cycle start %s", ctx.Date, ctx.Latest.StartDate)
	}

	return allow()
}

// CanEndPeriod evaluates whether a cycle's period can end on ctx.Date.
// Rules:
// - Date must be a valid calendar date
// - Date must not be before the cycle start
func CanEndPeriod(ctx EndContext) GuardResult {
	const op = "end_period"

	if !caldate.Valid(ctx.Date) {
		return deny(fault.KindInvalidRange, op, "invalid date %q", ctx.Date)
	}
	if ctx.Date < ctx.StartDate {
		return deny(fault.KindInvalidRange, op,
			"end %s is before start %s of cycle %s", ctx.Date, ctx.StartDate, ctx.CycleID)
	}
	return allow()
}

// CanCorrectStart evaluates whether a cycle's start can move to ctx.NewDate.
// Rules:
// - NewDate must be a valid calendar date
// - NewDate must be after the previous cycle's start
// - NewDate must be before the next cycle's start
// - NewDate must not be after the cycle's end, when closed
func CanCorrectStart(ctx CorrectStartContext) GuardResult {
	const op = "correct_start"

	if !caldate.Valid(ctx.NewDate) {
		return deny(fault.KindInvalidRange, op, "invalid date %q", ctx.NewDate)
	}
	if ctx.PreviousStart != "" && ctx.NewDate <= ctx.PreviousStart {
		return deny(fault.KindInvalidRange, op,
			"start %s must be after the previous cycle start %s", ctx.NewDate, ctx.PreviousStart)
	}
	if ctx.NextStart != "" && ctx.NewDate >= ctx.NextStart {
		return deny(fault.KindInvalidRange, op,
			"start %s must be before the next cycle start %s", ctx.NewDate, ctx.NextStart)
	}
	if ctx.EndDate != "" && ctx.EndDate < ctx.NewDate {
		return deny(fault.KindInvalidRange, op,
			"start %s is after end %s of cycle %s", ctx.NewDate, ctx.EndDate, ctx.CycleID)
	}
	return allow()
}

// CanCorrectEnd evaluates whether a cycle's end can move to ctx.NewDate.
// Rules:
// - NewDate must be a valid calendar date
// - NewDate must not be before the cycle start
func CanCorrectEnd(ctx CorrectEndContext) GuardResult {
	const op = "correct_end"

	if !caldate.Valid(ctx.NewDate) {
		return deny(fault.KindInvalidRange, op, "invalid date %q", ctx.NewDate)
	}
	if ctx.NewDate < ctx.StartDate {
		return deny(fault.KindInvalidRange, op,
			"end %s is before start %s of cycle %s", ctx.NewDate, ctx.StartDate, ctx.CycleID)
	}
	return allow()
}

// CanUndoEnd evaluates whether a closed period can be reopened.
// Rules:
// - Only the latest cycle can be reopened
func CanUndoEnd(ctx UndoEndContext) GuardResult {
	if ctx.HasLater {
		return deny(fault.KindInvalidTransition, "undo_end",
			"cycle %s is not the latest cycle; only the latest period can be reopened", ctx.CycleID)
	}
	return allow()
}

// CanUndoStart evaluates whether a cycle can be deleted as a mistaken start.
// Rules:
// - The cycle must still be open
// - Only the latest cycle can be deleted
func CanUndoStart(ctx UndoStartContext) GuardResult {
	if ctx.HasLater {
		return deny(fault.KindInvalidTransition, "undo_start",
			"cycle %s is not the latest cycle; only the latest start can be undone", ctx.CycleID)
	}
	if ctx.EndDate != "" {
		return deny(fault.KindInvalidTransition, "undo_start",
			"cycle %s already ended on %s. Undo the end first with: flux period undo-end --cycle %s",
			ctx.CycleID, ctx.EndDate, ctx.CycleID)
	}
	return allow()
}

// ShouldStartFromFlowLog reports whether saving a bleeding log on ctx.Date
// opens a new cycle.
// Rules:
// - The log must record flow
// - No cycle may already start on Date
// - Either the ledger is empty, or the latest cycle is closed and Date is
//   after both its start and its end
func ShouldStartFromFlowLog(ctx FlowLogContext) bool {
	if !ctx.HasFlow || ctx.StartTaken {
		return false
	}
	if ctx.Latest == nil {
		return true
	}
	if ctx.Latest.EndDate == "" {
		return false
	}
	return ctx.Date > ctx.Latest.StartDate && ctx.Date > ctx.Latest.EndDate
}
