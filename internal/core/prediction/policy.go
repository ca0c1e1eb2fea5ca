// Package prediction keeps the next-period forecast embedded in the imported
// model parameters in sync with the latest cycle start, and derives the
// "where am I" read model from it. Everything here is pure.
package prediction

import "fmt"

// FertileWindowPolicy selects how the fertile window is placed relative to
// the seed date.
type FertileWindowPolicy string

const (
	// PolicyFixed places the window at seed+10 .. seed+16 regardless of the
	// expected cycle length.
	PolicyFixed FertileWindowPolicy = "fixed"

	// PolicyScaled anchors ovulation 14 days before the predicted next
	// period and opens the window five days earlier.
	PolicyScaled FertileWindowPolicy = "scaled"
)

const (
	fixedWindowStart = 10
	fixedWindowEnd   = 16

	lutealDays      = 14
	daysBeforeOvul  = 5
	daysAfterOvul   = 1
	minWindowOffset = 1
)

// ParsePolicy converts a configuration value into a policy. Empty means fixed.
func ParsePolicy(s string) (FertileWindowPolicy, error) {
	switch FertileWindowPolicy(s) {
	case "", PolicyFixed:
		return PolicyFixed, nil
	case PolicyScaled:
		return PolicyScaled, nil
	}
	return "", fmt.Errorf("unknown fertile window policy %q (want fixed or scaled)", s)
}

// windowOffsets returns the fertile window as day offsets from the seed.
func (p FertileWindowPolicy) windowOffsets(cycleLength int) (int, int) {
	if p != PolicyScaled {
		return fixedWindowStart, fixedWindowEnd
	}
	ovulation := cycleLength - lutealDays
	start := ovulation - daysBeforeOvul
	end := ovulation + daysAfterOvul
	if start < minWindowOffset {
		start = minWindowOffset
	}
	if end < start {
		end = start
	}
	return start, end
}
