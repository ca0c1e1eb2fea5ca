// Package models contains the flux domain types shared by the core, the
// services and the adapters. Persistence lives in internal/adapters.
package models

// Cycle is one menstrual cycle, from the first day of bleeding up to the
// day before the next cycle starts.
type Cycle struct {
	ID           string `json:"id"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	PeriodLength int    `json:"periodLength,omitempty"`
	Length       int    `json:"length,omitempty"`
}

// IsOpen reports whether the period of this cycle has not been ended yet.
func (c *Cycle) IsOpen() bool {
	return c.EndDate == ""
}

// Clone returns a copy of the cycle.
func (c *Cycle) Clone() *Cycle {
	cp := *c
	return &cp
}
