package models

// Cycle phases reported by the status read model.
const (
	PhaseMenstrual  = "menstrual"
	PhaseFollicular = "follicular"
	PhaseFertile    = "fertile"
	PhaseLuteal     = "luteal"
	PhaseOverdue    = "overdue"
	PhaseUnknown    = "unknown"
)

// CycleStatus answers "where am I in my cycle" for a given day.
type CycleStatus struct {
	Today               string      `json:"today"`
	CycleDay            *int        `json:"cycleDay,omitempty"`
	DaysUntilNextPeriod *int        `json:"daysUntilNextPeriod,omitempty"`
	Overdue             bool        `json:"overdue"`
	DaysOverdue         int         `json:"daysOverdue,omitempty"`
	Phase               string      `json:"phase"`
	Latest              *Cycle      `json:"latest,omitempty"`
	Prediction          *Prediction `json:"prediction,omitempty"`
}
