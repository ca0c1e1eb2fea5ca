package models

// Flow intensity values.
const (
	FlowSpotting = "spotting"
	FlowLight    = "light"
	FlowMedium   = "medium"
	FlowHeavy    = "heavy"
)

// ValidFlows lists the accepted flow intensities in ascending order.
var ValidFlows = []string{FlowSpotting, FlowLight, FlowMedium, FlowHeavy}

// IsValidFlow reports whether f is empty or a known flow intensity.
func IsValidFlow(f string) bool {
	if f == "" {
		return true
	}
	for _, v := range ValidFlows {
		if v == f {
			return true
		}
	}
	return false
}

// DailyLog is the per-day observation record. At most one log exists per date.
type DailyLog struct {
	ID          string   `json:"id,omitempty"`
	Date        string   `json:"date"`
	Flow        string   `json:"flow,omitempty"`
	Symptoms    []string `json:"symptoms,omitempty"`
	Mood        string   `json:"mood,omitempty"`
	Fluid       string   `json:"fluid,omitempty"`
	SexDrive    string   `json:"sexDrive,omitempty"`
	Disturbers  []string `json:"disturbers,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	IsPeriod    bool     `json:"isPeriod,omitempty"`
}

// HasFlow reports whether the log records any bleeding.
func (l *DailyLog) HasFlow() bool {
	return l.Flow != ""
}
