package models

// Export is the backup document written by `flux backup export` and read
// back by `flux backup restore`.
type Export struct {
	ExportedAt  string       `json:"exportedAt"`
	Cycles      []*Cycle     `json:"cycles"`
	Logs        []*DailyLog  `json:"logs"`
	ModelParams *ModelParams `json:"modelParams,omitempty"`
}
