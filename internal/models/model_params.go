package models

// Model types produced by the external trainer.
const (
	ModelTypeWeightedAverage = "weighted_average"
	ModelTypeProphet         = "prophet"
)

// ModelParams is the externally trained statistical model. flux treats it as
// an opaque blob except for the embedded Prediction, which it keeps in sync
// with the latest cycle start.
type ModelParams struct {
	TrainedAt          string      `json:"trainedAt" validate:"required"`
	CyclesTrained      int         `json:"cyclesTrained" validate:"gte=0"`
	ModelType          string      `json:"modelType,omitempty" validate:"omitempty,oneof=weighted_average prophet"`
	AvgCycleLength     float64     `json:"avgCycleLength" validate:"gt=0"`
	StdCycleLength     float64     `json:"stdCycleLength" validate:"gte=0"`
	RecentCycleLengths []float64   `json:"recentCycleLengths,omitempty" validate:"dive,gt=0"`
	AvgPeriodLength    *float64    `json:"avgPeriodLength,omitempty" validate:"omitempty,gt=0"`
	Trend              *float64    `json:"trend,omitempty"`
	Seasonality        *float64    `json:"seasonality,omitempty"`
	Prediction         *Prediction `json:"prediction" validate:"required"`
}

// Prediction is the concrete next-period forecast derived from ModelParams.
type Prediction struct {
	NextPeriodDate      string   `json:"nextPeriodDate" validate:"required"`
	Confidence          float64  `json:"confidence" validate:"gte=0,lte=1"`
	ExpectedCycleLength float64  `json:"expectedCycleLength" validate:"gt=0"`
	FertileWindowStart  string   `json:"fertileWindowStart,omitempty"`
	FertileWindowEnd    string   `json:"fertileWindowEnd,omitempty"`
	PeriodLength        *float64 `json:"periodLength,omitempty"`
}

// Clone returns a deep copy of the parameters.
func (p *ModelParams) Clone() *ModelParams {
	if p == nil {
		return nil
	}
	cp := *p
	if p.RecentCycleLengths != nil {
		cp.RecentCycleLengths = append([]float64(nil), p.RecentCycleLengths...)
	}
	cp.AvgPeriodLength = cloneFloat(p.AvgPeriodLength)
	cp.Trend = cloneFloat(p.Trend)
	cp.Seasonality = cloneFloat(p.Seasonality)
	if p.Prediction != nil {
		pred := *p.Prediction
		pred.PeriodLength = cloneFloat(p.Prediction.PeriodLength)
		cp.Prediction = &pred
	}
	return &cp
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
