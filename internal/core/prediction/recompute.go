package prediction

import (
	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
)

// Recompute re-seeds the embedded prediction from seed, the start date of
// the newest cycle. It never mutates params; the returned copy carries
// nextPeriodDate = seed + round(avgCycleLength) and a fertile window placed
// by policy. All other fields are carried over unchanged.
//
// When params or its prediction is nil there is nothing to maintain and
// Recompute returns (params, false, nil).
func Recompute(seed string, params *models.ModelParams, policy FertileWindowPolicy) (*models.ModelParams, bool, error) {
	if params == nil || params.Prediction == nil {
		return params, false, nil
	}
	if !caldate.Valid(seed) {
		return nil, false, fault.Newf(fault.KindInvalidRange, "recompute_prediction", "invalid seed date %q", seed)
	}

	length := caldate.Round(params.AvgCycleLength)
	startOffset, endOffset := policy.windowOffsets(length)

	next, _ := caldate.AddDays(seed, length)
	windowStart, _ := caldate.AddDays(seed, startOffset)
	windowEnd, _ := caldate.AddDays(seed, endOffset)

	out := params.Clone()
	out.Prediction.NextPeriodDate = next
	out.Prediction.FertileWindowStart = windowStart
	out.Prediction.FertileWindowEnd = windowEnd
	return out, true, nil
}
