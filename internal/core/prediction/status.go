package prediction

import (
	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/models"
)

// DefaultPeriodLength is assumed for an open period when neither the model
// nor the prediction carries an average period length.
const DefaultPeriodLength = 5

// CurrentCycleDay returns the 1-based day of the current cycle on today.
//
// With a latest cycle it counts from that cycle's start. Without one it
// falls back to the prediction: expectedCycleLength minus the days left
// until the predicted period, never below 1. Without either it returns nil.
func CurrentCycleDay(latest *models.Cycle, params *models.ModelParams, today string) (*int, error) {
	if latest != nil {
		d, err := caldate.DaysBetween(latest.StartDate, today)
		if err != nil {
			return nil, err
		}
		return intPtr(max(1, d+1)), nil
	}

	if params != nil && params.Prediction != nil {
		until, err := caldate.DaysBetween(today, params.Prediction.NextPeriodDate)
		if err != nil {
			return nil, err
		}
		expected := caldate.Round(params.Prediction.ExpectedCycleLength)
		return intPtr(max(1, expected-until)), nil
	}

	return nil, nil
}

// Status builds the cycle status read model for today.
func Status(latest *models.Cycle, params *models.ModelParams, today string) (*models.CycleStatus, error) {
	day, err := CurrentCycleDay(latest, params, today)
	if err != nil {
		return nil, err
	}

	status := &models.CycleStatus{
		Today:    today,
		CycleDay: day,
		Phase:    models.PhaseUnknown,
	}
	if latest != nil {
		status.Latest = latest.Clone()
	}

	var pred *models.Prediction
	if params != nil && params.Prediction != nil {
		pred = params.Clone().Prediction
		status.Prediction = pred

		until, err := caldate.DaysBetween(today, pred.NextPeriodDate)
		if err != nil {
			return nil, err
		}
		if until < 0 {
			status.Overdue = true
			status.DaysOverdue = -until
		} else {
			status.DaysUntilNextPeriod = intPtr(until)
		}
	}

	status.Phase = phase(latest, params, pred, today, day, status.Overdue)
	return status, nil
}

func phase(latest *models.Cycle, params *models.ModelParams, pred *models.Prediction, today string, day *int, overdue bool) string {
	if latest != nil && inPeriod(latest, params, today, day) {
		return models.PhaseMenstrual
	}
	if overdue {
		return models.PhaseOverdue
	}
	if pred == nil || pred.FertileWindowStart == "" || pred.FertileWindowEnd == "" {
		return models.PhaseUnknown
	}

	switch {
	case today < pred.FertileWindowStart:
		return models.PhaseFollicular
	case today <= pred.FertileWindowEnd:
		return models.PhaseFertile
	default:
		return models.PhaseLuteal
	}
}

func inPeriod(latest *models.Cycle, params *models.ModelParams, today string, day *int) bool {
	if today < latest.StartDate {
		return false
	}
	if !latest.IsOpen() {
		return today <= latest.EndDate
	}
	return day != nil && *day <= expectedPeriodLength(params)
}

func expectedPeriodLength(params *models.ModelParams) int {
	if params != nil {
		if params.Prediction != nil && params.Prediction.PeriodLength != nil && *params.Prediction.PeriodLength > 0 {
			return caldate.Round(*params.Prediction.PeriodLength)
		}
		if params.AvgPeriodLength != nil && *params.AvgPeriodLength > 0 {
			return caldate.Round(*params.AvgPeriodLength)
		}
	}
	return DefaultPeriodLength
}

func intPtr(v int) *int {
	return &v
}
