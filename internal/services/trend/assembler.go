package trend

import (
	"fmt"
	"math"

	"ForecastAI/internal/domain/models"
)

// HorizonPeriods is the number of projected periods appended after the history.
const HorizonPeriods = 4

// FutureLabel names the k-th projected period (1-based).
func FutureLabel(k int) string {
	return fmt.Sprintf("Future %d", k)
}

// Assemble builds chart points for series. fit must be non-nil when len(series) >= 2;
// for shorter series it is ignored and only actual values are emitted.
func Assemble(series models.Series, fit *models.FitParameters) []models.ForecastPoint {
	n := len(series)
	if n < MinFitPoints || fit == nil {
		out := make([]models.ForecastPoint, n)
		for i, p := range series {
			out[i] = models.ForecastPoint{Label: p.Label, Actual: float64Ptr(p.Value)}
		}
		return out
	}

	out := make([]models.ForecastPoint, 0, n+HorizonPeriods)
	for i, p := range series {
		out = append(out, models.ForecastPoint{
			Label:     p.Label,
			Actual:    float64Ptr(p.Value),
			Predicted: float64Ptr(RoundHalfUp(fit.At(float64(i + 1)))),
		})
	}
	for k := 0; k < HorizonPeriods; k++ {
		x := float64(n + 1 + k)
		out = append(out, models.ForecastPoint{
			Label:     FutureLabel(k + 1),
			Predicted: float64Ptr(RoundHalfUp(fit.At(x))),
		})
	}
	return out
}

// Project fits series when it is long enough and assembles the chart points.
// A line that cannot be fitted, or whose predictions overflow float64, yields the
// actual-only points of a short series.
func Project(series models.Series) models.Projection {
	if len(series) < MinFitPoints {
		return models.Projection{Points: Assemble(series, nil)}
	}
	fit, err := Fit(series.Values())
	if err != nil {
		return models.Projection{Points: Assemble(series, nil)}
	}
	points := Assemble(series, &fit)
	for _, p := range points {
		if p.Predicted != nil && (math.IsInf(*p.Predicted, 0) || math.IsNaN(*p.Predicted)) {
			return models.Projection{Points: Assemble(series, nil)}
		}
	}
	return models.Projection{Points: points, Fit: &fit}
}

// RoundHalfUp rounds to the nearest integer with ties going toward +Inf (2.5 -> 3, -2.5 -> -2).
// The fraction is compared directly so values just below .5 are not pushed up by v+0.5.
func RoundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

func float64Ptr(v float64) *float64 {
	return &v
}
