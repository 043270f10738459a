// Package trend fits a least-squares line to a sales series and turns it into chart points.
package trend

import (
	"errors"
	"math"

	"ForecastAI/internal/domain/models"
)

// MinFitPoints is the shortest series a line can be fitted to.
const MinFitPoints = 2

// ErrTooFewPoints is returned by Fit for series shorter than MinFitPoints.
var ErrTooFewPoints = errors.New("trend: at least 2 points are required for a fit")

// ErrNotFinite is returned by Fit when the line cannot be represented in float64.
var ErrNotFinite = errors.New("trend: fit is not finite")

// Fit computes the ordinary least squares line through (i, values[i-1]) for i = 1..n:
//
//	slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX^2)
//	intercept = (sumY - slope*sumX) / n
//
// It is evaluated in centered form on values scaled by their largest magnitude,
// so the sums stay bounded for inputs near the float64 limit.
func Fit(values []float64) (models.FitParameters, error) {
	n := len(values)
	if n < MinFitPoints {
		return models.FitParameters{}, ErrTooFewPoints
	}

	var scale float64
	for _, y := range values {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return models.FitParameters{}, ErrNotFinite
		}
		scale = math.Max(scale, math.Abs(y))
	}
	if scale == 0 {
		return models.FitParameters{}, nil
	}

	fn := float64(n)
	meanX := (fn + 1) / 2
	var meanY float64
	for _, y := range values {
		meanY += y / scale
	}
	meanY /= fn

	var sxy, sxx float64
	for i, y := range values {
		dx := float64(i+1) - meanX
		sxy += dx * (y/scale - meanY)
		sxx += dx * dx
	}

	slope := sxy / sxx
	fit := models.FitParameters{
		Slope:     slope * scale,
		Intercept: (meanY - slope*meanX) * scale,
	}
	if !fit.Finite() {
		return models.FitParameters{}, ErrNotFinite
	}
	return fit, nil
}
