package models

import "math"

// SeriesPoint is one user-entered period. Zero is the "not yet entered" value.
type SeriesPoint struct {
	Label string  `json:"label" validate:"max=64"`
	Value float64 `json:"value"`
}

// Series is an ordered list of periods. The position of a point (1-indexed) is the
// regression x; labels are free text and are never parsed as dates.
type Series []SeriesPoint

// Values returns the y values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Clone returns a copy that shares nothing with s.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// DefaultSeries is the sample half-year every new session starts with.
func DefaultSeries() Series {
	return Series{
		{Label: "Jan", Value: 1200000},
		{Label: "Feb", Value: 1500000},
		{Label: "Mar", Value: 1800000},
		{Label: "Apr", Value: 1600000},
		{Label: "May", Value: 2100000},
		{Label: "Jun", Value: 2400000},
	}
}

// FitParameters describes the least-squares line y = Slope*x + Intercept.
type FitParameters struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at position x.
func (p FitParameters) At(x float64) float64 {
	return p.Slope*x + p.Intercept
}

// Finite reports whether both coefficients are finite numbers.
func (p FitParameters) Finite() bool {
	return isFinite(p.Slope) && isFinite(p.Intercept)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ForecastPoint is one chart row. Historical rows carry Actual and Predicted,
// projected rows carry only Predicted. Rows of a series too short to fit carry only Actual.
type ForecastPoint struct {
	Label     string   `json:"label"`
	Actual    *float64 `json:"actual,omitempty"`
	Predicted *float64 `json:"predicted,omitempty"`
}

// Projection is the chart payload: points plus the fit they came from, if any.
type Projection struct {
	Points []ForecastPoint `json:"points"`
	Fit    *FitParameters  `json:"fit,omitempty"`
}
