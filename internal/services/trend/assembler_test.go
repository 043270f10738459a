package trend

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForecastAI/internal/domain/models"
)

func predicted(t *testing.T, pts []models.ForecastPoint) []float64 {
	t.Helper()
	out := make([]float64, len(pts))
	for i, p := range pts {
		require.NotNil(t, p.Predicted, "point %d (%s) has no prediction", i, p.Label)
		out[i] = *p.Predicted
	}
	return out
}

func TestProject_DefaultSeries(t *testing.T) {
	series := models.DefaultSeries()
	proj := Project(series)

	require.Len(t, proj.Points, len(series)+HorizonPeriods)
	require.NotNil(t, proj.Fit)

	historical := map[string]bool{}
	for i, p := range proj.Points[:len(series)] {
		assert.Equal(t, series[i].Label, p.Label)
		require.NotNil(t, p.Actual)
		assert.Equal(t, series[i].Value, *p.Actual)
		historical[p.Label] = true
	}
	for k, p := range proj.Points[len(series):] {
		assert.Equal(t, FutureLabel(k+1), p.Label)
		assert.False(t, historical[p.Label], "future label %q collides with history", p.Label)
		assert.Nil(t, p.Actual)
	}

	assert.Equal(t, []float64{
		1223810, 1440952, 1658095, 1875238, 2092381, 2309524,
		2526667, 2743810, 2960952, 3178095,
	}, predicted(t, proj.Points))
}

func TestProject_ShortSeries(t *testing.T) {
	for _, series := range []models.Series{nil, {}, {{Label: "Jan", Value: 500}}} {
		proj := Project(series)

		assert.NotNil(t, proj.Points)
		assert.Len(t, proj.Points, len(series))
		assert.Nil(t, proj.Fit)
		for i, p := range proj.Points {
			assert.Equal(t, series[i].Label, p.Label)
			require.NotNil(t, p.Actual)
			assert.Equal(t, series[i].Value, *p.Actual)
			assert.Nil(t, p.Predicted)
		}
	}
}

func TestAssemble_WithoutFitFallsBackToActuals(t *testing.T) {
	pts := Assemble(models.DefaultSeries(), nil)

	assert.Len(t, pts, 6)
	for _, p := range pts {
		assert.NotNil(t, p.Actual)
		assert.Nil(t, p.Predicted)
	}
}

func TestProject_Idempotent(t *testing.T) {
	series := models.Series{{Label: "a", Value: 3}, {Label: "b", Value: 11}, {Label: "c", Value: 4}, {Label: "d", Value: 9}}

	first := Project(series)
	second := Project(series)

	assert.Equal(t, first, second)
	assert.Equal(t, models.Series{{Label: "a", Value: 3}, {Label: "b", Value: 11}, {Label: "c", Value: 4}, {Label: "d", Value: 9}}, series)
}

func TestProject_IncreasingSeries(t *testing.T) {
	series := models.Series{{Label: "Q1", Value: 10}, {Label: "Q2", Value: 20}, {Label: "Q3", Value: 30}, {Label: "Q4", Value: 40}}
	proj := Project(series)

	require.NotNil(t, proj.Fit)
	assert.Greater(t, proj.Fit.Slope, 0.0)

	preds := predicted(t, proj.Points)
	lastHistorical := preds[len(series)-1]
	for _, p := range preds[len(series):] {
		assert.Greater(t, p, lastHistorical)
	}
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60, 70, 80}, preds)
}

func TestProject_ConstantSeries(t *testing.T) {
	series := models.Series{{Label: "a", Value: 250}, {Label: "b", Value: 250}, {Label: "c", Value: 250}, {Label: "d", Value: 250}}
	proj := Project(series)

	require.NotNil(t, proj.Fit)
	assert.InDelta(t, 0, proj.Fit.Slope, 1e-9)
	assert.InDelta(t, 250, proj.Fit.Intercept, 1e-9)
	for _, p := range predicted(t, proj.Points) {
		assert.Equal(t, 250.0, p)
	}
}

func TestProject_RoundsHalfUp(t *testing.T) {
	up := Project(models.Series{{Label: "a", Value: 0.5}, {Label: "b", Value: 1}})
	assert.Equal(t, []float64{1, 1, 2, 2, 3, 3}, predicted(t, up.Points))

	down := Project(models.Series{{Label: "a", Value: -0.5}, {Label: "b", Value: -1}})
	assert.Equal(t, []float64{0, -1, -1, -2, -2, -3}, predicted(t, down.Points))
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]float64{
		2.5: 3, 2.4999: 2, -2.5: -2, -2.5001: -3, 0: 0, 1223809.52: 1223810,
		0.49999999999999994: 0, -0.5: 0, 4503599627370497: 4503599627370497,
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundHalfUp(in), "RoundHalfUp(%v)", in)
	}
}

func TestProject_NearFloatLimit(t *testing.T) {
	series := models.Series{{Label: "a", Value: 1e308}, {Label: "b", Value: 1.5e308}, {Label: "c", Value: 1.7e308}}
	proj := Project(series)

	// The line itself fits, but the projected periods exceed float64.
	assert.Nil(t, proj.Fit)
	require.Len(t, proj.Points, len(series))
	for i, p := range proj.Points {
		require.NotNil(t, p.Actual)
		assert.Equal(t, series[i].Value, *p.Actual)
		assert.Nil(t, p.Predicted)
	}

	_, err := json.Marshal(proj)
	assert.NoError(t, err)
}

func TestProject_LargeValuesStayFinite(t *testing.T) {
	series := models.Series{{Label: "a", Value: 1e300}, {Label: "b", Value: 2e300}, {Label: "c", Value: 3e300}}
	proj := Project(series)

	require.NotNil(t, proj.Fit)
	assert.InEpsilon(t, 1e300, proj.Fit.Slope, 1e-9)
	assert.InDelta(t, 0, proj.Fit.Intercept/1e300, 1e-9)
	for _, p := range predicted(t, proj.Points) {
		assert.False(t, math.IsInf(p, 0) || math.IsNaN(p))
	}

	_, err := json.Marshal(proj)
	assert.NoError(t, err)
}
