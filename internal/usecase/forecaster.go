package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ForecastAI/internal/domain/models"
	drepo "ForecastAI/internal/domain/repository"
	domsvc "ForecastAI/internal/domain/service"
	"ForecastAI/internal/services/advisory"
	"ForecastAI/internal/services/trend"
)

// Advisory outcomes recorded in metrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Forecaster combines the local trend projection with the advisory service.
// The projection never depends on the advisory result.
type Forecaster struct {
	advisor domsvc.Advisor
	metrics drepo.Metrics
	timeout time.Duration
}

// NewForecaster creates a Forecaster. A non-positive timeout means 60s.
func NewForecaster(advisor domsvc.Advisor, metrics drepo.Metrics, timeout time.Duration) *Forecaster {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Forecaster{advisor: advisor, metrics: metrics, timeout: timeout}
}

// Timeout is the upper bound of one advisory call.
func (f *Forecaster) Timeout() time.Duration { return f.timeout }

// Provider names the advisory backend.
func (f *Forecaster) Provider() string { return f.advisor.Provider() }

// Project builds the chart points for series.
func (f *Forecaster) Project(series models.Series) models.Projection {
	p := trend.Project(series)
	f.metrics.RecordForecast(len(p.Points))
	return p
}

// Analyze runs one advisory call bounded by the configured timeout.
// It returns models.ErrInsufficientData without calling out for short series.
func (f *Forecaster) Analyze(ctx context.Context, series models.Series) (models.Analysis, error) {
	provider := f.advisor.Provider()
	if err := advisory.CheckSufficient(series); err != nil {
		f.metrics.RecordAdvisory(provider, OutcomeRejected)
		return models.Analysis{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	a, err := f.advisor.Analyze(ctx, series.Clone())
	f.metrics.RecordLatency("advisory", time.Since(start).Seconds())
	if err != nil {
		f.metrics.RecordAdvisory(provider, OutcomeFailed)
		if errors.Is(err, models.ErrAdvisoryFailure) || errors.Is(err, models.ErrInsufficientData) {
			return models.Analysis{}, err
		}
		return models.Analysis{}, fmt.Errorf("%w: %v", models.ErrAdvisoryFailure, err)
	}

	f.metrics.RecordAdvisory(provider, OutcomeSucceeded)
	return a, nil
}
