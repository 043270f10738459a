package service

import (
	"context"

	"ForecastAI/internal/domain/models"
)

// Advisor sends a raw series to a hosted model and returns its narrative analysis.
// It never sees the local fit. Any failure is reported as models.ErrAdvisoryFailure,
// except a too-short series which is models.ErrInsufficientData and issues no request.
type Advisor interface {
	Analyze(ctx context.Context, series models.Series) (models.Analysis, error)
	Provider() string
}
