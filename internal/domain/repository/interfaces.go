package repository

import (
	"context"
	"time"

	"ForecastAI/internal/domain/models"
)

// SessionStore keeps dashboard sessions for their idle lifetime.
type SessionStore interface {
	Save(ctx context.Context, s *models.Session) error
	// Get returns models.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	// AcquireAdvisory marks the session as having an outstanding advisory call.
	// It reports false when one is already outstanding.
	AcquireAdvisory(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseAdvisory(ctx context.Context, id string) error
}

// EventPublisher fans session changes out to live subscribers.
type EventPublisher interface {
	Publish(ev models.SessionEvent)
}

type Metrics interface {
	RecordForecast(points int)
	RecordAdvisory(provider, outcome string)
	RecordSessionOp(op string)
	RecordLatency(op string, seconds float64)
}
