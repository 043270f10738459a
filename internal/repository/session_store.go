package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ForecastAI/internal/domain/models"
	"ForecastAI/internal/domain/repository"
	"ForecastAI/pkg/cache"
)

// CacheSessionStore keeps sessions as JSON in a cache.Service. Every read or
// write pushes the expiry out by ttl, so only idle sessions expire.
type CacheSessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheSessionStore(c cache.Service, ttl time.Duration) repository.SessionStore {
	return &CacheSessionStore{cache: c, ttl: ttl}
}

func sessionKey(id string) string  { return cache.GenerateKey("session", id) }
func advisoryKey(id string) string { return cache.GenerateKey("advisory", id) }

func (s *CacheSessionStore) Save(ctx context.Context, sess *models.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(sess.ID), string(b), s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *CacheSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var raw string
	if err := s.cache.Get(ctx, sessionKey(id), &raw); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	if _, err := s.cache.Expire(ctx, sessionKey(id), s.ttl); err != nil {
		return nil, fmt.Errorf("touch session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *CacheSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKey(id), advisoryKey(id))
}

func (s *CacheSessionStore) AcquireAdvisory(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.cache.TryLock(ctx, advisoryKey(id), ttl)
	if err != nil {
		return false, fmt.Errorf("acquire advisory lock %s: %w", id, err)
	}
	return ok, nil
}

func (s *CacheSessionStore) ReleaseAdvisory(ctx context.Context, id string) error {
	return s.cache.Unlock(ctx, advisoryKey(id))
}
