package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForecastAI/internal/domain/models"
	domrepo "ForecastAI/internal/domain/repository"
	"ForecastAI/pkg/cache"
)

func stores(t *testing.T) map[string]domrepo.SessionStore {
	t.Helper()

	mem := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mem.Close() })

	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(cache.WithRedisAddr(mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	return map[string]domrepo.SessionStore{
		"memory": NewCacheSessionStore(mem, time.Hour),
		"redis":  NewCacheSessionStore(rc, time.Hour),
	}
}

func TestCacheSessionStore_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
			sess := &models.Session{
				ID:        "c1c5a4f4-7d4c-4a9e-9d59-0f4f1d1d0a11",
				Series:    models.DefaultSeries(),
				Advisory:  models.AdvisoryState{Status: models.AdvisoryIdle},
				CreatedAt: now,
				UpdatedAt: now,
			}
			require.NoError(t, store.Save(ctx, sess))

			got, err := store.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, sess.Series, got.Series)
			assert.Equal(t, models.AdvisoryIdle, got.Advisory.Status)
			assert.True(t, now.Equal(got.CreatedAt))

			require.NoError(t, store.Delete(ctx, sess.ID))
			_, err = store.Get(ctx, sess.ID)
			assert.ErrorIs(t, err, models.ErrSessionNotFound)
		})
	}
}

func TestCacheSessionStore_NotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "missing")
			assert.ErrorIs(t, err, models.ErrSessionNotFound)
		})
	}
}

func TestCacheSessionStore_AdvisoryLock(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			ok, err := store.AcquireAdvisory(ctx, "s1", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = store.AcquireAdvisory(ctx, "s1", time.Minute)
			require.NoError(t, err)
			assert.False(t, ok, "second acquire must be refused while outstanding")

			ok, err = store.AcquireAdvisory(ctx, "s2", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok, "locks are per session")

			require.NoError(t, store.ReleaseAdvisory(ctx, "s1"))
			ok, err = store.AcquireAdvisory(ctx, "s1", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestCacheSessionStore_SlidingTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(cache.WithRedisAddr(mr.Addr()), cache.WithRedisPrefix("t"))
	require.NoError(t, err)
	defer rc.Close()

	store := NewCacheSessionStore(rc, time.Minute)
	require.NoError(t, store.Save(ctx, &models.Session{ID: "s"}))

	mr.FastForward(50 * time.Second)
	_, err = store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("t:session:s"))

	mr.FastForward(61 * time.Second)
	_, err = store.Get(ctx, "s")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
