package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrUnsupportedDest is returned by Get for destinations other than *string and *[]byte.
	ErrUnsupportedDest = errors.New("cache: unsupported destination type")
)

// Service defines cache operations. Values are stored as strings; callers serialize.
type Service interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}

func assign(dest interface{}, value string) error {
	switch d := dest.(type) {
	case *string:
		*d = value
	case *[]byte:
		*d = []byte(value)
	default:
		return ErrUnsupportedDest
	}
	return nil
}
