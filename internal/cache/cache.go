package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// FetchFunc retrieves the payload for a key on a cache miss.
type FetchFunc func(ctx context.Context) (string, error)

// Store is a TTL cache for upstream collections. Payloads are raw JSON text:
// entries are replaced wholesale on refresh, never patched, so readers can
// hold a returned payload across the whole request without copying.
type Store struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore applies one TTL uniformly to every key.
func NewStore(kv KVStore, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{kv: kv, ttl: ttl, logger: logger}
}

// GetOrFetch returns the cached payload for key, or invokes fetch and caches
// the result. A failed fetch is propagated as-is: stale data is never served
// past its expiry. Two requests racing on an expired key may both fetch;
// last write wins and both see a complete payload.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (string, error) {
	val, err := s.kv.Get(ctx, key)
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Backend trouble (e.g. Redis down) degrades to a fetch, not a failure.
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	val, err = fetch(ctx)
	if err != nil {
		return "", err
	}
	if err := s.kv.Set(ctx, key, val, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return val, nil
}

// Invalidate drops the entry for key so the next read refetches.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	return s.kv.Del(ctx, key)
}
