package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

const (
	idempotencyPending       = "pending"
	defaultPendingTTL        = 2 * time.Minute
	idempotencyWriteDeadline = 5 * time.Second
)

// IdempotencyStore remembers the result of a request keyed by the client's
// Idempotency-Key header. TTL bounds a stored result, PendingTTL bounds the
// in-flight marker of a run that never reported back.
type IdempotencyStore struct {
	Redis      *redis.Client
	TTL        time.Duration
	PendingTTL time.Duration
	ErrorLog   *log.Logger
}

func (s *IdempotencyStore) pendingTTL() time.Duration {
	if s.PendingTTL > 0 {
		return s.PendingTTL
	}
	return defaultPendingTTL
}

func (s *IdempotencyStore) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}

func idempotencyKey(scope, key string) string {
	return "idem:" + scope + ":" + key
}

// Idempotent runs fn once per (scope, key). A retry after completion gets the
// cached result; a retry while fn is still running gets
// models.ErrIdempotencyInFlight. Failed runs are forgotten so they can be retried.
func Idempotent[T any](ctx context.Context, store *IdempotencyStore, scope, key string, fn func() (T, error)) (T, error) {
	var zero T
	if store == nil || store.Redis == nil || key == "" {
		return fn()
	}

	k := idempotencyKey(scope, key)
	ok, err := store.Redis.SetNX(ctx, k, idempotencyPending, store.pendingTTL()).Result()
	if err != nil {
		return zero, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if !ok {
		return cached[T](ctx, store.Redis, k)
	}

	result, err := fn()

	// fn may have ended because ctx was cancelled; the key must still be settled.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyWriteDeadline)
	defer cancel()

	if err != nil {
		if delErr := store.Redis.Del(wctx, k).Err(); delErr != nil {
			store.logf("release idempotency key %s: %v", k, delErr)
		}
		return zero, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		store.logf("encode idempotent result %s: %v", k, err)
		if delErr := store.Redis.Del(wctx, k).Err(); delErr != nil {
			store.logf("release idempotency key %s: %v", k, delErr)
		}
		return result, nil
	}
	if setErr := store.Redis.Set(wctx, k, data, store.TTL).Err(); setErr != nil {
		store.logf("store idempotent result %s: %v", k, setErr)
	}
	return result, nil
}

func cached[T any](ctx context.Context, rdb *redis.Client, k string) (T, error) {
	var result T
	raw, err := rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) || raw == idempotencyPending {
		return result, models.ErrIdempotencyInFlight
	}
	if err != nil {
		return result, fmt.Errorf("read idempotency key: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, fmt.Errorf("decode idempotent result: %w", err)
	}
	return result, nil
}
