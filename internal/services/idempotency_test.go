package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

func TestIdempotentReplaysResult(t *testing.T) {
	_, rdb := newRedis(t)
	store := &IdempotencyStore{Redis: rdb, TTL: time.Hour}
	ctx := context.Background()

	calls := 0
	fn := func() (models.ImageUploadResult, error) {
		calls++
		return models.ImageUploadResult{PublicURL: "https://cdn/a.png", LessorID: 3}, nil
	}

	first, err := Idempotent(ctx, store, "img", "key-1", fn)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := Idempotent(ctx, store, "img", "key-1", fn)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if first != second {
		t.Fatalf("replayed result differs: %+v vs %+v", first, second)
	}
}

func TestIdempotentInFlight(t *testing.T) {
	mr, rdb := newRedis(t)
	store := &IdempotencyStore{Redis: rdb, TTL: time.Hour}
	mr.Set(idempotencyKey("img", "key-1"), idempotencyPending)

	_, err := Idempotent(context.Background(), store, "img", "key-1", func() (int, error) {
		t.Fatal("fn must not run while a duplicate is in flight")
		return 0, nil
	})
	if !errors.Is(err, models.ErrIdempotencyInFlight) {
		t.Fatalf("expected ErrIdempotencyInFlight, got %v", err)
	}
}

func TestIdempotentForgetsFailures(t *testing.T) {
	_, rdb := newRedis(t)
	store := &IdempotencyStore{Redis: rdb, TTL: time.Hour}
	ctx := context.Background()

	if _, err := Idempotent(ctx, store, "img", "key-1", func() (int, error) { return 0, errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	got, err := Idempotent(ctx, store, "img", "key-1", func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("expected retry to run, got %d (%v)", got, err)
	}
}

func TestIdempotentWithoutKey(t *testing.T) {
	calls := 0
	fn := func() (int, error) { calls++; return calls, nil }
	Idempotent(context.Background(), nil, "img", "", fn)
	Idempotent(context.Background(), nil, "img", "", fn)
	if calls != 2 {
		t.Fatalf("expected every call to run without a key, got %d", calls)
	}
}

func TestIdempotentReleasesKeyAfterCancel(t *testing.T) {
	_, rdb := newRedis(t)
	store := &IdempotencyStore{Redis: rdb, TTL: 24 * time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	_, err := Idempotent(ctx, store, "reservation", "key-1", func() (int, error) {
		cancel()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	got, err := Idempotent(context.Background(), store, "reservation", "key-1", func() (int, error) { return 1, nil })
	if err != nil || got != 1 {
		t.Fatalf("expected retry to run after cancel, got %d (%v)", got, err)
	}
}

func TestIdempotentStoresResultAfterCancel(t *testing.T) {
	mr, rdb := newRedis(t)
	store := &IdempotencyStore{Redis: rdb, TTL: 24 * time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := Idempotent(ctx, store, "reservation", "key-1", func() (int, error) {
		cancel()
		return 9, nil
	}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	k := idempotencyKey("reservation", "key-1")
	if got, _ := mr.Get(k); got != "9" {
		t.Fatalf("expected stored result 9, got %q", got)
	}
	if ttl := mr.TTL(k); ttl != 24*time.Hour {
		t.Fatalf("expected result ttl 24h, got %s", ttl)
	}
}

func TestIdempotentPendingMarkerExpires(t *testing.T) {
	mr, rdb := newRedis(t)
	store := &IdempotencyStore{Redis: rdb, TTL: 24 * time.Hour, PendingTTL: time.Minute}
	k := idempotencyKey("reservation", "key-1")

	if _, err := Idempotent(context.Background(), store, "reservation", "key-2", func() (int, error) {
		if ttl := mr.TTL(idempotencyKey("reservation", "key-2")); ttl != time.Minute {
			t.Errorf("expected pending ttl 1m, got %s", ttl)
		}
		return 0, nil
	}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// a run that died before settling its key
	mr.Set(k, idempotencyPending)
	mr.SetTTL(k, time.Minute)
	if _, err := Idempotent(context.Background(), store, "reservation", "key-1", func() (int, error) { return 0, nil }); !errors.Is(err, models.ErrIdempotencyInFlight) {
		t.Fatalf("expected ErrIdempotencyInFlight, got %v", err)
	}
	mr.FastForward(2 * time.Minute)
	got, err := Idempotent(context.Background(), store, "reservation", "key-1", func() (int, error) { return 4, nil })
	if err != nil || got != 4 {
		t.Fatalf("expected run after pending marker expired, got %d (%v)", got, err)
	}
}
