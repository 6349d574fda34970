package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisSessionStore(client, time.Hour)
	if err != nil {
		t.Fatalf("NewRedisSessionStore: %v", err)
	}
	return store, mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := &Session{ID: "s1", UserID: "u1", RefreshToken: "tok", CreatedAt: created}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.FindByRefreshToken(ctx, "tok")
	if err != nil {
		t.Fatalf("FindByRefreshToken: %v", err)
	}
	if got.ID != "s1" || got.UserID != "u1" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestRedisSessionStoreUnknownToken(t *testing.T) {
	store, _ := newRedisStore(t)
	if _, err := store.FindByRefreshToken(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisSessionStoreTTLExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := &Session{ID: "s1", UserID: "u1", RefreshToken: "tok", CreatedAt: time.Now()}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(time.Hour + time.Second)
	if _, err := store.FindByRefreshToken(ctx, "tok"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expiry to look like not-found, got %v", err)
	}
}

func TestRedisSessionStoreDeleteIdempotent(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	sess := &Session{ID: "s1", UserID: "u1", RefreshToken: "tok", CreatedAt: time.Now()}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.DeleteByRefreshToken(ctx, "tok")
	if err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	n, err = store.DeleteByRefreshToken(ctx, "tok")
	if err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}
}

func TestRedisSessionStoreDropsCorruptRecord(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	mr.Set(sessionKey("tok"), "{not json")
	if _, err := store.FindByRefreshToken(ctx, "tok"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for corrupt record, got %v", err)
	}
	if mr.Exists(sessionKey("tok")) {
		t.Fatalf("corrupt record not purged")
	}
}
