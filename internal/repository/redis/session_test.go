package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"

	"github.com/seclearn/trainquery/internal/domain"
	redisstore "github.com/seclearn/trainquery/internal/repository/redis"
)

func newTestStore(t *testing.T, ttl time.Duration) (*redisstore.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	store := redisstore.NewSessionStoreFromClient(client, ttl)
	t.Cleanup(func() { store.Close() })
	return store, srv
}

func newSession(id string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{ID: id, CreatedAt: now, LastActivity: now}
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "s1" || got.IsAuthenticated() {
		t.Fatalf("got %+v", got)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, srv := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ttl := srv.TTL("session:s1"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}

	srv.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired session must read as missing, err = %v", err)
	}
}

func TestSessionStore_UpdateResetsTTL(t *testing.T) {
	store, srv := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	srv.FastForward(30 * time.Second)

	id := "000000042"
	updated, err := store.Update(ctx, "s1", func(s *domain.Session) {
		s.EmployeeID = &id
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.EmployeeID == nil || *updated.EmployeeID != id {
		t.Fatalf("mutation lost: %+v", updated)
	}
	if ttl := srv.TTL("session:s1"); ttl != time.Minute {
		t.Fatalf("Update must reset the TTL, got %v", ttl)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get after Update: %v", err)
	}
	if got.EmployeeID == nil || *got.EmployeeID != id {
		t.Fatalf("persisted session = %+v", got)
	}
}

func TestSessionStore_UpdateMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	_, err := store.Update(context.Background(), "nope", func(*domain.Session) {})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
