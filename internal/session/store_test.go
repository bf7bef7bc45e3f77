package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStore_CreateGetDestroy(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	id, err := s.Create(ctx, Data{UserID: 42, Role: "client", Nom: "Dupont"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d == nil || d.UserID != 42 || d.Role != "client" || d.Nom != "Dupont" {
		t.Fatalf("unexpected session data: %+v", d)
	}

	if err := s.Destroy(ctx, id); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	d, err = s.Get(ctx, id)
	if err != nil || d != nil {
		t.Fatalf("expected session gone, got %+v err=%v", d, err)
	}

	// 幂等：再删一次也成功
	if err := s.Destroy(ctx, id); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}

func TestStore_GetMissingAndEmptyID(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	d, err := s.Get(ctx, "nope")
	if err != nil || d != nil {
		t.Fatalf("missing session: %+v err=%v", d, err)
	}
	d, err = s.Get(ctx, "")
	if err != nil || d != nil {
		t.Fatalf("empty id: %+v err=%v", d, err)
	}
}

func TestStore_Expiry(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	id, err := s.Create(ctx, Data{UserID: 1, Role: "client", Nom: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	d, err := s.Get(ctx, id)
	if err != nil || d != nil {
		t.Fatalf("expected expired session, got %+v err=%v", d, err)
	}
}
