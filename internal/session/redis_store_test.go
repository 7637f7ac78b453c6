package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func TestNewRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSaveAndLookupSession(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	sessionID := "sess-abc"
	userID := "user-123"
	expiresAt := time.Now().Add(24 * time.Hour)

	if err := store.SaveSession(ctx, sessionID, userID, expiresAt); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := store.LookupSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("LookupSession failed: %v", err)
	}
	if got != userID {
		t.Errorf("expected user ID %s, got %s", userID, got)
	}
}

func TestLookupMissingSession(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	if _, err := store.LookupSession(context.Background(), "never-saved"); err == nil {
		t.Error("expected error for missing session, got nil")
	}
}

func TestSessionExpiry(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SaveSession(ctx, "sess-exp", "user-9", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	s.FastForward(2 * time.Minute)

	if _, err := store.LookupSession(ctx, "sess-exp"); err == nil {
		t.Error("expected error after expiry, got nil")
	}
}

func TestDeleteSession(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SaveSession(ctx, "sess-del", "user-4", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := store.DeleteSession(ctx, "sess-del"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := store.LookupSession(ctx, "sess-del"); err == nil {
		t.Error("expected error after delete, got nil")
	}

	// Deleting again is a no-op
	if err := store.DeleteSession(ctx, "sess-del"); err != nil {
		t.Errorf("second DeleteSession errored: %v", err)
	}
}
