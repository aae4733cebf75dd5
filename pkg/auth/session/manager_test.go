package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()
	userID := uuid.New()

	token, err := manager.Generate(ctx, userID, "access-123")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ok, _ := manager.HasSession(ctx, "access-123"); !ok {
		t.Fatalf("expected session after generate")
	}

	if _, err := manager.Rotate(ctx, "access-123", "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	rotation, err := manager.Rotate(ctx, "access-123", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotation.UserID != userID {
		t.Fatalf("expected rotation to keep user %s, got %s", userID, rotation.UserID)
	}
	if ok, _ := manager.HasSession(ctx, "access-123"); ok {
		t.Fatalf("old access session left behind")
	}
	if ok, _ := manager.HasSession(ctx, rotation.AccessID); !ok {
		t.Fatalf("expected new access session")
	}
	if rotation.RefreshToken == token {
		t.Fatalf("refresh token should change on rotation")
	}

	if _, err := manager.Rotate(ctx, "access-123", token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("reusing a rotated token should fail, got %v", err)
	}
}

func TestManagerRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if _, err := manager.Generate(ctx, uuid.New(), "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := manager.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, err := manager.HasSession(ctx, "access-1"); err != nil || ok {
		t.Fatalf("expected no session after revoke, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, " "); err == nil {
		t.Fatalf("expected error for blank access id")
	}
}

func TestManagerGenerateRequiresUser(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Generate(context.Background(), uuid.Nil, "access"); err == nil {
		t.Fatalf("expected error for nil user")
	}
}

func TestNewManagerValidatesTTL(t *testing.T) {
	if _, err := NewManager(nil, config.JWTConfig{}); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
