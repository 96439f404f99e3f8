package cache

import (
	"context"
	"testing"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("disabled cache should not expose a client")
	}
	ctx := context.Background()
	if err := SetProduct(ctx, &models.Product{ID: 3, Title: "Lamp"}); err != nil {
		t.Fatalf("set on disabled cache should be noop: %v", err)
	}
	got, hit, err := GetProduct(ctx, 3)
	if err != nil || hit || got != nil {
		t.Fatalf("disabled cache should miss, got %+v hit=%v err=%v", got, hit, err)
	}
	if err := SetUserAuthState(ctx, &UserAuthState{UserID: 1}); err != nil {
		t.Fatalf("auth state write on disabled cache should be noop: %v", err)
	}
	state, hit, err := GetAdminAuthState(ctx, 1)
	if err != nil || hit || state != nil {
		t.Fatalf("disabled cache should miss admin state, got %+v hit=%v err=%v", state, hit, err)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	user := &models.User{ID: 9, Status: "active", TokenVersion: 4}
	state := BuildUserAuthState(user)
	if state.UserID != 9 || state.TokenVersion != 4 || state.TokenInvalidBefore != 0 {
		t.Fatalf("unexpected state: %+v", state)
	}
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should build nil state")
	}
}

func TestAuthStateKeySeparatesSubjects(t *testing.T) {
	if authStateKey(subjectUser, 7) == authStateKey(subjectAdmin, 7) {
		t.Fatalf("user and admin snapshots must not share a key")
	}
	if got := authStateKey(subjectAdmin, 7); got != "auth:admin:7" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "ms"
	if got := buildKey("product:1"); got != "ms:product:1" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := buildKey("  "); got != "ms" {
		t.Fatalf("blank key should fall back to prefix, got %s", got)
	}
}

func TestResolveAddrDefaults(t *testing.T) {
	if got := resolveAddr(" ", 0); got != "127.0.0.1:6379" {
		t.Fatalf("unexpected default addr %s", got)
	}
	if got := resolveAddr("redis", 6380); got != "redis:6380" {
		t.Fatalf("unexpected addr %s", got)
	}
}
