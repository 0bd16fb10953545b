package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/medprep/medprep-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

func newTestAuthService(t *testing.T) (*AuthService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAuthService(cfg, rdb), mr
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, mr := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "user-1", "Test User")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.DisplayName != "Test User" {
		t.Errorf("display name = %q, want %q", claims.DisplayName, "Test User")
	}

	if !mr.Exists(config.SessionKey("user-1")) {
		t.Fatal("expected session key in redis")
	}
	if err := svc.ValidateSession(ctx, "user-1", claims.ID); err != nil {
		t.Errorf("validate session: %v", err)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "user-1", "Test User")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	other := NewAuthService(&config.Config{
		JWTSecret: "different-secret",
		JWTExpiry: time.Hour,
	}, nil)
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation error for wrong secret")
	}
}

func TestNewLoginReplacesSession(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.GenerateToken(ctx, "user-1", "Test User")
	if err != nil {
		t.Fatalf("generate first token: %v", err)
	}
	if _, err := svc.GenerateToken(ctx, "user-1", "Test User"); err != nil {
		t.Fatalf("generate second token: %v", err)
	}

	firstClaims, err := svc.ValidateToken(first)
	if err != nil {
		t.Fatalf("validate first token: %v", err)
	}
	if err := svc.ValidateSession(ctx, "user-1", firstClaims.ID); !errors.Is(err, ErrSessionInvalidated) {
		t.Errorf("validate first session = %v, want ErrSessionInvalidated", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, mr := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "user-1", "Test User")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if err := svc.Logout(ctx, "user-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if mr.Exists(config.SessionKey("user-1")) {
		t.Fatal("expected session key to be removed")
	}
	if err := svc.ValidateSession(ctx, "user-1", claims.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("validate session = %v, want ErrNoActiveSession", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	hash, err := svc.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := svc.CheckPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("check password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("check wrong password = %v, want ErrInvalidCredentials", err)
	}
}
