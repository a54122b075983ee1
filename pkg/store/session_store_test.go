package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	userID, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if !ok || userID != "user-1" {
		t.Fatalf("unexpected resolution: ok=%v userID=%q", ok, userID)
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("expected session gone after delete, ok=%v err=%v", ok, err)
	}
}

func TestRedisSessionStoreExpires(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	redis.FastForward(2 * time.Minute)
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("expected expired session, ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionStoreRoundTrip(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new jwt store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	userID, ok, err := s.GetUserIDByToken(token)
	if err != nil || !ok || userID != "user-1" {
		t.Fatalf("unexpected resolution: ok=%v userID=%q err=%v", ok, userID, err)
	}
}

func TestJWTSessionStoreRejectsExpiredAndForeignTokens(t *testing.T) {
	expired, err := NewJWTSessionStore("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("new jwt store: %v", err)
	}
	token, err := expired.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	verifier, err := NewJWTSessionStore("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new jwt store: %v", err)
	}
	if _, ok, _ := verifier.GetUserIDByToken(token); ok {
		t.Fatal("expired token must not resolve")
	}

	otherKey, err := NewJWTSessionStore("other-secret", time.Minute)
	if err != nil {
		t.Fatalf("new jwt store: %v", err)
	}
	foreign, err := otherKey.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := verifier.GetUserIDByToken(foreign); ok {
		t.Fatal("token signed with another secret must not resolve")
	}
	if _, ok, _ := verifier.GetUserIDByToken("not-a-token"); ok {
		t.Fatal("garbage token must not resolve")
	}
}

func TestNewJWTSessionStoreRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("  ", time.Minute); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
