package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyEd25519(t *testing.T) {
	m, err := NewManager(Config{TTL: time.Minute, Issuer: "passforge-test"})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tok, err := m.Issue("reset", "123456")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Purpose != "reset" || claims.Code != "123456" {
		t.Fatalf("claims round trip failed: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a UUID jti")
	}
}

func TestIssueVerifyHS256(t *testing.T) {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}
	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: secret})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tok, err := m.Issue("delivery", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	a, err := NewManager(Config{TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	b, err := NewManager(Config{TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tok, err := a.Issue("reset", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign key, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m, err := NewManager(Config{TTL: time.Nanosecond})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	tok, err := m.Issue("reset", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := m.Verify(tok); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m, err := NewManager(Config{TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("zero TTL must fail")
	}
	if _, err := NewManager(Config{TTL: time.Minute, SigningMethod: "rs256"}); err == nil {
		t.Fatal("unsupported method must fail")
	}
	if _, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: []byte("short")}); err == nil {
		t.Fatal("short hs256 secret must fail")
	}
	if _, err := NewManager(Config{TTL: time.Minute, PrivateKey: []byte("bad length")}); err == nil {
		t.Fatal("bad ed25519 key length must fail")
	}
}
