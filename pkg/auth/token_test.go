package auth

import (
	"testing"
	"time"
)

func TestTokenIssueAndVerify(t *testing.T) {
	tm, err := NewTokenManager("test-secret", TokenOptions{})
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	token, err := tm.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	subject, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", subject)
	}
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", TokenOptions{})
	verifier, _ := NewTokenManager("secret-b", TokenOptions{})
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	tm, err := NewTokenManager("test-secret", TokenOptions{TTL: time.Nanosecond, Leeway: time.Nanosecond})
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	token, err := tm.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := tm.Verify(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestTokenVerifyRejectsWrongIssuer(t *testing.T) {
	issuer, _ := NewTokenManager("test-secret", TokenOptions{Issuer: "someone-else"})
	verifier, _ := NewTokenManager("test-secret", TokenOptions{})
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected wrong-issuer token to be rejected")
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("  ", TokenOptions{}); err == nil {
		t.Fatalf("expected constructor error for empty secret")
	}
}
