package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/blog-platform/internal/domain"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", 30)
	session := domain.Session{UserID: "user-123", Email: "user@example.com", Role: domain.RoleAdmin}

	token, exp, err := tm.Issue(session)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !exp.After(time.Now().Add(29 * 24 * time.Hour)) {
		t.Fatalf("expected ~30 day expiry, got %v", exp)
	}

	got, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != session {
		t.Fatalf("session mismatch: got %+v want %+v", got, session)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", 30)
	token, _, err := tm.Issue(domain.Session{UserID: "u1", Email: "a@b.co", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Any single-character mutation must fail verification.
	for i := 0; i < len(token); i += 7 {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if _, err := tm.Verify(string(mutated)); err == nil {
			t.Fatalf("expected error for mutation at index %d, got nil", i)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("right-secret", 30).Issue(domain.Session{UserID: "u2", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenManager("wrong-secret", 30).Verify(token); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tm := &TokenManager{secret: []byte("k"), ttl: -time.Minute}
	token, _, err := tm.Issue(domain.Session{UserID: "u3", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := tm.Verify(token); err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager("k", 30).Verify("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
