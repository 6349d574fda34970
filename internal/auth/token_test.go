package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, now func() time.Time) *TokenIssuer {
	t.Helper()
	ti, err := NewTokenIssuer("access-secret", "refresh-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	if now != nil {
		ti.now = now
	}
	return ti
}

func TestNewTokenIssuerValidation(t *testing.T) {
	if _, err := NewTokenIssuer("", "refresh"); err == nil {
		t.Fatal("expected error for empty access secret")
	}
	if _, err := NewTokenIssuer("same", "same"); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	ti := newTestIssuer(t, nil)
	u := &User{ID: "user-1", Role: RoleAdmin}

	token, exp, err := ti.IssueAccess(u)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", exp)
	}

	claims, err := ti.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("role not preserved: %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti")
	}
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	ti := newTestIssuer(t, nil)
	u := &User{ID: "user-1", Role: RoleUser}

	access, _, err := ti.IssueAccess(u)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, _, err := ti.IssueRefresh(u)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := ti.VerifyRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access-as-refresh: expected ErrInvalidToken, got %v", err)
	}
	if _, err := ti.VerifyAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh-as-access: expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyDistinguishesExpiredFromInvalid(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	current := base
	ti := newTestIssuer(t, func() time.Time { return current })
	u := &User{ID: "user-1"}

	token, _, err := ti.IssueRefresh(u)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	current = base.Add(DefaultRefreshTTL + time.Minute)
	if _, err := ti.VerifyRefresh(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	if _, err := ti.VerifyRefresh("garbage.token.value"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := ti.VerifyRefresh(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	ti := newTestIssuer(t, nil)
	other := newTestIssuer(t, nil)
	other.accessSecret = []byte("a-different-secret")

	token, _, err := other.IssueAccess(&User{ID: "user-1"})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := ti.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
