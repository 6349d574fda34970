package auth

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestGenerateOTPCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("GenerateOTPCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code is not numeric: %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestVerifyOTPLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	u := &User{ID: "u1"}

	code, err := IssueOTP(u, 10*time.Minute, now)
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if u.OTP == nil || u.OTP.Code != code {
		t.Fatalf("challenge not placed on user")
	}
	if u.Verified() {
		t.Fatalf("fresh challenge must not be verified")
	}

	if err := VerifyOTP(u, "000000", now); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("wrong code: expected ErrInvalidOTP, got %v", err)
	}
	if err := VerifyOTP(u, code, now.Add(10*time.Minute)); !errors.Is(err, ErrExpiredOTP) {
		t.Fatalf("at expiry boundary: expected ErrExpiredOTP, got %v", err)
	}
	if err := VerifyOTP(u, code, now.Add(5*time.Minute)); err != nil {
		t.Fatalf("valid code rejected: %v", err)
	}
	if !u.Verified() {
		t.Fatalf("user not marked verified")
	}
	if err := VerifyOTP(u, code, now); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("reuse: expected ErrAlreadyVerified, got %v", err)
	}
}

func TestVerifyOTPWithoutChallenge(t *testing.T) {
	u := &User{ID: "u1"}
	if err := VerifyOTP(u, "123456", time.Now()); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestIssueOTPOverwritesPrior(t *testing.T) {
	now := time.Now().UTC()
	u := &User{ID: "u1"}

	first, err := IssueOTP(u, time.Minute, now)
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	second, err := IssueOTP(u, time.Minute, now)
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if first == second {
		t.Skip("collision between two random codes")
	}
	if err := VerifyOTP(u, first, now); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("stale code: expected ErrInvalidOTP, got %v", err)
	}
	if err := VerifyOTP(u, second, now); err != nil {
		t.Fatalf("fresh code rejected: %v", err)
	}
}
