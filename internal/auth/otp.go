package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
	"time"
)

// DefaultOTPTTL is how long a freshly issued challenge stays valid.
const DefaultOTPTTL = 10 * time.Minute

// otp codes are 6-digit decimal, sampled uniformly over [100000, 999999].
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTPCode returns a fresh 6-digit verification code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.Itoa(otpMin + int(n.Int64())), nil
}

// IssueOTP places a fresh challenge on the user, overwriting any prior one,
// and returns the generated code so the caller can dispatch it.
func IssueOTP(u *User, ttl time.Duration, now time.Time) (string, error) {
	code, err := GenerateOTPCode()
	if err != nil {
		return "", err
	}
	u.OTP = &OTPChallenge{Code: code, ExpiresAt: now.Add(ttl)}
	return code, nil
}

// VerifyOTP checks a submitted code against the user's live challenge and,
// on success, marks the challenge verified. Verifying an already-verified
// challenge fails: codes are single-use.
func VerifyOTP(u *User, code string, now time.Time) error {
	if u.OTP == nil || u.OTP.Code == "" {
		return ErrInvalidOTP
	}
	if u.OTP.Verified {
		return ErrAlreadyVerified
	}
	if !now.Before(u.OTP.ExpiresAt) {
		return ErrExpiredOTP
	}
	if subtle.ConstantTimeCompare([]byte(u.OTP.Code), []byte(code)) != 1 {
		return ErrInvalidOTP
	}
	u.OTP.Verified = true
	return nil
}
