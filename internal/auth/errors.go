package auth

import "errors"

var (
	ErrNotFound           = errors.New("auth: not found")
	ErrAlreadyExists      = errors.New("auth: already exists")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnverified         = errors.New("auth: account not verified")
	ErrAlreadyVerified    = errors.New("auth: already verified")
	ErrInvalidOTP         = errors.New("auth: invalid otp")
	ErrExpiredOTP         = errors.New("auth: otp expired")
	ErrMissingToken       = errors.New("auth: missing token")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrExpiredToken       = errors.New("auth: token expired")
	ErrSessionNotFound    = errors.New("auth: session not found")
	ErrUnauthorized       = errors.New("auth: unauthorized")
	ErrUpstream           = errors.New("auth: upstream failure")
)
