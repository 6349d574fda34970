package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuerName = "slimmom"

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Default token lifetimes; both are overridable through Service options.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims carried by issued tokens. Role is only set on access tokens.
type Claims struct {
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates access and refresh tokens with HS256.
// The two token classes use distinct secrets: leaking one key must not
// compromise the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer with default lifetimes.
func NewTokenIssuer(accessSecret, refreshSecret string) (*TokenIssuer, error) {
	if strings.TrimSpace(accessSecret) == "" || strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("auth: token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     DefaultAccessTTL,
		refreshTTL:    DefaultRefreshTTL,
		now:           time.Now,
	}, nil
}

// RefreshTTL reports the configured refresh token lifetime.
func (ti *TokenIssuer) RefreshTTL() time.Duration { return ti.refreshTTL }

// IssueAccess signs a short-lived access token embedding the user's id and role.
func (ti *TokenIssuer) IssueAccess(u *User) (string, time.Time, error) {
	return ti.sign(u, tokenTypeAccess, ti.accessTTL, ti.accessSecret)
}

// IssueRefresh signs a long-lived refresh token embedding the user's id.
func (ti *TokenIssuer) IssueRefresh(u *User) (string, time.Time, error) {
	return ti.sign(u, tokenTypeRefresh, ti.refreshTTL, ti.refreshSecret)
}

// VerifyAccess validates an access token and returns its claims.
func (ti *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return ti.verify(token, tokenTypeAccess, ti.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (ti *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return ti.verify(token, tokenTypeRefresh, ti.refreshSecret)
}

func (ti *TokenIssuer) sign(u *User, typ string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := ti.now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if typ == tokenTypeAccess {
		claims.Role = u.Role
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (ti *TokenIssuer) verify(token, typ string, secret []byte) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return ti.now().UTC() }), jwt.WithIssuer(issuerName))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != typ || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
