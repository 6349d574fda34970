package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"slimmom.org/internal/ids"
	"slimmom.org/internal/mail"
)

// Service orchestrates the registration, verification and session lifecycle.
// It never talks to SMTP or HTTP directly: message delivery goes through the
// injected mail.Dispatcher and transport concerns live in httpapi.
type Service struct {
	users    UserStore
	sessions SessionStore
	tokens   *TokenIssuer
	mailer   mail.Dispatcher
	otpTTL   time.Duration
	now      func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
			s.tokens.now = fn
		}
		return nil
	}
}

// WithOTPTTL configures challenge lifetime.
func WithOTPTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.otpTTL = ttl
		}
		return nil
	}
}

// WithAccessTTL configures access token lifetime.
func WithAccessTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.tokens.accessTTL = ttl
		}
		return nil
	}
}

// WithRefreshTTL configures refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.tokens.refreshTTL = ttl
		}
		return nil
	}
}

// NewService constructs the auth orchestrator.
func NewService(users UserStore, sessions SessionStore, tokens *TokenIssuer, mailer mail.Dispatcher, opts ...ServiceOption) (*Service, error) {
	if users == nil || sessions == nil || tokens == nil || mailer == nil {
		return nil, errors.New("auth: users, sessions, tokens and mailer are required")
	}
	svc := &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
		otpTTL:   DefaultOTPTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// TokenPair bundles freshly issued access and refresh tokens.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Register creates an unverified account and dispatches its first OTP.
//
// The user record is committed before dispatch: if delivery fails the
// account stays Registered-Unverified with a live challenge and ResendOTP is
// the recovery path. There is deliberately no rollback.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, ErrInvalidInput
	}

	u := &User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	code, err := IssueOTP(u, s.otpTTL, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("issue otp: %w", err)
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrUpstream, err)
	}

	if err := s.mailer.SendOTP(ctx, u.Email, code); err != nil {
		return u, fmt.Errorf("%w: send otp: %v", ErrUpstream, err)
	}
	// Welcome mail is best-effort; a failure never degrades registration.
	_ = s.mailer.SendWelcome(ctx, u.Email, u.Name)
	return u, nil
}

// VerifyOTP consumes a challenge and, on success, opens the first session.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*TokenPair, *User, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(code) == "" {
		return nil, nil, ErrInvalidInput
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	if err := VerifyOTP(u, code, s.now().UTC()); err != nil {
		return nil, nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("%w: save user: %v", ErrUpstream, err)
	}
	pair, err := s.openSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return pair, u, nil
}

// ResendOTP issues a fresh challenge for an unverified account.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidInput
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	if u.Verified() {
		return ErrAlreadyVerified
	}
	code, err := IssueOTP(u, s.otpTTL, s.now().UTC())
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}
	if err := s.users.Save(ctx, u); err != nil {
		return fmt.Errorf("%w: save user: %v", ErrUpstream, err)
	}
	if err := s.mailer.SendOTP(ctx, u.Email, code); err != nil {
		return fmt.Errorf("%w: send otp: %v", ErrUpstream, err)
	}
	return nil
}

// Login authenticates credentials and opens a session for verified accounts.
//
// An unknown email and a wrong password are reported identically to avoid
// account enumeration. An unverified account gets a fresh OTP dispatched and
// a distinguishable rejection so the client can route to verification.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, *User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !u.Verified() {
		code, err := IssueOTP(u, s.otpTTL, s.now().UTC())
		if err != nil {
			return nil, nil, fmt.Errorf("issue otp: %w", err)
		}
		if err := s.users.Save(ctx, u); err != nil {
			return nil, nil, fmt.Errorf("%w: save user: %v", ErrUpstream, err)
		}
		// Delivery failure still rejects with ErrUnverified; the client can
		// fall back to the explicit resend endpoint.
		_ = s.mailer.SendOTP(ctx, u.Email, code)
		return nil, u, ErrUnverified
	}
	pair, err := s.openSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return pair, u, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", time.Time{}, ErrMissingToken
	}
	if _, err := s.sessions.FindByRefreshToken(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", time.Time{}, ErrSessionNotFound
		}
		return "", time.Time{}, fmt.Errorf("%w: find session: %v", ErrUpstream, err)
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrInvalidToken
		}
		return "", time.Time{}, fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	access, exp, err := s.tokens.IssueAccess(u)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: sign access token: %v", ErrUpstream, err)
	}
	return access, exp, nil
}

// Logout revokes the session holding the refresh token. Logging out an
// unknown token is not an error: the operation is idempotent.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	if _, err := s.sessions.DeleteByRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("%w: delete session: %v", ErrUpstream, err)
	}
	return nil
}

// AuthenticateAccess validates a bearer access token and loads its user.
func (s *Service) AuthenticateAccess(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.VerifyAccess(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	return u, nil
}

// CreateAdmin provisions a pre-verified administrator account.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, ErrInvalidInput
	}
	u := &User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		OTP:          &OTPChallenge{Verified: true},
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrUpstream, err)
	}
	return u, nil
}

// SaveCalorieInfo stores the dietary profile on the user record.
func (s *Service) SaveCalorieInfo(ctx context.Context, userID string, info CalorieInfo) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	u.CalorieInfo = &info
	if err := s.users.Save(ctx, u); err != nil {
		return fmt.Errorf("%w: save user: %v", ErrUpstream, err)
	}
	return nil
}

// GetCalorieInfo loads the dietary profile, failing if none was saved yet.
func (s *Service) GetCalorieInfo(ctx context.Context, userID string) (*CalorieInfo, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrUpstream, err)
	}
	if u.CalorieInfo == nil {
		return nil, ErrNotFound
	}
	return u.CalorieInfo, nil
}

func (s *Service) openSession(ctx context.Context, u *User) (*TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccess(u)
	if err != nil {
		return nil, fmt.Errorf("%w: sign access token: %v", ErrUpstream, err)
	}
	refresh, refreshExp, err := s.tokens.IssueRefresh(u)
	if err != nil {
		return nil, fmt.Errorf("%w: sign refresh token: %v", ErrUpstream, err)
	}
	sess := &Session{
		ID:           uuid.NewString(),
		UserID:       u.ID,
		RefreshToken: refresh,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("%w: create session: %v", ErrUpstream, err)
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
