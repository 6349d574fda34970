package auth

import "context"

// UserStore persists user identity, password hash and OTP challenge state.
//
// Create must treat check-then-insert as a single logical operation: the
// email uniqueness guarantee comes from the storage layer, not from a
// pre-check, so concurrent registrations with the same email resolve to
// exactly one winner.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}

// SessionStore persists active refresh tokens with absolute expiry.
//
// FindByRefreshToken must treat an expired session as not-found even if the
// record has not been physically purged yet. DeleteByRefreshToken is
// idempotent and reports how many records were removed (0 or 1).
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	FindByRefreshToken(ctx context.Context, token string) (*Session, error)
	DeleteByRefreshToken(ctx context.Context, token string) (int64, error)
}
