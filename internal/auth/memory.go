package auth

import (
	"context"
	"sync"
	"time"
)

var (
	_ UserStore    = (*MemoryUserStore)(nil)
	_ SessionStore = (*MemorySessionStore)(nil)
)

// MemoryUserStore is an in-process UserStore for tests and local runs
// without PostgreSQL. Uniqueness is enforced under a single lock so
// concurrent registrations behave like the unique index does.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[string]*User
	byEmail map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrAlreadyExists
	}
	cp := cloneUser(u)
	s.byID[u.ID] = cp
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(s.byID[id]), nil
}

func (s *MemoryUserStore) Save(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return ErrNotFound
	}
	s.byID[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u *User) *User {
	cp := *u
	if u.OTP != nil {
		otp := *u.OTP
		cp.OTP = &otp
	}
	if u.CalorieInfo != nil {
		info := *u.CalorieInfo
		info.NotRecommendedFoods = append([]string(nil), u.CalorieInfo.NotRecommendedFoods...)
		cp.CalorieInfo = &info
	}
	return &cp
}

// MemorySessionStore is an in-process SessionStore. Expiry is enforced at
// read time: a session older than the TTL is reported as not-found even
// before it is purged.
type MemorySessionStore struct {
	mu      sync.Mutex
	byToken map[string]*Session
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		byToken: make(map[string]*Session),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock overrides the time source (useful for tests).
func (s *MemorySessionStore) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.byToken[sess.RefreshToken] = &cp
	return nil
}

func (s *MemorySessionStore) FindByRefreshToken(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && !s.now().Before(sess.CreatedAt.Add(s.ttl)) {
		delete(s.byToken, token)
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemorySessionStore) DeleteByRefreshToken(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byToken[token]; !ok {
		return 0, nil
	}
	delete(s.byToken, token)
	return 1, nil
}
