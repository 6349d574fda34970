package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ SessionStore = (*RedisSessionStore)(nil)

// RedisSessionStore keeps sessions in Redis keyed by a hash of the refresh
// token, with the key TTL set to the refresh lifetime. Passive expiry falls
// out of Redis evicting the key: an expired session is simply absent.
type RedisSessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisSessionStore constructs the store. ttl must match the refresh
// token lifetime so session and token expire together.
func NewRedisSessionStore(client redis.Cmdable, ttl time.Duration) (*RedisSessionStore, error) {
	if client == nil {
		return nil, errors.New("auth: redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: session ttl must be positive")
	}
	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

const sessionKeyPrefix = "slimmom:session:"

func sessionKey(refreshToken string) string {
	sum := sha256.Sum256([]byte(refreshToken))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])
}

type sessionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *RedisSessionStore) Create(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sessionRecord{
		ID:           sess.ID,
		UserID:       sess.UserID,
		RefreshToken: sess.RefreshToken,
		CreatedAt:    sess.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.RefreshToken), data, s.ttl).Err()
}

func (s *RedisSessionStore) FindByRefreshToken(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt record: drop it and report not-found.
		_, _ = s.client.Del(ctx, sessionKey(token)).Result()
		return nil, ErrSessionNotFound
	}
	return &Session{
		ID:           rec.ID,
		UserID:       rec.UserID,
		RefreshToken: rec.RefreshToken,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

func (s *RedisSessionStore) DeleteByRefreshToken(ctx context.Context, token string) (int64, error) {
	return s.client.Del(ctx, sessionKey(token)).Result()
}
