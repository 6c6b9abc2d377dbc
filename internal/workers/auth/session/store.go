// internal/workers/auth/session/store.go

// Package session implements Redis-backed session persistence shared by the
// auth workers. Sessions live under two key families: the record itself at
// session:<userId>:<sessionId>, and a token index at session:token:<token>
// pointing back at the record. Both expire together.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"talent-timeline-workers/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("session:%s:%s", userID, sessionID)
}

func tokenKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

// Create persists the session and its token index. The Redis TTL is derived
// from the session's own lifetime so the two never disagree.
func (s *RedisStore) Create(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := sess.ExpiresAt.Sub(sess.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}

	key := sessionKey(sess.UserID, sess.ID)
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey(sess.Token), key, ttl).Err(); err != nil {
		return fmt.Errorf("store token index: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	key, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token index: %w", err)
	}

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(userID, sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every session the user holds and returns how many
// were dropped. Token index entries are left to expire on their own; the
// record they point at is already gone.
func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	pattern := sessionKey(userID, "*")
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return 0, fmt.Errorf("find sessions: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return len(keys), nil
}

// RevokeToken puts the token on the revocation list until it would have
// expired anyway.
func (s *RedisStore) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	revokedKey := fmt.Sprintf("token:revoked:%s", token)
	if err := s.client.Set(ctx, revokedKey, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
