package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// SessionStore tracks which issued token IDs are still active, so a token can
// be revoked before its expiry. Entries carry a TTL equal to the token's
// remaining lifetime; a cached "active" answer can therefore never outlive
// the token itself.
type SessionStore interface {
	Save(ctx context.Context, subject, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, subject, tokenID string) (bool, error)
	Revoke(ctx context.Context, subject, tokenID string) error
	RevokeAll(ctx context.Context, subject string) error
}

const sessionKeyPrefix = "session"

type redisSessionStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewRedisSessionStore(redisClient *redis.Client, log *logrus.Logger) SessionStore {
	return &redisSessionStore{
		redisClient: redisClient,
		log:         log,
	}
}

func (s *redisSessionStore) Save(ctx context.Context, subject, tokenID string, ttl time.Duration) error {
	key := sessionKey(subject, tokenID)
	if err := s.redisClient.Set(ctx, key, "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store session in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *redisSessionStore) IsActive(ctx context.Context, subject, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, sessionKey(subject, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check session in Redis: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, subject, tokenID string) error {
	if err := s.redisClient.Del(ctx, sessionKey(subject, tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to revoke session: %+v", err)
		return err
	}
	return nil
}

// RevokeAll drops every active session for a subject, for password changes or
// compromised accounts.
func (s *redisSessionStore) RevokeAll(ctx context.Context, subject string) error {
	pattern := fmt.Sprintf("%s:%s:*", sessionKeyPrefix, subject)
	keys, err := s.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		s.log.Warnf("Failed to list sessions for revocation: %+v", err)
		return err
	}
	if len(keys) > 0 {
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to revoke sessions: %+v", err)
			return err
		}
	}
	return nil
}

func sessionKey(subject, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", sessionKeyPrefix, subject, tokenID)
}
