package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blog:session:"

// SessionStore keeps one Redis hash per issued session token.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(sid string) string { return keyPrefix + sid }

// Create records sid as belonging to userID. ttl <= 0 keeps the record until Delete.
func (s *SessionStore) Create(ctx context.Context, sid, userID string, ttl time.Duration) error {
	key := sessionKey(sid)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    userID,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// Lookup returns the user id bound to sid; ok is false when the session is gone.
func (s *SessionStore) Lookup(ctx context.Context, sid string) (string, bool, error) {
	uid, err := s.rdb.HGet(ctx, sessionKey(sid), "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return uid, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}
