package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sketchgraph:session:"

// RedisConfig holds connection settings for the Redis session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore is a Redis-backed session store for multi-instance
// deployments. Expiration is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and returns a session store.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	// Key TTL and ExpiresAt can drift if the clock moved; trust the
	// session's own timestamp.
	if sess.IsExpired() {
		s.client.Del(ctx, redisKey(sessionID))
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	if err := s.client.Set(ctx, redisKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup is a no-op: Redis expires session keys itself.
func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
