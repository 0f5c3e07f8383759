package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/EdmundsEcho/data-join-oauth/pkg/redis"
)

// RedisKeyPrefix scopes flow records in a shared Redis database.
const RedisKeyPrefix = "flow:"

// putAttempts bounds key generation when SET NX reports a taken key.
const putAttempts = 3

// RedisStore keeps records in Redis as JSON with a native TTL, so abandoned
// flows expire without a sweeper.
type RedisStore struct {
	storage *redis.Storage
}

// NewRedisStore wraps client.
func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{storage: redis.NewStorage(client, RedisKeyPrefix)}
}

// Put stores rec under a fresh uuid key.
func (s *RedisStore) Put(ctx context.Context, rec Record, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidRecord
	}
	rec.Key = ""
	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Join(ErrInvalidRecord, err)
	}

	for range putAttempts {
		key := uuid.NewString()
		ok, err := s.storage.SetNX(ctx, key, data, ttl)
		if err != nil {
			return "", fmt.Errorf("redis set: %w", err)
		}
		if ok {
			return key, nil
		}
	}
	return "", ErrKeyCollision
}

// Get decodes the record stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}
	rec.Key = key
	return &rec, nil
}

// Delete removes the record.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
