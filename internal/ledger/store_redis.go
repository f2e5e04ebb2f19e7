package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"formledger/pkg/platform/sentinel"
)

// redisKeyPrefix namespaces ledger records within a shared redis instance.
const redisKeyPrefix = "formledger:record:"

// RedisStore persists records in Redis. SETNX carries the insert-if-absent
// guarantee; records never expire because approvals are never deleted.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, addr Address, payload []byte) error {
	ok, err := s.client.SetNX(ctx, redisKey(addr), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, addr Address) ([]byte, error) {
	payload, err := s.client.Get(ctx, redisKey(addr)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return payload, nil
}

func (s *RedisStore) Put(ctx context.Context, addr Address, payload []byte) error {
	// SET XX only succeeds when the key exists, matching the Put contract.
	ok, err := s.client.SetXX(ctx, redisKey(addr), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	if !ok {
		return sentinel.ErrNotFound
	}
	return nil
}

func redisKey(addr Address) string {
	return redisKeyPrefix + addr.String()
}
