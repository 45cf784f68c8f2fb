package session

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by KV implementations for a missing key.
var ErrNotFound = errors.New("key not found")

// KV is the key-value store the session record is persisted to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RedisKV stores values in Redis without expiry.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps a Redis client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (k *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (k *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return k.client.Set(ctx, key, value, 0).Err()
}

func (k *RedisKV) Delete(ctx context.Context, key string) error {
	return k.client.Del(ctx, key).Err()
}

type memoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV builds a process-local KV, used when Redis is not configured.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (k *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	val, ok := k.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (k *memoryKV) Set(_ context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = append([]byte(nil), value...)
	return nil
}

func (k *memoryKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, key)
	return nil
}
