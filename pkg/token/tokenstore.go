package tokenstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ChatBuddy/pkg/cache"
	"ChatBuddy/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers revoked token ids (jti) until the token would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevoker keeps revocations in process; they are lost on restart.
type MemoryRevoker struct {
	c *cache.Cache[struct{}]
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{c: cache.New[struct{}](100_000, time.Minute)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.c.Set(jti, struct{}{}, ttl)
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.c.Get(jti)
	return ok, nil
}

// RedisRevoker shares revocations between instances.
type RedisRevoker struct {
	client *redis.Client
	prefix string
}

func NewRedisRevoker(ctx context.Context, addr, password string) (*RedisRevoker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisRevoker{client: client, prefix: "chatbuddy:revoked:"}, nil
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.Set(ctx, r.prefix+jti, "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisRevoker) Close() error { return r.client.Close() }

var (
	mu    sync.RWMutex
	store Revoker
)

// Init selects Redis when REDIS_ADDR is configured, memory otherwise.
func Init(ctx context.Context) error {
	if config.RedisAddr == "" {
		Use(NewMemoryRevoker())
		return nil
	}
	r, err := NewRedisRevoker(ctx, config.RedisAddr, config.RedisPassword)
	if err != nil {
		return err
	}
	Use(r)
	return nil
}

// Use replaces the process-wide revocation store.
func Use(r Revoker) {
	mu.Lock()
	defer mu.Unlock()
	store = r
}

func current() Revoker {
	mu.RLock()
	r := store
	mu.RUnlock()
	if r != nil {
		return r
	}
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		store = NewMemoryRevoker()
	}
	return store
}

func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	return current().Revoke(ctx, jti, ttl)
}

// IsRevoked fails closed: a store error counts as revoked.
func IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	revoked, err := current().IsRevoked(ctx, jti)
	if err != nil {
		slog.Error("revocation lookup failed", "error", err)
		return true
	}
	return revoked
}
