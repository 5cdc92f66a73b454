package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// CacheModule provides the Redis cache as a mono module.
type CacheModule struct {
	cache     *Cache
	client    *redis.Client
	redisAddr string
	prefix    string
	ttl       time.Duration
}

// Compile-time interface checks.
var _ mono.Module = (*CacheModule)(nil)
var _ mono.HealthCheckableModule = (*CacheModule)(nil)

// NewModule creates a new CacheModule.
func NewModule(redisAddr, prefix string, ttl time.Duration) *CacheModule {
	return &CacheModule{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       ttl,
	}
}

// Name returns the module name.
func (m *CacheModule) Name() string {
	return "cache"
}

// Start connects to Redis and creates the cache.
func (m *CacheModule) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.cache = New(m.client, m.prefix, m.ttl)
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *CacheModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *CacheModule) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "cache not initialized",
		}
	}

	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.GetStats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis":  m.redisAddr,
			"hits":   stats.Hits,
			"misses": stats.Misses,
		},
	}
}

// GetCache returns the cache instance.
func (m *CacheModule) GetCache() *Cache {
	return m.cache
}
