package app

import (
	"strings"
	"time"

	"github.com/trackit-app/trackit/internal/cache"
)

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
		Prefix:   strings.TrimSpace(c.Namespace),
	}
}

// TTLPolicy derives the per-query-type TTL policy, falling back to the default TTL.
func (c CacheConfig) TTLPolicy() cache.TTLPolicy {
	policy := cache.TTLPolicy{
		Default: c.DefaultTTL,
		Item:    c.ItemTTL,
		List:    c.ListTTL,
		Search:  c.SearchTTL,
	}
	if policy.Default <= 0 {
		policy.Default = 5 * time.Minute
	}
	if policy.Item <= 0 {
		policy.Item = policy.Default
	}
	if policy.List <= 0 {
		policy.List = policy.Default
	}
	if policy.Search <= 0 {
		policy.Search = policy.Default
	}
	return policy
}
