package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/goremit/internal/usecase"
)

// FriendCache caches friend lookups of a RelationshipOracle in Redis for a
// short TTL.
type FriendCache struct {
	client redis.UniversalClient
	next   usecase.RelationshipOracle
	prefix string
	ttl    time.Duration
}

// NewFriendCache wraps next with a Redis cache.
func NewFriendCache(client redis.UniversalClient, next usecase.RelationshipOracle, ttl time.Duration) *FriendCache {
	return &FriendCache{
		client: client,
		next:   next,
		prefix: "cache:friends:",
		ttl:    ttl,
	}
}

// Exists answers from the cache when possible. Cache failures fall through
// to the wrapped oracle.
func (c *FriendCache) Exists(ctx context.Context, userA, userB string) (bool, error) {
	key := c.prefix + userA + ":" + userB

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return cached == "1", nil
	}

	ok, err := c.next.Exists(ctx, userA, userB)
	if err != nil {
		return false, err
	}

	value := "0"
	if ok {
		value = "1"
	}
	_ = c.client.Set(ctx, key, value, c.ttl).Err()

	return ok, nil
}

// Invalidate drops the cached fact for the pair in both directions.
func (c *FriendCache) Invalidate(ctx context.Context, userA, userB string) error {
	err := c.client.Del(ctx, c.prefix+userA+":"+userB, c.prefix+userB+":"+userA).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
