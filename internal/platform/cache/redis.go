package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and returns nil when the address is empty
// or the server is unreachable; callers degrade gracefully by skipping the
// cache.
func NewRedisClient(addr, password string, db int, log *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, availability cache disabled", zap.Error(err))
		return nil
	}
	return client
}

// AvailabilityCache memoizes availability lookups per car and date range.
// Entries carry a per-car generation number; invalidating a car bumps the
// generation, orphaning all its cached entries. Reads served from here are
// eventually consistent: creation always re-validates inside the database
// transaction.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache creates an AvailabilityCache. A nil client disables
// all operations.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *AvailabilityCache) generation(ctx context.Context, carID uuid.UUID) (int64, error) {
	return c.client.Get(ctx, "avail:gen:"+carID.String()).Int64()
}

func (c *AvailabilityCache) key(carID uuid.UUID, gen int64, start, end string) string {
	return fmt.Sprintf("avail:%s:%d:%s:%s", carID, gen, start, end)
}

// Get returns the cached availability verdict for the car and range, and
// whether a cache entry was found.
func (c *AvailabilityCache) Get(ctx context.Context, carID uuid.UUID, start, end string) (available, ok bool) {
	if !c.enabled() {
		return false, false
	}
	gen, err := c.generation(ctx, carID)
	if err != nil {
		if err != redis.Nil {
			return false, false
		}
		gen = 0
	}
	v, err := c.client.Get(ctx, c.key(carID, gen, start, end)).Result()
	if err != nil {
		return false, false
	}
	return v == "1", true
}

// Set stores an availability verdict with the cache TTL.
func (c *AvailabilityCache) Set(ctx context.Context, carID uuid.UUID, start, end string, available bool) {
	if !c.enabled() {
		return
	}
	gen, err := c.generation(ctx, carID)
	if err != nil {
		if err != redis.Nil {
			return
		}
		gen = 0
	}
	v := "0"
	if available {
		v = "1"
	}
	c.client.Set(ctx, c.key(carID, gen, start, end), v, c.ttl)
}

// Invalidate orphans all cached entries for the car by bumping its
// generation. Called after any booking write touching the car.
func (c *AvailabilityCache) Invalidate(ctx context.Context, carID uuid.UUID) {
	if !c.enabled() {
		return
	}
	c.client.Incr(ctx, "avail:gen:"+carID.String())
}
