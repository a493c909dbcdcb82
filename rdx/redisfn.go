package rdx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client and verifies it with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	log.Printf("Redis connected (%s)", addr)
	return conn, nil
}

// Cache is a string cache over Redis. A miss or any Redis failure reads as a
// miss; write failures are logged and ignored.
type Cache struct {
	conn   *redis.Client
	prefix string
}

func NewCache(conn *redis.Client, prefix string) *Cache {
	return &Cache{conn: conn, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.conn == nil {
		return "", false
	}
	val, err := c.conn.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Printf("[rdx.Get] %s: %v", key, err)
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil || c.conn == nil {
		return
	}
	if err := c.conn.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		log.Printf("[rdx.Set] %s: %v", key, err)
	}
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil || c.conn == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.conn.Del(ctx, full...).Err(); err != nil {
		log.Printf("[rdx.Del] %v: %v", keys, err)
	}
}
