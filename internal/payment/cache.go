package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache remembers which order a verified session produced, so a
// redelivered confirmation resolves without touching the database.
type SessionCache interface {
	GetOrderID(ctx context.Context, sessionID string) (string, error)
	SetOrderID(ctx context.Context, sessionID, orderID string) error
}

type redisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionCache(addr string) SessionCache {
	return &redisSessionCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    24 * time.Hour,
	}
}

func (c *redisSessionCache) GetOrderID(ctx context.Context, sessionID string) (string, error) {
	val, err := c.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisSessionCache) SetOrderID(ctx context.Context, sessionID, orderID string) error {
	return c.client.Set(ctx, sessionKey(sessionID), orderID, c.ttl).Err()
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("payment:session:%s", sessionID)
}
