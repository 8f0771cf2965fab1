package custody

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimKeyPrefix = "custody:claim:"

// RedisClaimer coordinates claims across processes with SET NX and a TTL,
// so a crashed pipeline cannot pin its record forever.
type RedisClaimer struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClaimer(client *redis.Client, ttl time.Duration) *RedisClaimer {
	return &RedisClaimer{client: client, ttl: ttl}
}

func (c *RedisClaimer) Acquire(ctx context.Context, recordID string) (bool, error) {
	acquired, err := c.client.SetNX(ctx, claimKeyPrefix+recordID, "1", c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync claim: %w", err)
	}
	return acquired, nil
}

func (c *RedisClaimer) Release(ctx context.Context, recordID string) error {
	if err := c.client.Del(ctx, claimKeyPrefix+recordID).Err(); err != nil {
		return fmt.Errorf("release sync claim: %w", err)
	}
	return nil
}
