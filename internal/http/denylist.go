package http

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Happday-bot/intellexa-user/internal/crypto"
)

const denylistKeyPrefix = "refresh_denylist:"

// Denylist records rotated-out refresh tokens until their natural expiry.
type Denylist interface {
	Add(ctx context.Context, token string, expiresAt time.Time)
	Contains(ctx context.Context, token string) bool
}

type redisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist backs the rotation guard with redis. Tokens are keyed
// by sha256 hash with a TTL equal to their remaining life. Redis errors
// log and fail open so a guard outage never locks out refresh.
func NewRedisDenylist(client *redis.Client) Denylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Add(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	key := denylistKeyPrefix + crypto.HashToken(token)
	if err := d.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		log.Printf("refresh denylist write failed: %v", err)
	}
}

func (d *redisDenylist) Contains(ctx context.Context, token string) bool {
	key := denylistKeyPrefix + crypto.HashToken(token)
	exists, err := d.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("refresh denylist read failed: %v", err)
		return false
	}
	return exists > 0
}
