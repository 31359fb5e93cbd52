// Package redisstore keeps per-identity claim records in Redis. The
// records back up claim attribution for backends that strip recipient
// identity from listing reads.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 30 * 24 * time.Hour

// ClaimRecords stores claimed listing ids as one Redis set per
// identity. Keys expire after the TTL so abandoned accounts do not
// accumulate state forever.
type ClaimRecords struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClaimRecords(client *redis.Client, ttl time.Duration) *ClaimRecords {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ClaimRecords{client: client, ttl: ttl}
}

func claimKey(identityID string) string {
	return "claimed_listings:" + identityID
}

func (c *ClaimRecords) Add(ctx context.Context, identityID, listingID string) error {
	key := claimKey(identityID)

	if err := c.client.SAdd(ctx, key, listingID).Err(); err != nil {
		return fmt.Errorf("add claim record %s/%s: %w", identityID, listingID, err)
	}
	if err := c.client.Expire(ctx, key, c.ttl).Err(); err != nil {
		return fmt.Errorf("refresh claim record ttl %s: %w", identityID, err)
	}
	return nil
}

func (c *ClaimRecords) Has(ctx context.Context, identityID, listingID string) (bool, error) {
	ok, err := c.client.SIsMember(ctx, claimKey(identityID), listingID).Result()
	if err != nil {
		return false, fmt.Errorf("check claim record %s/%s: %w", identityID, listingID, err)
	}
	return ok, nil
}
