// README: Redis-backed cache in front of any Geocoder.
package maps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"taxiwatch/internal/types"
)

const (
	forwardKeyPrefix = "geocode:fwd:%s"
	reverseKeyPrefix = "geocode:rev:%s"
	cacheTTL         = 24 * time.Hour
)

// CachedGeocoder serves repeated lookups from Redis. Cache errors never fail
// a lookup; misses and Redis outages fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next  Geocoder
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedGeocoder returns next unchanged when rdb is nil.
func NewCachedGeocoder(next Geocoder, rdb *redis.Client) Geocoder {
	if rdb == nil {
		return next
	}
	return &CachedGeocoder{next: next, redis: rdb, ttl: cacheTTL}
}

func (c *CachedGeocoder) Resolve(ctx context.Context, address string) (types.Point, error) {
	key := forwardKey(address)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		if p, perr := parsePos(strings.Replace(val, ",", " ", 1)); perr == nil {
			return p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("geocode cache read failed", "key", key, "err", err)
	}

	p, err := c.next.Resolve(ctx, address)
	if err != nil {
		return p, err
	}
	if err := c.redis.Set(ctx, key, p.String(), c.ttl).Err(); err != nil {
		slog.Warn("geocode cache write failed", "key", key, "err", err)
	}
	return p, nil
}

func (c *CachedGeocoder) ReverseResolve(ctx context.Context, p types.Point) (string, error) {
	key := fmt.Sprintf(reverseKeyPrefix, p.String())
	if val, err := c.redis.Get(ctx, key).Result(); err == nil && val != "" {
		return val, nil
	} else if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("geocode cache read failed", "key", key, "err", err)
	}

	address, err := c.next.ReverseResolve(ctx, p)
	if err != nil {
		return "", err
	}
	if err := c.redis.Set(ctx, key, address, c.ttl).Err(); err != nil {
		slog.Warn("geocode cache write failed", "key", key, "err", err)
	}
	return address, nil
}

func forwardKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	return fmt.Sprintf(forwardKeyPrefix, normalized)
}
