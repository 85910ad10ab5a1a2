package maps

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"taxiwatch/internal/types"
)

type countingGeocoder struct {
	resolves atomic.Int32
	reverses atomic.Int32
	point    types.Point
	err      error
}

func (c *countingGeocoder) Resolve(_ context.Context, _ string) (types.Point, error) {
	c.resolves.Add(1)
	return c.point, c.err
}

func (c *countingGeocoder) ReverseResolve(_ context.Context, _ types.Point) (string, error) {
	c.reverses.Add(1)
	return "cached street", c.err
}

func TestNewCachedGeocoder_NilRedisPassesThrough(t *testing.T) {
	inner := &countingGeocoder{}
	require.Same(t, Geocoder(inner), NewCachedGeocoder(inner, nil))
}

func TestForwardKeyNormalizesWhitespaceAndCase(t *testing.T) {
	require.Equal(t, forwardKey("  Тверская   УЛИЦА 1 "), forwardKey("тверская улица 1"))
}

func TestCachedGeocoder_Redis(t *testing.T) {
	redisAddr := os.Getenv("TAXIWATCH_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("TAXIWATCH_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	ctx := context.Background()
	inner := &countingGeocoder{point: types.Point{Lon: 37.5, Lat: 55.5}}
	g := NewCachedGeocoder(inner, rdb)

	address := fmt.Sprintf("test address %d", time.Now().UnixNano())
	defer rdb.Del(ctx, forwardKey(address))

	for i := 0; i < 3; i++ {
		p, err := g.Resolve(ctx, address)
		require.NoError(t, err)
		require.Equal(t, inner.point, p)
	}
	require.EqualValues(t, 1, inner.resolves.Load())

	p := types.Point{Lon: float64(time.Now().UnixNano() % 1000), Lat: 1}
	defer rdb.Del(ctx, fmt.Sprintf(reverseKeyPrefix, p.String()))
	for i := 0; i < 2; i++ {
		got, err := g.ReverseResolve(ctx, p)
		require.NoError(t, err)
		require.Equal(t, "cached street", got)
	}
	require.EqualValues(t, 1, inner.reverses.Load())
}

func TestCachedGeocoder_DoesNotCacheNotFound(t *testing.T) {
	redisAddr := os.Getenv("TAXIWATCH_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("TAXIWATCH_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	inner := &countingGeocoder{err: types.ErrNotFound}
	g := NewCachedGeocoder(inner, rdb)
	address := fmt.Sprintf("missing %d", time.Now().UnixNano())

	for i := 0; i < 2; i++ {
		_, err := g.Resolve(context.Background(), address)
		require.ErrorIs(t, err, types.ErrNotFound)
	}
	require.EqualValues(t, 2, inner.resolves.Load())
}
