package lib

import (
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	NewRedisClient(client)
	t.Cleanup(func() { NewRedisClient(nil) })

	mock.Regexp().
		ExpectSet("availability:7", `\{"available":3,"cached_at":\d+\}`, availabilityCacheTTL).
		SetVal("OK")
	CacheAvailability(7, 3)

	mock.ExpectGet("availability:7").SetVal(`{"available":3,"cached_at":1735689600}`)
	got, ok := CachedAvailability(7)
	require.True(t, ok)
	assert.Equal(t, int64(3), got)

	// A cache miss is not an error, just a recount for the caller.
	mock.ExpectGet("availability:8").RedisNil()
	_, ok = CachedAvailability(8)
	assert.False(t, ok)

	// Garbage in the cache is treated as a miss.
	mock.ExpectGet("availability:9").SetVal("not-json")
	_, ok = CachedAvailability(9)
	assert.False(t, ok)

	mock.ExpectDel("availability:7").SetVal(1)
	InvalidateAvailability(7)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCacheWithoutClient(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	NewRedisClient(nil)

	// With no redis configured every cache call is a quiet no-op.
	CacheAvailability(1, 5)
	_, ok := CachedAvailability(1)
	assert.False(t, ok)
	InvalidateAvailability(1)
}
