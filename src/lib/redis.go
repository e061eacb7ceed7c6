package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

const availabilityCacheTTL = 30 * time.Second

func availabilityKey(ticketTypeID uint) string {
	return fmt.Sprintf("availability:%d", ticketTypeID)
}

// CacheAvailability stores an availability snapshot for the browse pages.
// The cache is advisory only; the ledger stays authoritative and every
// mutation path invalidates the snapshot.
func CacheAvailability(ticketTypeID uint, available int64) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	payload := fmt.Sprintf(`{"available":%d,"cached_at":%d}`, available, time.Now().Unix())
	if err := rd.Set(context.Background(), availabilityKey(ticketTypeID), payload, availabilityCacheTTL).Err(); err != nil {
		log.Printf("[redis] Failed to cache availability for ticket type [%d]: %s\n", ticketTypeID, err.Error())
	}
}

// CachedAvailability returns a cached snapshot, if one exists.
func CachedAvailability(ticketTypeID uint) (int64, bool) {
	rd := GetRedisClient()
	if rd == nil {
		return 0, false
	}
	val, err := rd.Get(context.Background(), availabilityKey(ticketTypeID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[redis] Error reading availability cache: %s\n", err.Error())
		}
		return 0, false
	}
	if !gjson.Valid(val) {
		return 0, false
	}
	avail := gjson.Get(val, "available")
	if !avail.Exists() {
		return 0, false
	}
	return avail.Int(), true
}

// InvalidateAvailability drops cached snapshots after a ledger mutation.
func InvalidateAvailability(ticketTypeIDs ...uint) {
	rd := GetRedisClient()
	if rd == nil || len(ticketTypeIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(ticketTypeIDs))
	for _, id := range ticketTypeIDs {
		keys = append(keys, availabilityKey(id))
	}
	if err := rd.Del(context.Background(), keys...).Err(); err != nil {
		log.Printf("[redis] Error invalidating availability cache: %s\n", err.Error())
	}
}
