package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"imovelhub/config"
)

// RDB is nil when Redis is disabled; cache helpers degrade to misses.
var RDB *redis.Client

// ErrCacheMiss is returned when a key is absent or caching is disabled.
var ErrCacheMiss = errors.New("cache miss")

const (
	FeaturedCacheKey = "properties:featured"
	CarouselCacheKey = "properties:carousel"
	FeaturedCacheTTL = 5 * time.Minute
)

// InitRedis connects the cache client when enabled in config.
func InitRedis() error {
	if !config.AppConfig.Redis.Enabled {
		return nil
	}
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.Redis.Address,
		Password: config.AppConfig.Redis.Password,
		DB:       config.AppConfig.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return RDB.Ping(ctx).Err()
}

// CacheGetJSON loads a cached value into dest.
func CacheGetJSON(ctx context.Context, key string, dest interface{}) error {
	if RDB == nil {
		return ErrCacheMiss
	}
	raw, err := RDB.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// CacheSetJSON stores a value under key with a TTL. Failures are not
// fatal to the caller; the database remains the source of truth.
func CacheSetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, key, raw, ttl).Err()
}

// CacheInvalidate drops keys after a write touching cached data.
func CacheInvalidate(ctx context.Context, keys ...string) {
	if RDB == nil || len(keys) == 0 {
		return
	}
	if err := RDB.Del(ctx, keys...).Err(); err != nil {
		LogError("cache_invalidate", err, map[string]interface{}{"keys": keys})
	}
}
