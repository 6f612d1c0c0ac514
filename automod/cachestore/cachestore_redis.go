package cachestore

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// Redis-backed cache with a small local LFU in front, so that several batch runs (or processes) can share lookups.
type RedisCacheStore struct {
	Data   *cache.Cache
	TTL    time.Duration
	Prefix string
}

var _ CacheStore = (*RedisCacheStore)(nil)

func NewRedisCacheStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCacheStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return NewRedisCacheStoreFromClient(rdb, ttl), nil
}

func NewRedisCacheStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisCacheStore {
	data := cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(10_000, ttl),
	})
	return &RedisCacheStore{
		Data:   data,
		TTL:    ttl,
		Prefix: "trusty",
	}
}

func (s *RedisCacheStore) cacheKey(name, key string) string {
	return s.Prefix + "/cache/" + name + "/" + key
}

func (s *RedisCacheStore) Get(ctx context.Context, name, key string) (string, bool, error) {
	var val string
	err := s.Data.Get(ctx, s.cacheKey(name, key), &val)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, name, key string, val string) error {
	return s.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   s.cacheKey(name, key),
		Value: val,
		TTL:   s.TTL,
	})
}

func (s *RedisCacheStore) Purge(ctx context.Context, name, key string) error {
	err := s.Data.Delete(ctx, s.cacheKey(name, key))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
