package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bhanuc/analysiscache/fingerprint"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// prefix string for all the redis keys this store uses
var redisKeyPrefix string = "analysiscache/"

// RedisStore is a durable remote backend using redis.
//
// No in-process tier is layered on top: namespace-wide invalidation has to
// observe every key, and a local cache cannot be purged by prefix.
type RedisStore struct {
	rdb  *redis.Client
	data *cache.Cache
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to redis and returns a store backed by it.
//
// `redisURL` contains all the redis connection config options.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("could not configure redis analysis cache: %w", err)
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis analysis cache: %w", err)
	}
	data := cache.New(&cache.Options{
		Redis: rdb,
	})
	return &RedisStore{rdb: rdb, data: data}, nil
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	var e Entry
	err := s.data.Get(ctx, redisKey(key), &e)
	if err == cache.ErrCacheMiss {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// redis expires entries itself, but clocks can disagree
	if e.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *RedisStore) Put(ctx context.Context, entry *Entry) error {
	var ttl time.Duration
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	return s.data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   redisKey(entry.Key),
		Value: entry,
		TTL:   ttl,
	})
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := s.data.Delete(ctx, redisKey(key))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}

func (s *RedisStore) DeleteNamespace(ctx context.Context, namespace string) error {
	match := redisKeyPrefix + fingerprint.NamespacePrefix(namespace) + "*"
	iter := s.rdb.Scan(ctx, 0, match, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}
