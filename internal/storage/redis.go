// Package storage backs fiber middleware state (the login limiter) with Redis so
// counters are shared across instances.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "storefront:"

// Redis implements fiber.Storage.
type Redis struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedis parses url (redis://host:port/db), checks the connection and
// prefixes every key with prefix.
func NewRedis(url, prefix string) (*Redis, error) {
	if url == "" {
		return nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Redis{client: client, prefix: prefix, timeout: 3 * time.Second}, nil
}

func (r *Redis) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Get returns nil, nil for a missing key, as fiber.Storage requires.
func (r *Redis) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := r.ctx()
	defer cancel()
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val; exp of zero means no expiry.
func (r *Redis) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, val, exp).Err()
}

func (r *Redis) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Reset deletes every key under the prefix using SCAN, never KEYS.
func (r *Redis) Reset() error {
	ctx := context.Background()
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

func (r *Redis) Close() error { return r.client.Close() }
