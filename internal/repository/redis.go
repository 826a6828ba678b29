package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection with a PING.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// RedisSlotRepository keeps each slot as a plain Redis string without expiry.
type RedisSlotRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSlotRepository returns a repository storing slots under prefix+key.
func NewRedisSlotRepository(client *redis.Client, prefix string) *RedisSlotRepository {
	return &RedisSlotRepository{client: client, prefix: prefix}
}

// Get retrieves the value stored under key; a missing key is not an error.
func (r *RedisSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot: %w", err)
	}
	return v, true, nil
}

// Set stores value under key.
func (r *RedisSlotRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}
