package caching

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	handles Handles
}

func (c *redisCache) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	db, err := c.handles.WriteDatabase()
	if err != nil {
		return err
	}

	return db.SetEx(ctx, key, value, ttl).Err()
}

func (c *redisCache) Fetch(ctx context.Context, key string) ([]byte, error) {
	db, err := c.handles.ReadDatabase()
	if err != nil {
		return nil, err
	}

	value, err := db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return value, nil
}
