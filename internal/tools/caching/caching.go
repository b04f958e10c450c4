package caching

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/crgw/redis-connector/internal/tools/redisconnector"
)

type Engine interface {
	Store(ctx context.Context, key string, value any, ttl time.Duration) error
	// Fetch returns nil bytes and no error on a miss.
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Handles is the part of the connector the cache needs.
type Handles interface {
	ReadDatabase() (redisconnector.DatabaseHandle, error)
	WriteDatabase() (redisconnector.DatabaseHandle, error)
}

// Cacher stores deflated JSON. Writes go to the write connection and reads
// to the read connection.
type Cacher struct {
	engine Engine
}

func NewRedisCache(handles Handles) *Cacher {
	return &Cacher{
		engine: &redisCache{
			handles: handles,
		},
	}
}

func deflate(uncompressed []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := flate.NewWriter(&buffer, flate.BestSpeed)

	_, err := writer.Write(uncompressed)
	if err != nil {
		return nil, err
	}

	err = writer.Close()
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	buffer := bytes.NewReader(compressed)
	reader := flate.NewReader(buffer)
	defer reader.Close()

	var out bytes.Buffer
	_, err := out.ReadFrom(reader)
	if err != nil {
		return []byte{}, err
	}

	return out.Bytes(), nil
}

func (c *Cacher) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	compressed, err := deflate(bytes)
	if err != nil {
		return err
	}

	return c.engine.Store(ctx, key, compressed, ttl)
}

// Fetch decodes the cached value into destination. It reports false on a
// miss; err is only set when the store or the payload is broken.
func (c *Cacher) Fetch(ctx context.Context, key string, destination any) (bool, error) {
	value, err := c.engine.Fetch(ctx, key)
	if err != nil {
		return false, err
	}

	if value == nil {
		return false, nil
	}

	uncompressed, err := inflate(value)
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(uncompressed, destination); err != nil {
		return false, err
	}

	return true, nil
}
