package config

import (
	"os"
	"time"
)

const (
	DefaultDialTimeout  = 4 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
)

// Environment variables read by EnvProvider
const (
	ReadConnectionEnv  = "REDIS_READ_CONNECTION"
	WriteConnectionEnv = "REDIS_WRITE_CONNECTION"
	DialTimeoutEnv     = "REDIS_DIAL_TIMEOUT"
	ReadTimeoutEnv     = "REDIS_READ_TIMEOUT"
	WriteTimeoutEnv    = "REDIS_WRITE_TIMEOUT"
)

// Redis is a snapshot of the redis settings. Connection strings are either
// redis:// / rediss:// URLs or a bare host:port.
type Redis struct {
	ReadConnection  string
	WriteConnection string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Provider interface {
	Current() Redis
}

// EnvProvider reads the environment on every Current call.
type EnvProvider struct{}

func (EnvProvider) Current() Redis {
	return Redis{
		ReadConnection:  os.Getenv(ReadConnectionEnv),
		WriteConnection: os.Getenv(WriteConnectionEnv),
		DialTimeout:     durationFromEnv(DialTimeoutEnv, DefaultDialTimeout),
		ReadTimeout:     durationFromEnv(ReadTimeoutEnv, DefaultReadTimeout),
		WriteTimeout:    durationFromEnv(WriteTimeoutEnv, DefaultWriteTimeout),
	}
}

type Static Redis

func (s Static) Current() Redis {
	return Redis(s)
}

func durationFromEnv(name string, fallback time.Duration) time.Duration {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}

	return duration
}
