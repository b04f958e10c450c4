package redisconnector

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/crgw/redis-connector/internal/config"
	"bitbucket.org/crgw/redis-connector/internal/telemetry"
	"bitbucket.org/crgw/redis-connector/internal/tools/slowlog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type GoRedisDialer struct {
	log          *zerolog.Logger
	telemetry    telemetry.Collector
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	// replaced in tests
	newClient func(opt *redis.Options) *redis.Client
}

func NewGoRedisDialer(log *zerolog.Logger, collector telemetry.Collector, settings config.Redis) *GoRedisDialer {
	if collector == nil {
		collector = telemetry.Noop()
	}

	dialerLog := log.With().Str("label", "redis").Logger()

	return &GoRedisDialer{
		log:          &dialerLog,
		telemetry:    collector,
		dialTimeout:  settings.DialTimeout,
		readTimeout:  settings.ReadTimeout,
		writeTimeout: settings.WriteTimeout,
		newClient:    redis.NewClient,
	}
}

func (d *GoRedisDialer) Dial(direction Direction, connectionString string) (Connection, error) {
	opt, err := parseConnectionString(connectionString)
	if err != nil {
		d.log.Err(err).Str("direction", string(direction)).Msg("Invalid redis connection string")
		return nil, err
	}

	if d.dialTimeout > 0 {
		opt.DialTimeout = d.dialTimeout
	}
	if d.readTimeout > 0 {
		opt.ReadTimeout = d.readTimeout
	}
	if d.writeTimeout > 0 {
		opt.WriteTimeout = d.writeTimeout
	}

	log := d.log.With().
		Str("direction", string(direction)).
		Str("addr", opt.Addr).
		Logger()
	slowLog := slowlog.CreateLogger(&log)

	breakpoint := "redis:connect:" + string(direction)
	slowLog.Start(breakpoint)

	client := d.newClient(opt)
	err = client.Ping(context.Background()).Err()
	duration := slowLog.Stop(breakpoint)

	d.telemetry.ObserveConnect(string(direction), duration, err)

	if err != nil {
		_ = client.Close()
		log.Err(err).Msg("Unable to connect to redis")
		return nil, err
	}

	log.Info().Msg("Connected to redis")

	return &goRedisConnection{
		client: client,
		addr:   opt.Addr,
	}, nil
}

func parseConnectionString(connectionString string) (*redis.Options, error) {
	connectionString = strings.TrimSpace(connectionString)
	if !strings.Contains(connectionString, "://") {
		if strings.Contains(connectionString, ",") {
			return nil, ErrOptionList
		}
		connectionString = "redis://" + connectionString
	}

	return redis.ParseURL(connectionString)
}

type goRedisConnection struct {
	client *redis.Client
	addr   string
}

func (c *goRedisConnection) Database() DatabaseHandle {
	return c.client
}

func (c *goRedisConnection) Endpoints() []string {
	return []string{c.addr}
}

func (c *goRedisConnection) Server(endpoint string) (ServerHandle, error) {
	if endpoint != c.addr {
		return nil, ErrUnknownEndpoint
	}

	return newServer(c.client, endpoint), nil
}

func (c *goRedisConnection) Close() error {
	return c.client.Close()
}
