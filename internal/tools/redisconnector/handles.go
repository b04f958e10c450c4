package redisconnector

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Direction string

const (
	Read  Direction = "read"
	Write Direction = "write"
)

// DatabaseHandle issues key/value commands over one established connection.
type DatabaseHandle interface {
	redis.Cmdable
}

// Admin is the set of server introspection commands a ServerHandle exposes.
// *redis.Client satisfies it.
type Admin interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Info(ctx context.Context, section ...string) *redis.StringCmd
	DBSize(ctx context.Context) *redis.IntCmd
	ConfigGet(ctx context.Context, parameter string) *redis.MapStringStringCmd
	ClientList(ctx context.Context) *redis.StringCmd
	Time(ctx context.Context) *redis.TimeCmd
	LastSave(ctx context.Context) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	FlushDB(ctx context.Context) *redis.StatusCmd
}

// ServerHandle issues administrative commands against a single endpoint.
type ServerHandle interface {
	Admin
	Endpoint() string
}

// Connection is one physical connection to a redis deployment.
type Connection interface {
	Database() DatabaseHandle
	Endpoints() []string
	Server(endpoint string) (ServerHandle, error)
	Close() error
}

// Dialer establishes a Connection. Dial blocks until the connection is usable
// or fails.
type Dialer interface {
	Dial(direction Direction, connectionString string) (Connection, error)
}

type server struct {
	Admin
	endpoint string
}

func (s *server) Endpoint() string {
	return s.endpoint
}

func newServer(admin Admin, endpoint string) ServerHandle {
	return &server{
		Admin:    admin,
		endpoint: endpoint,
	}
}
