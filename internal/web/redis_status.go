package web

import (
	"context"
	"net/http"
	"time"

	"bitbucket.org/crgw/redis-connector/internal/tools/lazy"
	"bitbucket.org/crgw/redis-connector/internal/tools/redisconnector"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const redisStatusTimeout = 2 * time.Second

// RedisServers is the part of the connector the status endpoint needs.
type RedisServers interface {
	ReadServer() (redisconnector.ServerHandle, error)
	WriteServer() (redisconnector.ServerHandle, error)
	State(direction redisconnector.Direction) lazy.State
}

type directionStatus struct {
	State    string  `json:"state"`
	Endpoint string  `json:"endpoint,omitempty"`
	Keys     int64   `json:"keys"`
	Latency  float64 `json:"latency"`
	Error    string  `json:"error,omitempty"`
}

type redisStatusResponse struct {
	Read  directionStatus `json:"read"`
	Write directionStatus `json:"write"`
}

// RedisStatus pings both directions through their server handles. Connections
// that are not established yet get dialed.
func RedisStatus(servers RedisServers) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := c.MustGet("logger").(*zerolog.Logger)

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisStatusTimeout)
		defer cancel()

		response := redisStatusResponse{
			Read:  checkDirection(ctx, servers, redisconnector.Read, servers.ReadServer),
			Write: checkDirection(ctx, servers, redisconnector.Write, servers.WriteServer),
		}

		code := http.StatusOK
		for direction, status := range map[redisconnector.Direction]directionStatus{
			redisconnector.Read:  response.Read,
			redisconnector.Write: response.Write,
		} {
			if status.Error == "" {
				continue
			}

			code = http.StatusServiceUnavailable
			logger.Warn().
				Str("label", "redis").
				Str("direction", string(direction)).
				Str("error", status.Error).
				Msg("Redis status check failed")
		}

		c.JSON(code, response)
	}
}

func checkDirection(
	ctx context.Context,
	servers RedisServers,
	direction redisconnector.Direction,
	resolve func() (redisconnector.ServerHandle, error),
) directionStatus {
	server, err := resolve()
	if err != nil {
		return directionStatus{
			State: servers.State(direction).String(),
			Error: err.Error(),
		}
	}

	status := directionStatus{
		State:    servers.State(direction).String(),
		Endpoint: server.Endpoint(),
	}

	start := time.Now()
	if err := server.Ping(ctx).Err(); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Latency = time.Since(start).Seconds()

	keys, err := server.DBSize(ctx).Result()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Keys = keys

	return status
}
