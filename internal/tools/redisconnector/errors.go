package redisconnector

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClosed          = errors.New("redis connector closed")
	ErrUnknownEndpoint = errors.New("endpoint not known to connection")
	// ErrOptionList rejects host:port,key=value strings; options go in the URL query.
	ErrOptionList = errors.New("comma separated connection options are not supported, use a redis:// URL")
)

// ConfigurationError is returned by New when connection strings are missing.
// Fields lists the names of every missing setting.
type ConfigurationError struct {
	Fields []string
}

func (e *ConfigurationError) Error() string {
	return "invalid redis configuration, missing: " + strings.Join(e.Fields, ", ")
}

type ConnectionError struct {
	Direction Direction
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("redis %s connection failed: %v", e.Direction, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TopologyError means the connection knows no endpoint to bind a server handle to.
type TopologyError struct {
	Direction Direction
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("redis %s connection reports no endpoints", e.Direction)
}
