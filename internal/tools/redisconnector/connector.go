package redisconnector

import (
	"errors"
	"strings"
	"sync"

	"bitbucket.org/crgw/redis-connector/internal/config"
	"bitbucket.org/crgw/redis-connector/internal/tools/lazy"
)

type Options struct {
	// FailurePolicy decides whether a failed connect is retried on the next
	// access or returned forever. Defaults to lazy.RetryOnFailure.
	FailurePolicy lazy.Policy
}

func WithFailurePolicy(policy lazy.Policy) func(*Options) {
	return func(o *Options) {
		o.FailurePolicy = policy
	}
}

// Connector keeps one read and one write connection. Neither is dialed until
// the first accessor call for its direction.
type Connector struct {
	readConnection  *lazy.Value[Connection]
	writeConnection *lazy.Value[Connection]

	// guards closed and live; a dial that finishes after Close
	// closes its own connection
	mu     sync.Mutex
	closed bool
	live   []Connection
}

// New validates the current configuration and prepares both connections
// without dialing.
func New(provider config.Provider, dialer Dialer, options ...func(*Options)) (*Connector, error) {
	current := provider.Current()

	var missing []string
	if strings.TrimSpace(current.ReadConnection) == "" {
		missing = append(missing, "ReadConnection")
	}
	if strings.TrimSpace(current.WriteConnection) == "" {
		missing = append(missing, "WriteConnection")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Fields: missing}
	}

	opts := &Options{FailurePolicy: lazy.RetryOnFailure}
	for _, option := range options {
		option(opts)
	}

	c := &Connector{}
	c.readConnection = c.deferredConnection(dialer, Read, current.ReadConnection, opts.FailurePolicy)
	c.writeConnection = c.deferredConnection(dialer, Write, current.WriteConnection, opts.FailurePolicy)

	return c, nil
}

func (c *Connector) deferredConnection(dialer Dialer, direction Direction, connectionString string, policy lazy.Policy) *lazy.Value[Connection] {
	return lazy.New(func() (Connection, error) {
		if c.isClosed() {
			return nil, ErrClosed
		}

		conn, err := dialer.Dial(direction, connectionString)
		if err != nil {
			return nil, &ConnectionError{Direction: direction, Err: err}
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return nil, ErrClosed
		}
		c.live = append(c.live, conn)
		c.mu.Unlock()

		return conn, nil
	}, policy)
}

func (c *Connector) ReadDatabase() (DatabaseHandle, error) {
	return c.database(Read)
}

func (c *Connector) WriteDatabase() (DatabaseHandle, error) {
	return c.database(Write)
}

// ReadServer returns a server handle bound to the first endpoint of the read connection.
func (c *Connector) ReadServer() (ServerHandle, error) {
	return c.server(Read)
}

// WriteServer returns a server handle bound to the first endpoint of the write connection.
func (c *Connector) WriteServer() (ServerHandle, error) {
	return c.server(Write)
}

// State reports the connection state of a direction without dialing.
func (c *Connector) State(direction Direction) lazy.State {
	return c.connection(direction).State()
}

// Close closes the connections that were established. Accessors return
// ErrClosed afterwards, and a connect still in flight closes the connection
// it produced.
func (c *Connector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	live := c.live
	c.live = nil
	c.mu.Unlock()

	var errs []error
	for _, conn := range live {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c *Connector) database(direction Direction) (DatabaseHandle, error) {
	conn, err := c.established(direction)
	if err != nil {
		return nil, err
	}

	return conn.Database(), nil
}

func (c *Connector) server(direction Direction) (ServerHandle, error) {
	conn, err := c.established(direction)
	if err != nil {
		return nil, err
	}

	endpoints := conn.Endpoints()
	if len(endpoints) == 0 {
		return nil, &TopologyError{Direction: direction}
	}

	return conn.Server(endpoints[0])
}

func (c *Connector) established(direction Direction) (Connection, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	conn, err := c.connection(direction).Get()
	if err != nil {
		return nil, err
	}

	if c.isClosed() {
		return nil, ErrClosed
	}

	return conn, nil
}

func (c *Connector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *Connector) connection(direction Direction) *lazy.Value[Connection] {
	if direction == Write {
		return c.writeConnection
	}

	return c.readConnection
}
