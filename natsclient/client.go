// Package natsclient manages the NATS connection used to carry encoded
// diagnostics snapshots off the pipeline host. It wraps nats.go with
// status tracking and graceful drain so exporters do not deal with raw
// connection state.
package natsclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/streamkit/errors"
)

// ConnectionStatus represents the state of the NATS connection
type ConnectionStatus int

// Possible connection statuses
const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusClosed
)

// String returns the string representation of ConnectionStatus
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client manages a single NATS connection for diagnostics transport
type Client struct {
	url    string
	logger *slog.Logger

	clientName    string
	timeout       time.Duration
	drainTimeout  time.Duration
	maxReconnects int
	reconnectWait time.Duration
	username      string
	password      string
	token         string

	mu     sync.RWMutex
	conn   *nats.Conn
	status ConnectionStatus
}

// NewClient creates a new NATS client with optional configuration
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Client", "NewClient", "url is required")
	}

	c := &Client{
		url:           url,
		logger:        slog.Default(),
		clientName:    "streamkit",
		timeout:       5 * time.Second,
		drainTimeout:  10 * time.Second,
		maxReconnects: -1,
		reconnectWait: 2 * time.Second,
		status:        StatusDisconnected,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapInvalid(err, "Client", "NewClient", "apply option")
		}
	}

	return c, nil
}

// URL returns the NATS server URL
func (c *Client) URL() string {
	return c.url
}

// Status returns the current connection status
func (c *Client) Status() ConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// IsHealthy returns true if the connection is established
func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

func (c *Client) setStatus(status ConnectionStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *Client) buildConnectionOptions() []nats.Option {
	opts := []nats.Option{
		nats.Name(c.clientName),
		nats.Timeout(c.timeout),
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.DrainTimeout(c.drainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.setStatus(StatusDisconnected)
			c.logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.setStatus(StatusConnected)
			c.logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			c.setStatus(StatusClosed)
			c.logger.Info("NATS connection closed")
		}),
	}

	if c.username != "" {
		opts = append(opts, nats.UserInfo(c.username, c.password))
	}
	if c.token != "" {
		opts = append(opts, nats.Token(c.token))
	}

	return opts
}

// Connect establishes the connection to the NATS server
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil && c.conn.IsConnected() {
		c.mu.Unlock()
		return nil
	}
	c.status = StatusConnecting
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		c.setStatus(StatusDisconnected)
		return errors.WrapTransient(err, "Client", "Connect", "context check")
	}

	conn, err := nats.Connect(c.url, c.buildConnectionOptions()...)
	if err != nil {
		c.setStatus(StatusDisconnected)
		return errors.WrapTransient(err, "Client", "Connect", "dial")
	}

	c.mu.Lock()
	c.conn = conn
	c.status = StatusConnected
	c.mu.Unlock()

	c.logger.Info("NATS connected", "url", conn.ConnectedUrl(), "client_name", c.clientName)
	return nil
}

// Publish publishes a message to a NATS subject
func (c *Client) Publish(_ context.Context, subject string, data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errors.WrapTransient(errors.ErrNoConnection, "Client", "Publish", "connection check")
	}
	if err := conn.Publish(subject, data); err != nil {
		return errors.WrapTransient(err, "Client", "Publish", "publish to "+subject)
	}
	return nil
}

// Subscribe subscribes to a NATS subject. The handler receives a context
// derived from the parent so processing stops when it is cancelled.
func (c *Client) Subscribe(ctx context.Context, subject string, handler func(context.Context, []byte)) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errors.WrapTransient(errors.ErrNoConnection, "Client", "Subscribe", "connection check")
	}

	_, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		handler(ctx, msg.Data)
	})
	if err != nil {
		return errors.WrapTransient(err, "Client", "Subscribe", "subscribe to "+subject)
	}
	return nil
}

// SetConnection sets the NATS connection (for testing)
func (c *Client) SetConnection(conn *nats.Conn) {
	c.mu.Lock()
	c.conn = conn
	if conn != nil {
		c.status = StatusConnected
	}
	c.mu.Unlock()
}

// Close drains and closes the NATS connection
func (c *Client) Close(_ context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	// Drain flushes pending publishes before closing; fall back to a hard
	// close if draining fails.
	if err := conn.Drain(); err != nil {
		c.logger.Warn("NATS drain failed, closing hard", "error", err)
		conn.Close()
	}

	c.setStatus(StatusClosed)
	return nil
}
