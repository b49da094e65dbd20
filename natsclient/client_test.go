package natsclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/errors"
)

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	assert.Equal(t, "nats://localhost:4222", c.URL())
	assert.Equal(t, StatusDisconnected, c.Status())
	assert.False(t, c.IsHealthy())
	assert.Equal(t, "streamkit", c.clientName)
	assert.Equal(t, -1, c.maxReconnects)
}

func TestClientOptions(t *testing.T) {
	c, err := NewClient("nats://localhost:4222",
		WithName("diag-exporter"),
		WithTimeout(2*time.Second),
		WithMaxReconnects(10),
		WithReconnectWait(500*time.Millisecond),
		WithCredentials("user", "pass"),
	)
	require.NoError(t, err)

	assert.Equal(t, "diag-exporter", c.clientName)
	assert.Equal(t, 2*time.Second, c.timeout)
	assert.Equal(t, 10, c.maxReconnects)
	assert.Equal(t, 500*time.Millisecond, c.reconnectWait)
	assert.Equal(t, "user", c.username)
}

func TestPublishWithoutConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	err = c.Publish(context.Background(), "diag.graph", []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoConnection)
	assert.True(t, errors.IsTransient(err))
}

func TestSubscribeWithoutConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	err = c.Subscribe(context.Background(), "diag.graph", func(context.Context, []byte) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoConnection)
}

func TestConnectHonorsCancelledContext(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.Connect(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusDisconnected, c.Status())
}

func TestCloseWithoutConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)
	assert.NoError(t, c.Close(context.Background()))
}

func TestConnectionStatusString(t *testing.T) {
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "connecting", StatusConnecting.String())
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "closed", StatusClosed.String())
	assert.Equal(t, "unknown", ConnectionStatus(99).String())
}
