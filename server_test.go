package moltbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RegistersTools(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	g := newTestGateway(t, cfg)

	srv, err := NewServer(cfg, g, WithServerLogger(discardLogger()), WithServerName("crab"))
	require.NoError(t, err)

	assert.NotNil(t, srv.MCPServer())
	assert.Len(t, srv.Tools(), len(Tools(g)))
	assert.Equal(t, "crab", srv.config.ServerName)
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	cfg := DefaultConfig()

	_, err := NewServer(nil, nil)
	require.Error(t, err)

	_, err = NewServer(cfg, nil)
	require.Error(t, err)
}

func TestServer_ServeSSEStopsOnCancel(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	g := newTestGateway(t, cfg)

	srv, err := NewServer(cfg, g,
		WithServerLogger(discardLogger()),
		WithTransport(TransportSSE),
		WithAddr("127.0.0.1:0"),
		WithBaseURL("http://127.0.0.1"),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, srv.Serve(ctx))
}

func TestServer_UnknownTransport(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	srv, err := NewServer(cfg, newTestGateway(t, cfg), WithServerLogger(discardLogger()), WithTransport("carrier-pigeon"))
	require.NoError(t, err)

	err = srv.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
