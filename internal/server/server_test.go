package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monday-mcp/internal/config"
	"monday-mcp/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Monday: config.MondayConfig{
			APIKey:         "test-key",
			BoardID:        "123",
			APIURL:         "https://api.monday.com/v2",
			TimeoutSeconds: 5,
			MaxItems:       100,
		},
		Server: config.ServerConfig{
			Transport: "stdio",
			Host:      "127.0.0.1",
			Port:      0,
		},
	}
}

func TestNew(t *testing.T) {
	s, cleanup, err := New(testConfig(), logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestNew_NilConfig(t *testing.T) {
	s, cleanup, err := New(nil, logger.Nop())
	assert.Error(t, err)
	assert.Nil(t, s)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestNew_NilLoggerUsesDefault(t *testing.T) {
	s, cleanup, err := New(testConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, s)
	cleanup()
}

func TestHTTPServer_Lifecycle(t *testing.T) {
	mcpServer, cleanup, err := New(testConfig(), logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	h := NewHTTPServer(mcpServer, "127.0.0.1:0", logger.Nop())
	require.NoError(t, h.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, h.Stop(ctx))
	}()

	addr := h.BoundAddr()
	require.NotEmpty(t, addr)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", addr))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestHTTPServer_StartTwice(t *testing.T) {
	mcpServer, cleanup, err := New(testConfig(), logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	h := NewHTTPServer(mcpServer, "127.0.0.1:0", logger.Nop())
	require.NoError(t, h.Start())
	assert.Error(t, h.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Stop(ctx))
}

func TestHTTPServer_StopBeforeStart(t *testing.T) {
	mcpServer, cleanup, err := New(testConfig(), logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	h := NewHTTPServer(mcpServer, "127.0.0.1:0", logger.Nop())
	assert.NoError(t, h.Stop(context.Background()))
}

func TestServerInstructions(t *testing.T) {
	text := serverInstructions("987")
	assert.Contains(t, text, "board id 987")
	assert.Contains(t, text, "get_board_data")
	assert.Contains(t, text, "delete_board_items")
	assert.Contains(t, text, "monday://board/")
}
