package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv gives every test a valid baseline so individual cases only
// tweak what they check.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONDAY_API_KEY", "test-token")
	t.Setenv("MONDAY_BOARD_ID", "123456")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Monday.APIKey)
	assert.Equal(t, "123456", cfg.Monday.BoardID)
	assert.Equal(t, "https://api.monday.com/v2", cfg.Monday.APIURL)
	assert.Equal(t, 30, cfg.Monday.TimeoutSeconds)
	assert.Equal(t, 100, cfg.Monday.MaxItems)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.OutputPath)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("MONDAY_API_KEY", "")
	t.Setenv("MONDAY_BOARD_ID", "123456")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monday.apiKey")
}

func TestLoad_MissingBoardID(t *testing.T) {
	t.Setenv("MONDAY_API_KEY", "test-token")
	t.Setenv("MONDAY_BOARD_ID", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monday.boardId")
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONDAY_API_URL", "http://localhost:9999/v2")
	t.Setenv("MONDAY_TRANSPORT", "http")
	t.Setenv("MONDAY_PORT", "9090")
	t.Setenv("MONDAY_LOG_LEVEL", "debug")
	t.Setenv("MONDAY_MAX_ITEMS", "25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/v2", cfg.Monday.APIURL)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 25, cfg.Monday.MaxItems)
}

func TestLoad_ConfigFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  transport: http
  host: 0.0.0.0
  port: 3333
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0:3333", cfg.Server.Addr())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONDAY_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_InvalidTransport(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONDAY_TRANSPORT", "grpc")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.transport")
}

func TestLoad_BrokenConfigFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\nnot yaml {{{"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Transport = "carrier-pigeon"
	cfg.Server.Port = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monday.apiKey")
	assert.Contains(t, err.Error(), "monday.boardId")
	assert.Contains(t, err.Error(), "server.transport")
	assert.Contains(t, err.Error(), "server.port")
}

func TestTimeout(t *testing.T) {
	c := MondayConfig{TimeoutSeconds: 15}
	assert.Equal(t, "15s", c.Timeout().String())
}
