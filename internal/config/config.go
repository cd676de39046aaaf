// Package config loads server configuration from defaults, an optional YAML
// file, and MONDAY_* environment variables. Environment wins over the file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"monday-mcp/internal/logger"
)

// Config is the full server configuration.
type Config struct {
	Monday  MondayConfig         `mapstructure:"monday"`
	Server  ServerConfig         `mapstructure:"server"`
	Logging logger.LoggingConfig `mapstructure:"logging"`
}

// MondayConfig scopes the upstream API access to one board.
type MondayConfig struct {
	APIKey         string `mapstructure:"apiKey"`
	BoardID        string `mapstructure:"boardId"`
	APIURL         string `mapstructure:"apiUrl"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
	MaxItems       int    `mapstructure:"maxItems"`
}

// ServerConfig selects and configures the MCP transport.
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present; a missing .env is not an error.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MONDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// camelCase keys do not survive the replacer, bind them explicitly.
	_ = v.BindEnv("monday.apiKey", "MONDAY_API_KEY")
	_ = v.BindEnv("monday.boardId", "MONDAY_BOARD_ID")
	_ = v.BindEnv("monday.apiUrl", "MONDAY_API_URL")
	_ = v.BindEnv("monday.timeoutSeconds", "MONDAY_TIMEOUT_SECONDS")
	_ = v.BindEnv("monday.maxItems", "MONDAY_MAX_ITEMS")
	_ = v.BindEnv("server.transport", "MONDAY_TRANSPORT")
	_ = v.BindEnv("server.host", "MONDAY_HOST")
	_ = v.BindEnv("server.port", "MONDAY_PORT")
	_ = v.BindEnv("logging.level", "MONDAY_LOG_LEVEL")
	_ = v.BindEnv("logging.format", "MONDAY_LOG_FORMAT")
	_ = v.BindEnv("logging.outputPath", "MONDAY_LOG_OUTPUT")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.monday-mcp")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("monday.apiUrl", "https://api.monday.com/v2")
	v.SetDefault("monday.timeoutSeconds", 30)
	v.SetDefault("monday.maxItems", 100)

	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stderr")
}

// Validate checks the configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Monday.APIKey == "" {
		errs = append(errs, "monday.apiKey is required (set MONDAY_API_KEY)")
	}
	if cfg.Monday.BoardID == "" {
		errs = append(errs, "monday.boardId is required (set MONDAY_BOARD_ID)")
	}
	if cfg.Monday.TimeoutSeconds <= 0 {
		errs = append(errs, "monday.timeoutSeconds must be positive")
	}
	if cfg.Monday.MaxItems <= 0 {
		errs = append(errs, "monday.maxItems must be positive")
	}

	switch cfg.Server.Transport {
	case "stdio", "http":
	default:
		errs = append(errs, fmt.Sprintf("server.transport must be stdio or http, got %q", cfg.Server.Transport))
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535, got %d", cfg.Server.Port))
	}

	switch cfg.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn or error, got %q", cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Timeout returns the upstream request timeout.
func (c *MondayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Addr returns the host:port bind address for the HTTP transport.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
