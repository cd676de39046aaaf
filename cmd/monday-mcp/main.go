// monday-mcp: MCP server for a single monday.com board.
//
// Exposes the board's schema, items, and write operations as MCP tools,
// resources, and prompts for AI assistants (Claude Desktop, Cursor,
// Codex, and friends). Values are validated against the board's column
// configuration before anything is sent upstream.
//
// Usage:
//
//	monday-mcp serve     # Start the MCP server (stdio by default)
//	monday-mcp update    # Update to the latest version
//	monday-mcp version   # Print the version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"monday-mcp/internal/config"
	"monday-mcp/internal/logger"
	mondayserver "monday-mcp/internal/server"
	"monday-mcp/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("monday-mcp v%s\n", mondayserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	transport := fs.String("transport", "", "transport to serve on: stdio or http (overrides config)")
	configPath := fs.String("config", "", "path to a config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error (overrides config)")
	host := fs.String("host", "", "bind host for the http transport (overrides config)")
	port := fs.Int("port", 0, "bind port for the http transport (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger.SetDefault(log)

	s, cleanup, err := mondayserver.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Best-effort version check on stderr. Stdout belongs to the MCP
	// transport.
	go checkForUpdates()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	switch cfg.Server.Transport {
	case "http":
		h := mondayserver.NewHTTPServer(s, cfg.Server.Addr(), log)
		if err := h.Start(); err != nil {
			return err
		}
		select {
		case err := <-h.Err():
			return err
		case <-sigCh:
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.Stop(ctx)
	default:
		errCh := make(chan error, 1)
		go func() { errCh <- server.ServeStdio(s) }()
		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			return nil
		}
	}
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available.
func checkForUpdates() {
	result := updater.CheckVersion(mondayserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: monday-mcp update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(mondayserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(mondayserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart monday-mcp to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `monday-mcp v%s — MCP server for a monday.com board

Usage:
  monday-mcp serve [flags]   Start the MCP server
  monday-mcp update          Update to the latest version
  monday-mcp version         Print the version

Serve flags:
  --transport stdio|http     Transport to serve on (default stdio)
  --config <path>            Config file (default ./config.yaml)
  --log-level <level>        debug, info, warn or error
  --host <host>              Bind host for the http transport
  --port <port>              Bind port for the http transport

Environment:
  MONDAY_API_KEY             monday.com API token (required)
  MONDAY_BOARD_ID            Board to expose (required)
  MONDAY_API_URL             API endpoint (default https://api.monday.com/v2)
  MONDAY_TRANSPORT           Same as --transport
  MONDAY_LOG_LEVEL           Same as --log-level

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "monday": {
        "command": "monday-mcp",
        "args": ["serve"],
        "env": {
          "MONDAY_API_KEY": "your-token",
          "MONDAY_BOARD_ID": "1234567890"
        }
      }
    }
  }

Learn more: https://github.com/monday-mcp/monday-mcp
`, mondayserver.Version)
}
