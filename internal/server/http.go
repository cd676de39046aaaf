package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"monday-mcp/internal/logger"
)

// HTTPServer serves an assembled MCP server over HTTP, exposing both
// web transports on one port:
//
//   - SSE (/sse plus /message) for Claude Desktop, Cursor, and similar
//   - Streamable HTTP (/mcp) for newer clients
//
// A /healthz endpoint answers liveness probes.
type HTTPServer struct {
	addr string
	log  *logger.Logger

	sse        *server.SSEServer
	streamable *server.StreamableHTTPServer
	httpServer *http.Server
	listener   net.Listener
	errCh      chan error

	mu      sync.Mutex
	running bool
}

// NewHTTPServer wraps mcpServer for serving on addr (host:port).
func NewHTTPServer(mcpServer *server.MCPServer, addr string, log *logger.Logger) *HTTPServer {
	if log == nil {
		log = logger.Default()
	}

	sse := server.NewSSEServer(mcpServer)
	streamable := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
	)

	mux := http.NewServeMux()
	mux.Handle("/sse", sse.SSEHandler())
	mux.Handle("/message", sse.MessageHandler())
	mux.Handle("/mcp", streamable)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	return &HTTPServer{
		addr:       addr,
		log:        log,
		sse:        sse,
		streamable: streamable,
		httpServer: &http.Server{Handler: mux},
		errCh:      make(chan error, 1),
	}
}

// Start binds the listener and begins serving in a goroutine. It
// returns once the port is bound, so a nil error means clients can
// connect. Serve failures after startup are reported on Err.
func (h *HTTPServer) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return fmt.Errorf("http server already running")
	}

	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.addr, err)
	}
	h.listener = listener
	h.running = true

	go func() {
		h.log.Info("http transports listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("sse_endpoint", "/sse"),
			zap.String("streamable_http_endpoint", "/mcp"),
		)
		if err := h.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			h.log.Error("http server stopped", zap.Error(err))
			h.errCh <- err
		}
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	return nil
}

// BoundAddr returns the address the listener is bound to, which is the
// resolved port when Start was given ":0". Empty before Start.
func (h *HTTPServer) BoundAddr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Err reports a serve failure that happened after a successful Start.
func (h *HTTPServer) Err() <-chan error {
	return h.errCh
}

// Stop gracefully shuts down the HTTP server and both transport
// sessions. Safe to call when the server never started.
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.mu.Lock()
	running := h.running
	h.mu.Unlock()
	if !running {
		return nil
	}

	if err := h.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	if err := h.sse.Shutdown(ctx); err != nil {
		h.log.Warn("failed to shutdown sse sessions", zap.Error(err))
	}
	if err := h.streamable.Shutdown(ctx); err != nil {
		h.log.Warn("failed to shutdown streamable http sessions", zap.Error(err))
	}
	return nil
}
