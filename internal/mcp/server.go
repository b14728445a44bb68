package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"rmmz-mcp/internal/logging"
)

// ServerName is reported to clients during initialize.
const ServerName = "rmmz-mcp"

// HTTPEndpoint is the path the streamable HTTP transport is mounted on.
const HTTPEndpoint = "/mcp"

// ShutdownTimeout bounds how long ServeHTTP waits for in-flight requests after
// its context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Instructions are sent to clients during initialize.
const Instructions = "Tools read and edit the data files of one RPG Maker MZ project. " +
	"A failed call still returns a normal result whose text starts with \"Error: \". " +
	"Calling a tool name that is not in tools/list is rejected by the protocol with an " +
	"invalid params error instead; use only listed names."

// Server represents an MCP server instance using mcp-go
type Server struct {
	dispatcher *Dispatcher
	logger     *logging.AppLogger
	mcpServer  *server.MCPServer
}

// NewServer creates an MCP server exposing every tool of d.
func NewServer(d *Dispatcher, version string, logger *logging.AppLogger) *Server {
	if logger == nil {
		logger = logging.GetDefault()
	}

	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(Instructions),
	)
	s.AddTools(d.ServerTools()...)

	logger.Debug("MCP server created", "tools", len(d.tools), "project", d.opts.ProjectPath)

	return &Server{
		dispatcher: d,
		logger:     logger,
		mcpServer:  s,
	}
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves JSON-RPC over in and out until ctx is cancelled or in
// reaches EOF.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("Starting MCP server on stdio")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(s.logger.StandardLog())

	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// ServeHTTP listens on addr and serves the streamable HTTP transport until ctx
// is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves the streamable HTTP transport on ln until ctx is cancelled, then
// shuts down gracefully. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(HTTPEndpoint, server.NewStreamableHTTPServer(s.mcpServer))
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting MCP server on HTTP", "addr", ln.Addr().String(), "endpoint", HTTPEndpoint)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("MCP HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Stopping MCP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop MCP HTTP server: %w", err)
	}
	return nil
}
