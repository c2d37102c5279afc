package moltbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

// ServerOption is a function that configures the server
type ServerOption func(*Server)

// WithServerName overrides the advertised server name
func WithServerName(name string) ServerOption {
	return func(s *Server) {
		s.config.ServerName = name
	}
}

// WithTransport selects stdio or sse
func WithTransport(transport string) ServerOption {
	return func(s *Server) {
		s.config.Transport = transport
	}
}

// WithAddr sets the listen address used by the sse transport
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.config.Addr = addr
	}
}

// WithBaseURL sets the public base URL used by the sse transport
func WithBaseURL(baseURL string) ServerOption {
	return func(s *Server) {
		s.config.BaseURL = baseURL
	}
}

// WithServerLogger sets the server logger
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server exposes the gateway operations as MCP tools and resources
type Server struct {
	config    MCPConfig
	logger    *slog.Logger
	gateway   *Gateway
	tools     []*Tool
	resources []*Resource
	mcp       *server.MCPServer
}

// NewServer registers every tool and resource backed by gateway
func NewServer(cfg *Config, gateway *Gateway, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}

	s := &Server{
		config:  cfg.MCP,
		logger:  slog.Default(),
		gateway: gateway,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.tools = Tools(gateway)
	s.resources = []*Resource{ProfileResource(gateway)}

	s.mcp = server.NewMCPServer(
		s.config.ServerName, s.config.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithHooks(newServerHooks(s.logger)),
	)

	for _, tool := range s.tools {
		s.mcp.AddTool(tool.Tool(), tool.Handler)
		s.logger.Debug("Added tool", "name", tool.Name())
	}

	for _, resource := range s.resources {
		s.mcp.AddResources(resource.serverResource())
		s.logger.Debug("Added resource", "uri", resource.Resource().URI)
	}

	return s, nil
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Tools returns the registered tools
func (s *Server) Tools() []*Tool {
	return s.tools
}

// Serve blocks until ctx is cancelled or the transport fails
func (s *Server) Serve(ctx context.Context) error {
	switch s.config.Transport {
	case TransportSSE:
		return s.serveSSE(ctx)
	case TransportStdio, "":
		return s.serveStdio(ctx)
	default:
		return fmt.Errorf("unknown transport '%s'", s.config.Transport)
	}
}

func (s *Server) serveStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.Info("MCP server listening on stdio", "name", s.config.ServerName)

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func (s *Server) serveSSE(ctx context.Context) error {
	addr := s.config.Addr
	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost%s", addr)
	}

	sseServer := server.NewSSEServer(s.mcp,
		server.WithBaseURL(baseURL),
		server.WithUseFullURLForMessageEndpoint(true),
	)

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	mux.Handle("/metrics", metricsHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("MCP SSE server listening", "addr", addr, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("sse server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server gracefully: %w", err)
	}

	s.logger.Info("HTTP server shutdown successfully")
	return nil
}

// Close releases gateway resources
func (s *Server) Close() error {
	return s.gateway.Close()
}
