// ABOUTME: Gateway orchestrator that wires the SR client, tool registry and MCP server
// ABOUTME: Owns the HTTP listener, metrics registry, cache endpoints and shutdown lifecycle

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2389/sverigesradio-mcp/internal/apierr"
	"github.com/2389/sverigesradio-mcp/internal/config"
	"github.com/2389/sverigesradio-mcp/internal/mcp"
	"github.com/2389/sverigesradio-mcp/internal/srclient"
	"github.com/2389/sverigesradio-mcp/internal/tools"
)

// shutdownTimeout bounds graceful HTTP shutdown after the run context ends.
const shutdownTimeout = 5 * time.Second

// Gateway orchestrates the sverigesradio-mcp server components.
type Gateway struct {
	config     *config.Config
	client     *srclient.Client
	tools      *tools.Registry
	mcpServer  *mcp.Server
	metrics    *prometheus.Registry
	httpServer *http.Server
	logger     *slog.Logger
	version    string
	doer       srclient.Doer
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithVersion sets the version reported by MCP initialize.
func WithVersion(v string) Option {
	return func(g *Gateway) { g.version = v }
}

// WithDoer replaces the HTTP transport used for upstream requests.
func WithDoer(d srclient.Doer) Option {
	return func(g *Gateway) { g.doer = d }
}

// New creates the client, tool registry and MCP server from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gw := &Gateway{
		config:  cfg,
		logger:  logger,
		metrics: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(gw)
	}

	gw.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clientOpts := []srclient.Option{
		srclient.WithNormalizer(apierr.Normalize),
		srclient.WithLogger(logger.With("component", "srclient")),
	}
	if cfg.Metrics.Enabled {
		clientOpts = append(clientOpts, srclient.WithMetrics(srclient.NewMetrics(gw.metrics)))
	}
	if gw.doer != nil {
		clientOpts = append(clientOpts, srclient.WithDoer(gw.doer))
	}

	client, err := srclient.New(cfg.ClientConfig(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating SR client: %w", err)
	}
	gw.client = client

	registry, err := tools.NewSRRegistry(client, logger.With("component", "tools"))
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	gw.tools = registry

	mcpServer, err := mcp.NewServer(mcp.Config{
		Tools:   registry,
		Logger:  logger.With("component", "mcp"),
		Version: gw.version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}
	gw.mcpServer = mcpServer

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// Handler returns the HTTP routes served by Run.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	g.mcpServer.RegisterRoutes(mux)
	mux.HandleFunc("GET /health/ready", g.handleReady)
	mux.HandleFunc("GET /cache/stats", g.handleCacheStats)
	mux.HandleFunc("DELETE /cache", g.handleCacheClear)
	if g.config.Metrics.Enabled {
		mux.Handle(g.config.Metrics.Path, promhttp.HandlerFor(g.metrics, promhttp.HandlerOpts{}))
	}
	return mux
}

// Run serves HTTP until the context is canceled, then shuts down gracefully.
// Returns nil on graceful shutdown, or the error that stopped the listener.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String(), "tools", len(g.tools.List()))
		if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// RunStdio serves MCP over newline-delimited JSON-RPC until in is exhausted
// or the context is canceled.
func (g *Gateway) RunStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	g.logger.Info("serving MCP over stdio", "tools", len(g.tools.List()))
	return g.mcpServer.ServeStdio(ctx, in, out)
}

// gracefulShutdown uses a fresh context since the run context is already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")
	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// Client exposes the upstream client.
func (g *Gateway) Client() *srclient.Client {
	return g.client
}

// handleReady reports readiness along with the registered tool count.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"tools":  len(g.tools.List()),
		"cache":  g.client.CacheStats(),
	})
}

func (g *Gateway) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.client.CacheStats())
}

func (g *Gateway) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	g.client.ClearCache()
	g.logger.Info("response cache cleared", "remote", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
