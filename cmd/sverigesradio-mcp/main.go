// ABOUTME: Entry point for the sverigesradio-mcp server
// ABOUTME: Serves the Sveriges Radio tools over stdio or HTTP and checks server health

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/sverigesradio-mcp/internal/config"
	"github.com/2389/sverigesradio-mcp/internal/gateway"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                   _                  _ _
  ___ _ __   _ __ ___   ___ _ __   (_) |
 / __| '__| | '_ ' _ \ / __| '_ \  | | |
 \__ \ |    | | | | | | (__| |_) | |_|_|
 |___/_|    |_| |_| |_|\___| .__/  (_|_)
                           |_|
`

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sverigesradio-mcp <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  stdio     Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  serve     Serve MCP over HTTP (Streamable HTTP and SSE)")
	fmt.Fprintln(w, "  health    Check a running server's health")
	fmt.Fprintln(w, "  version   Print the version")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "stdio":
		err = runStdio(ctx)
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runStdio keeps stdout reserved for JSON-RPC; all logging goes to stderr.
func runStdio(ctx context.Context) error {
	configPath := config.DefaultPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stderr)

	gw, err := gateway.New(cfg, logger, gateway.WithVersion(version))
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.RunStdio(ctx, os.Stdin, os.Stdout)
}

func runServe(ctx context.Context) error {
	configPath := config.DefaultPath()

	cyan := color.New(color.FgCyan)
	cyan.Fprint(os.Stderr, banner)

	gray := color.New(color.FgHiBlack)
	gray.Fprintf(os.Stderr, "    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stderr)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Fprint(os.Stderr, "    ▶ ")
	fmt.Fprintf(os.Stderr, "Config:    %s\n", configPath)
	green.Fprint(os.Stderr, "    ▶ ")
	fmt.Fprintf(os.Stderr, "HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Fprint(os.Stderr, "    ▶ ")
	fmt.Fprintf(os.Stderr, "Upstream:  %s", cfg.API.BaseURL)
	gray.Fprintf(os.Stderr, " (timeout %s, retries %d, cache %d)\n", cfg.API.Timeout, cfg.API.MaxRetries, cfg.API.MaxCacheEntries)
	if cfg.Metrics.Enabled {
		green.Fprint(os.Stderr, "    ▶ ")
		fmt.Fprintf(os.Stderr, "Metrics:   %s\n", cfg.Metrics.Path)
	}
	if cfg.API.CoalesceRequests {
		yellow.Fprintln(os.Stderr, "    ▶ request coalescing enabled")
	}
	fmt.Fprintln(os.Stderr)

	logger.Info("starting sverigesradio-mcp",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"base_url", cfg.API.BaseURL,
	)

	gw, err := gateway.New(cfg, logger, gateway.WithVersion(version))
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := healthURL(cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// healthURL turns a listen address into a dialable health URL.
func healthURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s/health", addr)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = &colorHandler{
			mu:    &sync.Mutex{},
			out:   w,
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
// Derived handlers share the parent's mutex and writer.
type colorHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	// Handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + prefix + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, buf.String())
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	return &colorHandler{
		mu:     h.mu,
		out:    h.out,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		mu:     h.mu,
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
