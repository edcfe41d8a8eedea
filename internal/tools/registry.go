// ABOUTME: Registry of callable tools keyed by name.
// ABOUTME: Preserves registration order for listing and turns handler failures into error results.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/sverigesradio-mcp/internal/apierr"
	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

// ErrToolCollision indicates a tool name is already registered.
var ErrToolCollision = errors.New("tool name collision")

// ErrToolNotFound indicates no tool is registered under the requested name.
var ErrToolNotFound = errors.New("tool not found")

// Handler executes a tool with its raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) ([]Content, error)

// Tool is a named, described, callable operation.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// Registry holds tools in registration order.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Tool
	order  []string
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds tools. Nothing is registered if any name collides.
func (r *Registry) Register(tools ...*Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		if _, exists := r.tools[t.Name]; exists || seen[t.Name] {
			return fmt.Errorf("%w: tool '%s' already registered", ErrToolCollision, t.Name)
		}
		seen[t.Name] = true
	}

	for _, t := range tools {
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Call runs the named tool. Handler failures are reported in the result with
// IsError set; only an unknown tool is returned as an error.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*Result, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	start := time.Now()
	content, err := tool.Handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool call failed",
			"tool_name", name,
			"duration", time.Since(start),
			"error", err,
		)
		return errorResult(err), nil
	}

	r.logger.Debug("tool call complete",
		"tool_name", name,
		"duration", time.Since(start),
	)
	return &Result{Content: content}, nil
}

func errorResult(err error) *Result {
	content, encErr := asJSONContent(apierr.Payload(err), "")
	if encErr != nil {
		content = []Content{{Type: "text", Text: err.Error()}}
	}
	return &Result{Content: content, IsError: true}
}

// NewSRRegistry builds a registry holding every Sveriges Radio tool.
func NewSRRegistry(client srclient.Fetcher, logger *slog.Logger) (*Registry, error) {
	r := NewRegistry(logger)
	h := &handlers{client: client, now: time.Now}

	groups := [][]*Tool{
		channelTools(h),
		programTools(h),
		episodeTools(h),
		scheduleTools(h),
		playlistTools(h),
		newsTools(h),
		trafficTools(h),
		miscTools(h),
	}
	for _, g := range groups {
		if err := r.Register(g...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// handlers carries the dependencies shared by every tool handler.
type handlers struct {
	client srclient.Fetcher
	now    func() time.Time
}

// timestamp reports when a live payload was assembled.
func (h *handlers) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// orEmpty keeps absent lists as [] in results.
func orEmpty(items []json.RawMessage) []json.RawMessage {
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}

// firstPresent returns the first non-empty raw value, or the fallback.
func firstPresent(fallback json.RawMessage, values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return fallback
}
