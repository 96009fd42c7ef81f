// ABOUTME: Thread-safe registry of MCP tools keyed by name
// ABOUTME: Preserves registration order for tools/list and dispatches tools/call

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/calorie-gateway/internal/auth"
)

// ErrToolNotFound indicates no tool is registered under the requested name.
var ErrToolNotFound = errors.New("tool not found")

// ErrToolCollision indicates a tool name is already registered.
var ErrToolCollision = errors.New("tool name collision")

// Result is the outcome of a tool call. Text is shown to the caller verbatim.
type Result struct {
	Text    string
	IsError bool
}

// Handler executes a tool for the authenticated caller.
type Handler func(ctx context.Context, id auth.Identity, input json.RawMessage) Result

// Tool is a named, independently invocable operation.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	// AdminOnly tools are hidden from non-admin tool listings. The handler
	// still enforces the role when called.
	AdminOnly bool
	Handler   Handler
}

// Registry holds the tools served by the MCP endpoint.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Tool
	order  []string
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger.With("component", "tools"),
	}
}

// Register adds t. Returns ErrToolCollision if the name is taken.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Handler == nil {
		return fmt.Errorf("tool %q: name and handler are required", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolCollision, t.Name)
	}
	r.tools[t.Name] = &t
	r.order = append(r.order, t.Name)
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, false
	}
	return *t, true
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.tools[name])
	}
	return out
}

// ListFor returns the tools visible to id.
func (r *Registry) ListFor(id auth.Identity) []Tool {
	all := r.List()
	out := all[:0]
	for _, t := range all {
		if t.AdminOnly && !id.IsAdmin {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Call runs the named tool. An empty or null input is treated as {}.
func (r *Registry) Call(ctx context.Context, id auth.Identity, name string, input json.RawMessage) (Result, error) {
	t, ok := r.Get(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if len(input) == 0 || string(input) == "null" {
		input = json.RawMessage("{}")
	}

	start := time.Now()
	res := t.Handler(ctx, id, input)
	r.logger.Debug("tool executed",
		"tool", name,
		"user_id", id.UserID,
		"is_error", res.IsError,
		"duration", time.Since(start),
	)
	return res, nil
}
