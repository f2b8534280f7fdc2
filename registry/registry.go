package registry

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicatalog/discovery"
	"github.com/jonwraymond/toolfoundation/model"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo

	// Logger receives tool call events. If nil, logging is disabled.
	Logger *zap.Logger
}

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is an MCP tool registry backed by a catalog engine. New registers
// the catalog metatools; further local tools may be added before serving.
type Registry struct {
	mu     sync.RWMutex
	disc   *discovery.Discovery
	config Config
	log    *zap.Logger

	tools    map[string]model.Tool
	handlers map[string]ToolHandler
	order    []string
}

// New creates a Registry over disc with the catalog metatools registered.
func New(disc *discovery.Discovery, cfg Config) (*Registry, error) {
	if disc == nil {
		return nil, ErrNoDiscovery
	}
	if cfg.ServerInfo.Name == "" {
		cfg.ServerInfo.Name = "apicatalog"
	}
	if cfg.ServerInfo.Version == "" {
		cfg.ServerInfo.Version = "dev"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := &Registry{
		disc:     disc,
		config:   cfg,
		log:      log.Named("registry"),
		tools:    make(map[string]model.Tool),
		handlers: make(map[string]ToolHandler),
	}
	if err := r.registerMetatools(); err != nil {
		return nil, err
	}
	return r, nil
}

// Discovery returns the engine behind the registry.
func (r *Registry) Discovery() *discovery.Discovery {
	return r.disc
}

// RegisterLocal registers a tool with a local execution handler. Tool names
// are unique across the registry.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[tool.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler
	r.order = append(r.order, tool.Name)
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	return r.RegisterLocal(tool, handler)
}

// ListAll returns all registered tools in registration order.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]model.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools, nil
}

// GetTool returns a tool by name.
func (r *Registry) GetTool(ctx context.Context, name string) (model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// Execute runs a tool by name with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := handler(ctx, args)
	if err != nil {
		r.log.Debug("tool call failed", zap.String("tool", name), zap.Error(err))
		return nil, err
	}
	r.log.Debug("tool call", zap.String("tool", name))
	return result, nil
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools     int `json:"totalTools"`
	CatalogEntries int `json:"catalogEntries"`
	Resources      int `json:"resources"`
}

// Stats returns registry statistics. Catalog figures are zero when the
// catalog fails to load.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	stats := RegistryStats{TotalTools: len(r.order)}
	r.mu.RUnlock()

	if s, err := r.disc.Stats(); err == nil {
		stats.CatalogEntries = s.Index.TotalEntries
		stats.Resources = s.Consolidation.ConsolidatedTools
	}
	return stats
}

// HealthCheck returns nil if the catalog loads and indexes.
func (r *Registry) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.disc.EnsureBuilt()
}
