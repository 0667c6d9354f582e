package conversation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/loomchat/loom/backend"
	"github.com/loomchat/loom/observability"
	"github.com/loomchat/loom/session"
	"github.com/loomchat/loom/store"
)

// Config holds initialization parameters for the conversation core. Each
// section delegates to that subsystem's config-driven constructor.
type Config struct {
	Backend backend.Config `json:"backend"`
	Store   store.Config   `json:"store"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Backend: backend.DefaultConfig(),
		Store:   store.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Backend.Merge(&source.Backend)
	c.Store.Merge(&source.Store)
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// Option configures the conversation core after config-driven
// initialization. Applied by New after cold start — overrides replace
// config-created defaults.
type Option func(*Coordinator)

// WithClient overrides the config-created backend client.
func WithClient(client backend.Client) Option {
	return func(co *Coordinator) { co.controller.client = client }
}

// WithStore overrides the config-created local state store.
func WithStore(s store.Store) Option {
	return func(co *Coordinator) {
		co.directory = session.NewDirectory(s)
		co.pointer = session.NewPointer(s)
		co.controller.directory = co.directory
		co.controller.pointer = co.pointer
	}
}

// WithObserver overrides the default SlogObserver.
func WithObserver(obs observability.Observer) Option {
	return func(co *Coordinator) {
		co.observer = obs
		co.controller.observer = obs
	}
}

// New creates the conversation core from configuration. Subsystems (store,
// directory, pointer, backend client, controller) are initialized from
// their respective config sections. Functional options applied after
// initialization can override any subsystem for testing.
func New(cfg *Config, opts ...Option) (*Coordinator, error) {
	var st store.Store
	if cfg.Store.Path != "" {
		var err error
		st, err = store.New(&cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to create state store: %w", err)
		}
	}

	var dir *session.Directory
	var ptr *session.Pointer
	if st != nil {
		dir = session.NewDirectory(st)
		ptr = session.NewPointer(st)
	}

	client := backend.New(&cfg.Backend)
	observer := observability.NewSlogObserver(slog.Default())

	ctrl := NewController(dir, ptr, client, observer)
	co := NewCoordinator(dir, ptr, ctrl, observer)

	for _, opt := range opts {
		opt(co)
	}

	if co.directory == nil || co.pointer == nil {
		return nil, fmt.Errorf("local state store is required: set store.path or use WithStore")
	}

	return co, nil
}
