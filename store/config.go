package store

import "fmt"

// Backend names for Config.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds local state store initialization parameters.
type Config struct {
	// Backend selects the storage implementation: "file" or "sqlite".
	Backend string `json:"backend,omitempty"`
	// Path is the FileStore root directory, or the SQLite database file.
	Path string `json:"path,omitempty"`
}

// DefaultConfig returns the default store configuration (file backend,
// path supplied by the caller).
func DefaultConfig() Config {
	return Config{Backend: BackendFile}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// New creates a Store from configuration.
func New(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Path), nil
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
