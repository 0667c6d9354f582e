package backend

// Config holds backend client initialization parameters.
type Config struct {
	// BaseURL is the root of the persistence/inference service,
	// e.g. "http://localhost:8080".
	BaseURL string `json:"base_url,omitempty"`
}

// DefaultConfig returns the default backend configuration.
func DefaultConfig() Config {
	return Config{BaseURL: "http://localhost:8080"}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
}

// New creates a Client from configuration.
func New(cfg *Config) Client {
	return NewHTTPClient(cfg.BaseURL)
}
