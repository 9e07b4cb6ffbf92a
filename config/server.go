package config

import "fmt"

// ServerConfig controls the dashboard HTTP server.
type ServerConfig struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowed_origins"`
	// ShutdownSeconds bounds the graceful shutdown on SIGINT/SIGTERM.
	ShutdownSeconds int `json:"shutdown_seconds"`
	// APIToken protects the /api routes with a bearer token when set.
	APIToken string `json:"api_token"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8501"
	}
	if c.ShutdownSeconds <= 0 {
		c.ShutdownSeconds = 5
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
