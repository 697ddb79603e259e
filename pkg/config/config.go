// Package config holds the process configuration, composed from flags and
// the environment at startup.
package config

import (
	"os"
	"strings"
)

// Config encapsulates the server settings.
type Config struct {
	Debug bool
	Port  string

	// AllowedOrigin restricts websocket upgrades; empty allows any origin.
	AllowedOrigin string

	// APIKeys guard the REST surface; empty disables the check.
	APIKeys []string
}

// Load fills the environment-derived fields. Flag-derived fields are set by
// the caller.
func (c *Config) Load() {
	c.AllowedOrigin = os.Getenv("FRONTEND_PATH")

	if envAPIKeys := os.Getenv("API_KEYS"); envAPIKeys != "" {
		keys := strings.Split(envAPIKeys, ",")
		for i, key := range keys {
			keys[i] = strings.TrimSpace(key)
		}
		c.APIKeys = keys
	}
}
