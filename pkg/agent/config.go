// Package agent wires the catalog, cart, voice pipeline, and dashboard
// into the running shopping assistant.
package agent

import (
	"os"

	"github.com/teslashibe/go-grocer/pkg/voice"
)

// Default configuration values.
const (
	DefaultCatalogPath = "data/catalog.json"
	DefaultOrdersDir   = "data/orders"
	DefaultWebPort     = "8088"
)

// Config holds all configuration for the assistant.
// Flag parsing is done in cmd/grocer/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	// CatalogPath is the local catalog file. When CatalogURL is set it
	// takes precedence and the catalog is fetched over HTTP instead.
	CatalogPath string
	CatalogURL  string

	// OrdersDir is where placed orders are persisted.
	OrdersDir string

	// WebPort is the dashboard listen port.
	WebPort string

	// TTSVoice selects the synthesis voice.
	TTSVoice string

	// ProfileLatency logs a per-turn latency breakdown.
	ProfileLatency bool

	// API keys (typically from environment variables).
	GoogleAPIKey string

	// Google OAuth for the Docs receipt ledger. Optional; receipt sync
	// is disabled when either is empty.
	GoogleClientID     string
	GoogleClientSecret string
}

// DefaultConfig returns sensible defaults for the assistant.
func DefaultConfig() Config {
	return Config{
		CatalogPath: DefaultCatalogPath,
		OrdersDir:   DefaultOrdersDir,
		WebPort:     DefaultWebPort,
		TTSVoice:    "Puck",
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this after flag parsing to apply environment overrides.
func (c *Config) LoadEnvConfig() {
	c.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	c.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	c.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	if url := os.Getenv("CATALOG_URL"); url != "" {
		c.CatalogURL = url
	}
	if dir := os.Getenv("ORDERS_DIR"); dir != "" {
		c.OrdersDir = dir
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return &ConfigError{Field: "GoogleAPIKey", Message: "GOOGLE_API_KEY environment variable is required"}
	}
	if c.CatalogPath == "" && c.CatalogURL == "" {
		return &ConfigError{Field: "CatalogPath", Message: "a catalog path or URL is required"}
	}
	return nil
}

// ToVoiceConfig builds the voice pipeline configuration.
func (c *Config) ToVoiceConfig() voice.Config {
	vc := voice.DefaultConfig()
	vc.GoogleAPIKey = c.GoogleAPIKey
	vc.Debug = c.Debug
	vc.ProfileLatency = c.ProfileLatency
	if c.TTSVoice != "" {
		vc.TTSVoice = c.TTSVoice
	}
	return vc
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
