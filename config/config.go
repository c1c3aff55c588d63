package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Browser   BrowserConfig   `yaml:"browser"`
	Capture   CaptureConfig   `yaml:"capture"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controls the HTTP server (server mode only).
type ServerConfig struct {
	Host string `yaml:"host"` // default: "0.0.0.0"
	Port int    `yaml:"port"` // default: 9900
	Mode string `yaml:"mode"` // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the shared Chrome instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool `yaml:"headless"` // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool `yaml:"noSandbox"` // default: false

	// Bin overrides the Chromium binary path.
	Bin string `yaml:"bin"`

	// Proxy is the proxy URL passed to the browser, if any.
	Proxy string `yaml:"proxy"`

	// Stealth injects anti-bot-detection JS into the shared page.
	Stealth bool `yaml:"stealth"` // default: false
}

// CaptureConfig controls render behavior.
type CaptureConfig struct {
	// OutputDir is where capture files are written. Server mode replaces
	// this with a per-process temp directory; CLI mode defaults to the
	// executable's directory.
	OutputDir string `yaml:"outputDir"`

	// NavigationTimeout bounds navigate + load wait for one render.
	// 0 disables the bound. Default: 60s.
	NavigationTimeout time.Duration `yaml:"navigationTimeout"`
}

// AuthConfig controls API key authentication. Open access when no keys
// are configured.
type AuthConfig struct {
	APIKeys []string `yaml:"apiKeys"`
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// Enabled toggles the rate limit middleware.
	Enabled bool `yaml:"enabled"` // default: false

	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 `yaml:"requestsPerSecond"` // default: 1

	// Burst is the maximum burst size per client.
	Burst int `yaml:"burst"` // default: 3
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("CHROMECAPTURE_HOST", "0.0.0.0"),
			Port: envIntOr("CHROMECAPTURE_PORT", 9900),
			Mode: envOr("CHROMECAPTURE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:  envBoolOr("CHROMECAPTURE_HEADLESS", true),
			NoSandbox: envBoolOr("CHROMECAPTURE_NO_SANDBOX", false),
			Bin:       os.Getenv("CHROMECAPTURE_BROWSER_BIN"),
			Proxy:     os.Getenv("CHROMECAPTURE_PROXY"),
			Stealth:   envBoolOr("CHROMECAPTURE_STEALTH", false),
		},
		Capture: CaptureConfig{
			OutputDir:         os.Getenv("CHROMECAPTURE_OUTPUT_DIR"),
			NavigationTimeout: envDurationOr("CHROMECAPTURE_NAV_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			APIKeys: envSliceOr("CHROMECAPTURE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			Enabled:           envBoolOr("CHROMECAPTURE_RATE_ENABLED", false),
			RequestsPerSecond: envFloatOr("CHROMECAPTURE_RATE_RPS", 1.0),
			Burst:             envIntOr("CHROMECAPTURE_RATE_BURST", 3),
		},
		Log: LogConfig{
			Level:  envOr("CHROMECAPTURE_LOG_LEVEL", "info"),
			Format: envOr("CHROMECAPTURE_LOG_FORMAT", "text"),
		},
	}
}

// LoadFile overlays a YAML config file onto cfg. Fields absent from the
// file keep their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
