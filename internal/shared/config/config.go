package config

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024

// Config holds application configuration. It is read once at startup and
// passed by value to every component that needs it.
type Config struct {
	Port        string
	Env         string
	ServiceName string

	APIBaseURL      string
	APITimeout      time.Duration
	APIClientID     string
	APIClientSecret string
	APITokenURL     string
	APIScopes       []string

	StatusPollInterval time.Duration
	StatusRateLimit    float64
	StatusRateBurst    int

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty trusts none.
	TrustedProxies []string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) overlaid
// with environment variables, falling back to defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	k := koanf.New(".")
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// PORT -> port, API_BASE_URL -> api_base_url
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Config{
		Port:               getString(k, "port", "8080"),
		Env:                normalizeEnv(getString(k, "env", "dev")),
		ServiceName:        getString(k, "service_name", "Intelligent code review"),
		APIBaseURL:         strings.TrimRight(getString(k, "api_base_url", "http://localhost:8000"), "/"),
		APITimeout:         getSeconds(k, "api_timeout_seconds", 30*time.Second),
		APIClientID:        getString(k, "api_client_id", ""),
		APIClientSecret:    getString(k, "api_client_secret", ""),
		APITokenURL:        getString(k, "api_token_url", ""),
		APIScopes:          splitAndTrim(getString(k, "api_scopes", "")),
		StatusPollInterval: getSeconds(k, "status_poll_interval_seconds", 10*time.Second),
		StatusRateLimit:    getFloat(k, "status_rate_limit_per_second", 5),
		StatusRateBurst:    getInt(k, "status_rate_limit_burst", 30),
		TrustedProxies:     splitAndTrim(getString(k, "trusted_proxies", "")),
		LogLevel:           getString(k, "log_level", "info"),
		LogFormat:          getString(k, "log_format", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail at request time.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.APIClientID != "" && (c.APIClientSecret == "" || c.APITokenURL == "") {
		return fmt.Errorf("API_CLIENT_SECRET and API_TOKEN_URL are required when API_CLIENT_ID is set")
	}
	if c.StatusPollInterval <= 0 {
		return fmt.Errorf("STATUS_POLL_INTERVAL_SECONDS must be positive")
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	return content, nil
}

func getString(k *koanf.Koanf, key, def string) string {
	if val := strings.TrimSpace(k.String(key)); val != "" {
		return val
	}
	return def
}

func getSeconds(k *koanf.Koanf, key string, def time.Duration) time.Duration {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
		return time.Duration(parsed * float64(time.Second))
	}
	return def
}

func getFloat(k *koanf.Koanf, key string, def float64) float64 {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 {
		return parsed
	}
	return def
}

func getInt(k *koanf.Koanf, key string, def int) int {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
		return parsed
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	default:
		return "dev"
	}
}
