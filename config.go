package moltbook

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default backend addresses
const (
	DefaultBaseURL       = "https://www.moltbook.com/api/v1"
	DefaultMoltiverseURL = "https://molti-verse.com/api"
	DefaultMoltPlaceURL  = "https://molt-place.com/api"
	DefaultMoltMarketURL = "https://moltplace.net/api"
	DefaultCraberNewsURL = "https://crabernews.com/api"
)

// Transport values for MCPConfig.Transport
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Environment variables read by LoadConfig. Each one overrides the config file.
const (
	EnvAPIKey        = "MOLTBOOK_API_KEY"
	EnvBaseURL       = "MOLTBOOK_BASE_URL"
	EnvMoltiverseURL = "MOLTIVERSE_URL"
	EnvMoltPlaceURL  = "MOLTPLACE_URL"
	EnvMoltMarketURL = "MOLTMARKET_URL"
	EnvCraberNewsURL = "CRABER_NEWS_URL"
	EnvHTTPTimeout   = "MOLTBOOK_HTTP_TIMEOUT"
	EnvTransport     = "MCP_TRANSPORT"
	EnvAddr          = "MCP_ADDR"
	EnvServerBaseURL = "MCP_BASE_URL"
)

// Config is loaded once at startup and never mutated afterwards
type Config struct {
	// APIKey is sent as a bearer credential to every backend. It may be
	// empty, in which case only agent registration is expected to succeed.
	APIKey string `json:"-" yaml:"api_key"`

	// BaseURL of the primary Moltbook API
	BaseURL string `json:"base_url" yaml:"base_url"`

	Ecosystem EcosystemConfig `json:"ecosystem" yaml:"ecosystem"`
	MCP       MCPConfig       `json:"mcp" yaml:"mcp"`
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
}

// EcosystemConfig holds the base URL of each auxiliary Moltiverse service
type EcosystemConfig struct {
	MoltiverseURL string `json:"moltiverse_url" yaml:"moltiverse_url"`
	MoltPlaceURL  string `json:"moltplace_url" yaml:"moltplace_url"`
	MoltMarketURL string `json:"moltmarket_url" yaml:"moltmarket_url"`
	CraberNewsURL string `json:"crabernews_url" yaml:"crabernews_url"`
}

// MCPConfig defines MCP-specific settings
type MCPConfig struct {
	ServerName string `json:"server_name" yaml:"server_name"`
	Version    string `json:"version" yaml:"version"`

	// Transport is "stdio" or "sse"
	Transport string `json:"transport" yaml:"transport"`

	// Addr and BaseURL only apply to the sse transport
	Addr    string `json:"addr" yaml:"addr"`
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// HTTPConfig tunes the outgoing HTTP client
type HTTPConfig struct {
	// Timeout of zero keeps the transport default
	Timeout         Duration `json:"timeout" yaml:"timeout"`
	MaxIdleConns    int      `json:"max_idle_conns" yaml:"max_idle_conns"`
	MaxConnsPerHost int      `json:"max_conns_per_host" yaml:"max_conns_per_host"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Ecosystem: EcosystemConfig{
			MoltiverseURL: DefaultMoltiverseURL,
			MoltPlaceURL:  DefaultMoltPlaceURL,
			MoltMarketURL: DefaultMoltMarketURL,
			CraberNewsURL: DefaultCraberNewsURL,
		},
		MCP: MCPConfig{
			ServerName: "moltbook-mcp-server",
			Version:    "1.0.0",
			Transport:  TransportStdio,
			Addr:       ":8888",
		},
		HTTP: HTTPConfig{
			MaxIdleConns:    100,
			MaxConnsPerHost: 10,
		},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file,
// a .env file in the working directory and finally the process environment.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		expandedPath := expandPath(configFile)

		data, err := os.ReadFile(expandedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", expandedPath, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnvironment(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := postProcessConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to post-process config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ParseConfigFromBytes parses a YAML document on top of the defaults.
// The environment is not consulted.
func ParseConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := postProcessConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to post-process config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvironment overrides config values with any variables that are set
func applyEnvironment(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvAPIKey:        &cfg.APIKey,
		EnvBaseURL:       &cfg.BaseURL,
		EnvMoltiverseURL: &cfg.Ecosystem.MoltiverseURL,
		EnvMoltPlaceURL:  &cfg.Ecosystem.MoltPlaceURL,
		EnvMoltMarketURL: &cfg.Ecosystem.MoltMarketURL,
		EnvCraberNewsURL: &cfg.Ecosystem.CraberNewsURL,
		EnvTransport:     &cfg.MCP.Transport,
		EnvAddr:          &cfg.MCP.Addr,
		EnvServerBaseURL: &cfg.MCP.BaseURL,
	}

	for key, target := range strs {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}

	if value, ok := lookup(EnvHTTPTimeout); ok && value != "" {
		timeout, err := ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTP.Timeout = timeout
	}

	return nil
}

// postProcessConfig expands environment references and normalizes values
func postProcessConfig(cfg *Config) error {
	cfg.APIKey = strings.TrimSpace(os.ExpandEnv(cfg.APIKey))

	for _, u := range []*string{
		&cfg.BaseURL,
		&cfg.Ecosystem.MoltiverseURL,
		&cfg.Ecosystem.MoltPlaceURL,
		&cfg.Ecosystem.MoltMarketURL,
		&cfg.Ecosystem.CraberNewsURL,
		&cfg.MCP.BaseURL,
	} {
		*u = strings.TrimRight(os.ExpandEnv(*u), "/")
	}

	cfg.MCP.Transport = strings.ToLower(strings.TrimSpace(cfg.MCP.Transport))
	if cfg.MCP.Transport == "" {
		cfg.MCP.Transport = TransportStdio
	}

	return nil
}

// validateConfig validates the final configuration
func validateConfig(cfg *Config) error {
	for _, backend := range cfg.Backends() {
		if err := validateBaseURL(backend.BaseURL); err != nil {
			return fmt.Errorf("backend '%s': %w", backend.Name, err)
		}
	}

	validTransports := []string{TransportStdio, TransportSSE}
	if !slices.Contains(validTransports, cfg.MCP.Transport) {
		return fmt.Errorf("invalid transport '%s', must be one of: %s",
			cfg.MCP.Transport, strings.Join(validTransports, ", "))
	}

	if cfg.MCP.Transport == TransportSSE && cfg.MCP.Addr == "" {
		return fmt.Errorf("addr is required for the sse transport")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base_url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url '%s': %w", raw, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url '%s' must be an absolute http(s) URL", raw)
	}

	return nil
}

// Backends lists the primary backend followed by every auxiliary backend
func (c *Config) Backends() []*Backend {
	return []*Backend{
		{Name: Moltbook, BaseURL: c.BaseURL, Primary: true},
		{Name: Moltiverse, BaseURL: c.Ecosystem.MoltiverseURL},
		{Name: MoltPlace, BaseURL: c.Ecosystem.MoltPlaceURL},
		{Name: MoltMarket, BaseURL: c.Ecosystem.MoltMarketURL},
		{Name: CraberNews, BaseURL: c.Ecosystem.CraberNewsURL},
	}
}

// ClientConfig derives the outgoing HTTP client settings
func (c *Config) ClientConfig() *ClientConfig {
	cc := DefaultClientConfig()
	cc.Timeout = time.Duration(c.HTTP.Timeout)
	if c.HTTP.MaxIdleConns > 0 {
		cc.MaxIdleConns = c.HTTP.MaxIdleConns
	}
	if c.HTTP.MaxConnsPerHost > 0 {
		cc.MaxConnsPerHost = c.HTTP.MaxConnsPerHost
	}
	return cc
}

// expandPath expands environment variables and home directory in paths
func expandPath(path string) string {
	expanded := os.ExpandEnv(path)

	if strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			expanded = filepath.Join(home, expanded[2:])
		}
	}

	return expanded
}
