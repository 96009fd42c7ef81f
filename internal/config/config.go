// ABOUTME: Configuration loading and parsing for calorie-gateway
// ABOUTME: YAML or TOML files with .env loading, ${VAR} expansion, defaults and validation

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve without system zoneinfo

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete calorie-gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Sessions  SessionsConfig  `yaml:"sessions" toml:"sessions"`
	Events    EventsConfig    `yaml:"events" toml:"events"`
	Tracking  TrackingConfig  `yaml:"tracking" toml:"tracking"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
	// AllowedOrigins enables CORS for browser-based MCP clients. Empty disables CORS.
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`

	ShutdownTimeout    time.Duration `yaml:"-" toml:"-"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname" toml:"hostname"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`
	HTTPS     bool   `yaml:"https" toml:"https"`   // Serve on :443 with a tailnet certificate
	Funnel    bool   `yaml:"funnel" toml:"funnel"` // Enable public Funnel (implies HTTPS)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Session backends
const (
	SessionBackendSigned = "signed"
	SessionBackendRedis  = "redis"
)

// SessionsConfig selects how MCP sessions are issued and checked
type SessionsConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	// Secret signs session tokens for the signed backend.
	Secret string      `yaml:"secret" toml:"secret"`
	Redis  RedisConfig `yaml:"redis" toml:"redis"`

	TTL    time.Duration `yaml:"-" toml:"-"`
	TTLRaw string        `yaml:"ttl" toml:"ttl"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
}

// EventsConfig holds domain event publishing configuration. An empty
// AMQPURL disables publishing.
type EventsConfig struct {
	AMQPURL string `yaml:"amqp_url" toml:"amqp_url"`
	Queue   string `yaml:"queue" toml:"queue"`
}

// TrackingConfig holds calendar settings for tracking data
type TrackingConfig struct {
	// Timezone is an IANA name deciding which calendar day "today" is.
	Timezone string `yaml:"timezone" toml:"timezone"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Defaults
const (
	DefaultHTTPAddr        = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultSessionTTL      = 24 * time.Hour
	DefaultEventsQueue     = "calorie.events"
	DefaultTimezone        = "UTC"

	minSecretLength = 32
)

// Load reads a configuration file from the given path and returns a parsed Config.
// A .env file beside the config file or in the working directory is loaded
// first; variables already set in the environment win. ${VAR_NAME} patterns
// are then expanded. Files ending in .toml are parsed as TOML, anything else
// as YAML.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(expanded, &cfg)
	} else {
		err = yaml.Unmarshal(expanded, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads each existing file once, skipping missing ones.
func loadDotEnv(paths ...string) error {
	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if err := godotenv.Load(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Server.HTTPAddr == "" && !c.Tailscale.Enabled {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = SessionBackendSigned
	}
	if c.Sessions.TTLRaw == "" && c.Sessions.TTL == 0 {
		c.Sessions.TTL = DefaultSessionTTL
	}
	if c.Events.Queue == "" {
		c.Events.Queue = DefaultEventsQueue
	}
	if c.Tracking.Timezone == "" {
		c.Tracking.Timezone = DefaultTimezone
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return errors.New("server.http_addr is required (or enable tailscale)")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return errors.New("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	switch c.Sessions.Backend {
	case SessionBackendSigned:
		if len(c.Sessions.Secret) < minSecretLength {
			return fmt.Errorf("sessions.secret must be at least %d characters for the signed backend", minSecretLength)
		}
	case SessionBackendRedis:
		if c.Sessions.Redis.Addr == "" {
			return errors.New("sessions.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("sessions.backend must be %q or %q, got %q", SessionBackendSigned, SessionBackendRedis, c.Sessions.Backend)
	}
	if c.Sessions.TTL < 0 {
		return errors.New("sessions.ttl cannot be negative")
	}

	if _, err := c.Tracking.Location(); err != nil {
		return err
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// Location returns the configured tracking timezone.
func (t TrackingConfig) Location() (*time.Location, error) {
	name := t.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tracking.timezone %q: %w", name, err)
	}
	return loc, nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	if cfg.Sessions.TTLRaw != "" {
		cfg.Sessions.TTL, err = time.ParseDuration(cfg.Sessions.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing sessions ttl %q: %w", cfg.Sessions.TTLRaw, err)
		}
	}

	return nil
}

// DefaultPath returns the config path from CALORIE_CONFIG, falling back to
// $XDG_CONFIG_HOME/calorie/gateway.yaml (or ~/.config/calorie/gateway.yaml).
func DefaultPath() string {
	if p := os.Getenv("CALORIE_CONFIG"); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "calorie", "gateway.yaml")
}
