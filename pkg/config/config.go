// Package config loads server configuration from defaults, an optional
// YAML file, and REACH_-prefixed environment variables, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-reach/pkg/validation"
)

// Config holds the full configuration for the reach server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Log       LogConfig       `yaml:"log"`
	History   HistoryConfig   `yaml:"history"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Transport TransportConfig `yaml:"transport"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the listen address (default 0.0.0.0)
	Host string `yaml:"host" env:"REACH_SERVER_HOST"`

	// Port is the HTTP listen port (default 8080)
	Port int `yaml:"port" env:"REACH_SERVER_PORT" validate:"min=1,max=65535"`

	// ReadTimeout bounds request reads (default 15s)
	ReadTimeout time.Duration `yaml:"read_timeout" env:"REACH_SERVER_READ_TIMEOUT"`

	// WriteTimeout bounds response writes. Sweeps on large graphs run
	// inside this window, so it is deliberately generous (default 60s).
	WriteTimeout time.Duration `yaml:"write_timeout" env:"REACH_SERVER_WRITE_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown (default 10s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"REACH_SERVER_SHUTDOWN_TIMEOUT"`

	// JWTSecret enables bearer-token auth when non-empty (min 32 chars)
	JWTSecret string `yaml:"jwt_secret" env:"REACH_JWT_SECRET"`

	// APIKeyHash is a bcrypt hash checked against the X-API-Key header
	// when non-empty
	APIKeyHash string `yaml:"api_key_hash" env:"REACH_API_KEY_HASH"`
}

// SweepConfig holds defaults for full-graph traversal runs.
type SweepConfig struct {
	// Workers is the default pool size for sweeps that do not specify
	// one (default runtime.NumCPU)
	Workers int `yaml:"workers" env:"REACH_SWEEP_WORKERS" validate:"min=1,max=1024"`

	// MaxVertices caps the size of graphs accepted over the API
	// (default 100000)
	MaxVertices int `yaml:"max_vertices" env:"REACH_SWEEP_MAX_VERTICES" validate:"min=1,max=100000"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info)
	Level string `yaml:"level" env:"REACH_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// HistoryConfig holds the optional Postgres sweep-history store.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" env:"REACH_HISTORY_ENABLED"`

	// DSN is a pgx connection string, required when Enabled
	DSN string `yaml:"dsn" env:"REACH_HISTORY_DSN"`
}

// ArchiveConfig holds the optional S3 graph snapshot store.
type ArchiveConfig struct {
	Enabled bool `yaml:"enabled" env:"REACH_ARCHIVE_ENABLED"`

	// Bucket and Region are required when Enabled
	Bucket string `yaml:"bucket" env:"REACH_ARCHIVE_BUCKET"`
	Region string `yaml:"region" env:"REACH_ARCHIVE_REGION"`

	// Endpoint overrides the S3 endpoint for MinIO-style deployments
	Endpoint  string `yaml:"endpoint" env:"REACH_ARCHIVE_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"REACH_ARCHIVE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"REACH_ARCHIVE_SECRET_KEY"`

	// Prefix namespaces stored graphs within the bucket (default graphs/)
	Prefix string `yaml:"prefix" env:"REACH_ARCHIVE_PREFIX"`
}

// TransportConfig holds the optional nng req/rep endpoint.
type TransportConfig struct {
	Enabled bool `yaml:"enabled" env:"REACH_TRANSPORT_ENABLED"`

	// Addr is a mangos listen URL, e.g. tcp://127.0.0.1:9090
	Addr string `yaml:"addr" env:"REACH_TRANSPORT_ADDR"`
}

// MinJWTSecretLength is the shortest JWT secret accepted. HS256 secrets
// below this are brute-forceable.
const MinJWTSecretLength = 32

// serverYAML carries the YAML form of ServerConfig. Timeouts arrive as
// duration strings ("15s"), which yaml.v3 cannot decode into
// time.Duration directly.
type serverYAML struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	JWTSecret       string `yaml:"jwt_secret"`
	APIKeyHash      string `yaml:"api_key_hash"`
}

// UnmarshalYAML decodes server settings, parsing timeout strings.
func (c *ServerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw serverYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Host = raw.Host
	c.Port = raw.Port
	c.JWTSecret = raw.JWTSecret
	c.APIKeyHash = raw.APIKeyHash

	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"read_timeout", raw.ReadTimeout, &c.ReadTimeout},
		{"write_timeout", raw.WriteTimeout, &c.WriteTimeout},
		{"shutdown_timeout", raw.ShutdownTimeout, &c.ShutdownTimeout},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("server.%s: %w", f.name, err)
		}
		*f.dst = d
	}

	return nil
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load builds a configuration from the optional YAML file at path, then
// environment overrides, then defaults for anything still unset. The
// result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	c.Server.Host = validation.DefaultOr(c.Server.Host, "0.0.0.0")
	c.Server.Port = validation.DefaultOrInt(c.Server.Port, 8080)
	c.Server.ReadTimeout = validation.DefaultOrDuration(c.Server.ReadTimeout, 15*time.Second)
	c.Server.WriteTimeout = validation.DefaultOrDuration(c.Server.WriteTimeout, 60*time.Second)
	c.Server.ShutdownTimeout = validation.DefaultOrDuration(c.Server.ShutdownTimeout, 10*time.Second)

	c.Sweep.Workers = validation.DefaultOrInt(c.Sweep.Workers, runtime.NumCPU())
	c.Sweep.MaxVertices = validation.DefaultOrInt(c.Sweep.MaxVertices, validation.MaxGraphVertices)

	c.Log.Level = validation.DefaultOr(c.Log.Level, "info")

	c.Archive.Region = validation.DefaultOr(c.Archive.Region, "us-east-1")
	c.Archive.Prefix = validation.DefaultOr(c.Archive.Prefix, "graphs/")

	c.Transport.Addr = validation.DefaultOr(c.Transport.Addr, "tcp://127.0.0.1:9090")
}

// Validate checks the configuration, combining struct-tag validation with
// conditional checks for the optional subsystems.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	v := validation.NewConfigValidator("Config")

	v.Required("Server.Host", c.Server.Host).
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second).
		MaxDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, 5*time.Minute)

	v.Custom("Server.JWTSecret", func() error {
		if c.Server.JWTSecret != "" && len(c.Server.JWTSecret) < MinJWTSecretLength {
			return fmt.Errorf("secret must be at least %d characters", MinJWTSecretLength)
		}
		return nil
	})

	v.RangeInt("Sweep.Workers", c.Sweep.Workers, 1, validation.MaxSweepWorkers).
		RangeInt("Sweep.MaxVertices", c.Sweep.MaxVertices, 1, validation.MaxGraphVertices).
		OneOf("Log.Level", c.Log.Level, []string{"debug", "info", "warn", "error"})

	v.When(c.History.Enabled, func(cv *validation.ConfigValidator) {
		cv.Required("History.DSN", c.History.DSN)
	})

	v.When(c.Archive.Enabled, func(cv *validation.ConfigValidator) {
		cv.Required("Archive.Bucket", c.Archive.Bucket).
			Required("Archive.Region", c.Archive.Region)
	})

	v.When(c.Transport.Enabled, func(cv *validation.ConfigValidator) {
		cv.Required("Transport.Addr", c.Transport.Addr)
	})

	return v.Validate()
}
