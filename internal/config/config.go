// Package config provides Viper-based configuration loading for the MealMax service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Random source kinds.
const (
	RandomCrypto = "crypto"
	RandomHTTP   = "http"
	RandomSeeded = "seeded"
)

// DatabaseConfig holds persistence settings for either backend.
type DatabaseConfig struct {
	// Driver selects the backend: "postgres" or "sqlite".
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// Path is the SQLite database file. Only used by the sqlite driver.
	Path string `mapstructure:"path"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GRPCConfig holds the RPC listener settings.
type GRPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// HealthInterval is how often the store is pinged to refresh health status.
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// RandomConfig selects and configures the battle random source.
type RandomConfig struct {
	// Source is one of "crypto", "http", "seeded".
	Source string `mapstructure:"source"`
	// URL is the plain-text decimal fraction endpoint used by the http source.
	URL string `mapstructure:"url"`
	// Timeout bounds a single http draw.
	Timeout time.Duration `mapstructure:"timeout"`
	// Seed keys the seeded source.
	Seed uint64 `mapstructure:"seed"`
}

// ScriptingConfig configures battle announcement scripts.
type ScriptingConfig struct {
	// Dir holds *.lua scripts; empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps opcodes per hook call; 0 uses the package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// NarratorConfig configures the optional LLM battle narrator.
type NarratorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int64         `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Random    RandomConfig    `mapstructure:"random"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Narrator  NarratorConfig  `mapstructure:"narrator"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateGRPC(c.GRPC),
		validateRandom(c.Random),
		validateScripting(c.Scripting),
		validateNarrator(c.Narrator),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	switch d.Driver {
	case DriverSQLite:
		if strings.TrimSpace(d.Path) == "" {
			return errors.New("database.path must not be empty for the sqlite driver")
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("database.driver must be one of [postgres, sqlite], got %q", d.Driver)
	}

	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGRPC(g GRPCConfig) error {
	var errs []string
	if g.Host == "" {
		errs = append(errs, "grpc.host must not be empty")
	}
	if g.Port < 1 || g.Port > 65535 {
		errs = append(errs, fmt.Sprintf("grpc.port must be 1-65535, got %d", g.Port))
	}
	if g.HealthInterval < 0 {
		errs = append(errs, "grpc.health_interval must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRandom(r RandomConfig) error {
	switch r.Source {
	case RandomCrypto, RandomSeeded:
		return nil
	case RandomHTTP:
		var errs []string
		if strings.TrimSpace(r.URL) == "" {
			errs = append(errs, "random.url must not be empty for the http source")
		}
		if r.Timeout <= 0 {
			errs = append(errs, fmt.Sprintf("random.timeout must be > 0 for the http source, got %s", r.Timeout))
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	default:
		return fmt.Errorf("random.source must be one of [crypto, http, seeded], got %q", r.Source)
	}
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateNarrator(n NarratorConfig) error {
	if !n.Enabled {
		return nil
	}
	var errs []string
	if n.APIKey == "" {
		errs = append(errs, "narrator.api_key must not be empty when the narrator is enabled")
	}
	if n.Model == "" {
		errs = append(errs, "narrator.model must not be empty when the narrator is enabled")
	}
	if n.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("narrator.max_tokens must be >= 1, got %d", n.MaxTokens))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MEALMAX_ prefix
	v.SetEnvPrefix("MEALMAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance populated only with default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mealmax")
	v.SetDefault("database.password", "mealmax")
	v.SetDefault("database.name", "mealmax")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.path", "data/meal_max.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 50061)
	v.SetDefault("grpc.health_interval", "15s")

	v.SetDefault("random.source", RandomCrypto)
	v.SetDefault("random.url", "https://www.random.org/decimal-fractions/?num=1&dec=2&col=1&format=plain&rnd=new")
	v.SetDefault("random.timeout", "5s")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("narrator.enabled", false)
	v.SetDefault("narrator.model", "claude-3-5-haiku-latest")
	v.SetDefault("narrator.max_tokens", 200)
	v.SetDefault("narrator.timeout", "10s")
}
