package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Auth       Auth       `yaml:"auth"`
	Allocation Allocation `yaml:"allocation"`
	Registry   Registry   `yaml:"registry"`
}

type Server struct {
	Port string `yaml:"port"`
}

type Database struct {
	Path     string `yaml:"path"`
	LogLevel string `yaml:"log_level"`
}

type Auth struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type Allocation struct {
	// SaturationThreshold is the share of a shift above which it is reported as saturated
	SaturationThreshold float64 `yaml:"saturation_threshold"`
}

type Registry struct {
	// CookCacheTTL is how long the cook list is reused; 0 disables caching
	CookCacheTTL time.Duration `yaml:"cook_cache_ttl"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Server:   Server{Port: "8008"},
		Database: Database{Path: "kitchen.db", LogLevel: "warn"},
		Auth: Auth{
			Secret:   "development-insecure-secret-change-me",
			Issuer:   "kitchen-allocation-api",
			Audience: "kitchen-allocation-clients",
			TokenTTL: 24 * time.Hour,
		},
		Allocation: Allocation{SaturationThreshold: 0.8},
		Registry:   Registry{CookCacheTTL: 30 * time.Second},
	}
}

// Load reads the YAML file at path on top of Default, then applies the
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("could not read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse YAML from '%s': %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("KITCHEN_PORT", c.Server.Port)
	c.Database.Path = getEnv("KITCHEN_DB_PATH", c.Database.Path)
	c.Database.LogLevel = getEnv("KITCHEN_DB_LOG_LEVEL", c.Database.LogLevel)
	c.Auth.Secret = getEnv("JWT_SECRET", c.Auth.Secret)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)
	c.Auth.Audience = getEnv("JWT_AUDIENCE", c.Auth.Audience)

	if v := os.Getenv("KITCHEN_SATURATION_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid KITCHEN_SATURATION_THRESHOLD %q: %w", v, err)
		}
		c.Allocation.SaturationThreshold = f
	}
	if v := os.Getenv("KITCHEN_COOK_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid KITCHEN_COOK_CACHE_TTL %q: %w", v, err)
		}
		c.Registry.CookCacheTTL = d
	}
	return nil
}

// Validate rejects values the service cannot start with
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	switch c.Database.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		errs = append(errs, fmt.Errorf("database.log_level must be silent, error, warn or info, got %q", c.Database.LogLevel))
	}
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if t := c.Allocation.SaturationThreshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("allocation.saturation_threshold must be in (0,1], got %v", t))
	}
	if c.Registry.CookCacheTTL < 0 {
		errs = append(errs, errors.New("registry.cook_cache_ttl must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
