// Package config loads the tokengate server configuration from an optional
// YAML file overlaid with TOKENGATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/tokengate"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

const envPrefix = "TOKENGATE_"

// Config holds the server configuration
type Config struct {
	// Server bind address (host:port)
	ServerAddr string `yaml:"server_addr"`

	// Optional file that receives a copy of the log output
	LogFile string `yaml:"log_file"`

	// Reject weak settings at startup
	ProductionMode bool `yaml:"production_mode"`

	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Audit    AuditConfig    `yaml:"audit"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// Users created at startup in the memory or redis store
	SeedUsers []SeedUser `yaml:"seed_users"`
}

// JWTConfig has no lifetime setting; tokens always live 30 minutes.
type JWTConfig struct {
	// Secret is only read from TOKENGATE_JWT_SECRET.
	Secret string `yaml:"-"`
	Issuer string `yaml:"issuer"`
}

type PasswordConfig struct {
	Algorithm  string `yaml:"algorithm"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

type StoreConfig struct {
	Backend     string `yaml:"backend"`
	DatabaseURL string `yaml:"database_url"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// RedisConfig is shared by the redis store and the login throttle.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ThrottleConfig struct {
	// Failed-login counter in Redis
	Enabled     bool          `yaml:"enabled"`
	PerIP       bool          `yaml:"per_ip"`
	MaxAttempts int           `yaml:"max_attempts"`
	Cooldown    time.Duration `yaml:"cooldown"`

	// In-process token bucket per client IP on the login route; 0 disables
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Latency bool `yaml:"latency"`
}

// SeedUser is a credential created at startup. Active defaults to true.
type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Active   *bool  `yaml:"active"`
}

// IsActive reports whether the seeded user may log in.
func (u SeedUser) IsActive() bool {
	return u.Active == nil || *u.Active
}

// Default returns the configuration used when no file or variable overrides it.
func Default() *Config {
	engine := tokengate.DefaultConfig()
	return &Config{
		ServerAddr: ":8080",
		Password: PasswordConfig{
			Algorithm:  engine.Password.Algorithm,
			BcryptCost: engine.Password.BcryptCost,
		},
		Store: StoreConfig{
			Backend:     StoreMemory,
			RedisPrefix: "tgc",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Throttle: ThrottleConfig{
			MaxAttempts:       engine.Security.MaxLoginAttempts,
			Cooldown:          engine.Security.LoginCooldownDuration,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Audit: AuditConfig{
			BufferSize: engine.Audit.BufferSize,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.JWT.Issuer = getEnv("JWT_ISSUER", c.JWT.Issuer)
	c.Password.Algorithm = getEnv("PASSWORD_ALGORITHM", c.Password.Algorithm)
	c.Store.Backend = getEnv("STORE", c.Store.Backend)
	c.Store.DatabaseURL = getEnv("DATABASE_URL", c.Store.DatabaseURL)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)

	var err error
	if c.ProductionMode, err = getEnvBool("PRODUCTION_MODE", c.ProductionMode); err != nil {
		return err
	}
	if c.Throttle.Cooldown, err = getEnvDuration("LOGIN_COOLDOWN", c.Throttle.Cooldown); err != nil {
		return err
	}
	if c.Password.BcryptCost, err = getEnvInt("BCRYPT_COST", c.Password.BcryptCost); err != nil {
		return err
	}
	if c.Throttle.Enabled, err = getEnvBool("LOGIN_THROTTLE", c.Throttle.Enabled); err != nil {
		return err
	}
	if c.Audit.Enabled, err = getEnvBool("AUDIT", c.Audit.Enabled); err != nil {
		return err
	}
	if c.Metrics.Enabled, err = getEnvBool("METRICS", c.Metrics.Enabled); err != nil {
		return err
	}
	return nil
}

// Validate checks the server settings, then the derived engine config.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return errors.New("server_addr is required")
	}
	if c.JWT.Secret == "" {
		return errors.New(envPrefix + "JWT_SECRET is required")
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis store")
		}
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("store.database_url is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Throttle.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required for the login throttle")
	}
	if c.Throttle.RequestsPerSecond < 0 {
		return errors.New("throttle.requests_per_second must be >= 0")
	}
	if c.Throttle.RequestsPerSecond > 0 && c.Throttle.Burst <= 0 {
		return errors.New("throttle.burst must be > 0 when requests_per_second is set")
	}

	for i, u := range c.SeedUsers {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("seed_users[%d]: username is required", i)
		}
		if u.Password == "" {
			return fmt.Errorf("seed_users[%d]: password is required", i)
		}
	}

	engineCfg := c.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	return nil
}

// NeedsRedis reports whether any component needs a Redis client.
func (c *Config) NeedsRedis() bool {
	return c.Store.Backend == StoreRedis || c.Throttle.Enabled
}

// EngineConfig maps the server settings onto tokengate.Config.
func (c *Config) EngineConfig() tokengate.Config {
	cfg := tokengate.DefaultConfig()

	cfg.JWT.Secret = []byte(c.JWT.Secret)
	cfg.JWT.Issuer = c.JWT.Issuer

	cfg.Password.Algorithm = c.Password.Algorithm
	cfg.Password.BcryptCost = c.Password.BcryptCost

	cfg.Security.ProductionMode = c.ProductionMode
	cfg.Security.EnableLoginThrottle = c.Throttle.Enabled
	cfg.Security.EnableIPThrottle = c.Throttle.Enabled && c.Throttle.PerIP
	cfg.Security.MaxLoginAttempts = c.Throttle.MaxAttempts
	cfg.Security.LoginCooldownDuration = c.Throttle.Cooldown

	cfg.Audit.Enabled = c.Audit.Enabled
	cfg.Audit.BufferSize = c.Audit.BufferSize

	cfg.Metrics.Enabled = c.Metrics.Enabled
	cfg.Metrics.EnableLatencyHistograms = c.Metrics.Latency

	return cfg
}

// getEnv retrieves TOKENGATE_<key> or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return d, nil
}
