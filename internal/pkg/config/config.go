package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// Seed loads the default users and products on startup.
	Seed bool `env:"SEED, default=true"`

	Auth   AuthConfig
	Upload UploadConfig
	CORS   CORSConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=30m"`
	BcryptCost int           `env:"BCRYPT_COST, default=0"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`

	// TokenRate is requests per second per client IP on /auth/token; 0 disables.
	TokenRate  float64 `env:"TOKEN_RATE,  default=5"`
	TokenBurst int     `env:"TOKEN_BURST, default=10"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=uploads"`
	MaxMB    int64  `env:"UPLOAD_MAX_MB,    default=10"`
	MaxFiles int    `env:"UPLOAD_MAX_FILES, default=5"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:3000,http://localhost:8080"`
}

// RedisConfig is optional. An empty Addr keeps login throttling in process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// validate fills the development JWT secret and rejects settings the server
// cannot start with.
func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET is required in production")
		}
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Upload.Dir == "" {
		return errors.New("config: UPLOAD_DIR must not be empty")
	}
	if c.Upload.MaxMB <= 0 || c.Upload.MaxFiles <= 0 {
		return errors.New("config: UPLOAD_MAX_MB and UPLOAD_MAX_FILES must be positive")
	}
	if c.Auth.TokenRate < 0 {
		return errors.New("config: TOKEN_RATE must not be negative")
	}
	return nil
}

// UsesDevSecret reports whether the built-in development JWT secret is active.
func (c *Config) UsesDevSecret() bool {
	return c.Auth.JWTSecret == devJWTSecret
}
