package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all environment-driven settings. It is loaded once at startup
// and passed to constructors; business logic never reads the environment.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig carries token signing material and lifetimes. The two secrets
// are independent so access and refresh keys can be rotated separately.
type AuthConfig struct {
	AccessSecret      string `env:"ACCESS_SECRET"`
	RefreshSecret     string `env:"REFRESH_SECRET"`
	AccessTTLMin      int    `env:"ACCESS_TTL_MIN,      default=15"`
	RefreshTTLDays    int    `env:"REFRESH_TTL_DAYS,    default=30"`
	AllowPublicSignup bool   `env:"ALLOW_PUBLIC_SIGNUP, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ivy"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// AccessTTL returns the access token lifetime as a duration.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTTLDays) * 24 * time.Hour
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		return nil, fmt.Errorf("config: ACCESS_SECRET and REFRESH_SECRET are required")
	}
	return &cfg, nil
}
