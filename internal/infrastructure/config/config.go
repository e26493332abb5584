package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Browse BrowseConfig
	Rating RatingConfig
	Audit  AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=skillswap"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// BrowseConfig holds the browse defaults passed into the match service.
type BrowseConfig struct {
	DefaultPageSize int `env:"BROWSE_PAGE_SIZE, default=10"`
}

// RatingConfig bounds the randomized rating assigned at registration.
type RatingConfig struct {
	InitialMin float64 `env:"RATING_INITIAL_MIN, default=3.5"`
	InitialMax float64 `env:"RATING_INITIAL_MAX, default=4.2"`
}

// AuditConfig sizes the swap audit-trail dispatcher.
type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
