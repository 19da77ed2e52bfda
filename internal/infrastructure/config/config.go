package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Backend selects where collections persist: memory, redis or mongo.
	Backend string `env:"STORAGE_BACKEND, default=memory"`

	Redis  RedisConfig
	Mongo  MongoConfig
	OMDb   OMDbConfig
	ViaCep ViaCepConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=rental_system"`
}

type OMDbConfig struct {
	BaseURL string `env:"OMDB_BASE_URL, default=https://www.omdbapi.com"`
	APIKey  string `env:"OMDB_API_KEY"`
}

type ViaCepConfig struct {
	BaseURL string `env:"VIACEP_BASE_URL, default=https://viacep.com.br/ws"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
