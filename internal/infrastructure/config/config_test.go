package config

import (
	"context"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %q", cfg.Port)
	}
	if cfg.Backend != BackendMemory {
		t.Fatalf("unexpected default backend: %q", cfg.Backend)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis default: %q", cfg.Redis.Addr)
	}
	if cfg.OMDb.BaseURL != "https://www.omdbapi.com" {
		t.Fatalf("unexpected omdb default: %q", cfg.OMDb.BaseURL)
	}
	if cfg.ViaCep.BaseURL != "https://viacep.com.br/ws" {
		t.Fatalf("unexpected viacep default: %q", cfg.ViaCep.BaseURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE_BACKEND", BackendRedis)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9999" || cfg.Backend != BackendRedis {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret not read: %q", cfg.JWTSecret)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("redis db not read: %d", cfg.Redis.DB)
	}
}
