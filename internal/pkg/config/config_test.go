package config

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" || !cfg.Seed {
		t.Fatalf("unexpected top-level defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if !cfg.UsesDevSecret() {
		t.Fatalf("expected development secret to be filled in")
	}
	if cfg.Upload.Dir != "uploads" || cfg.Upload.MaxMB != 10 || cfg.Upload.MaxFiles != 5 {
		t.Fatalf("unexpected upload defaults: %+v", cfg.Upload)
	}
	want := []string{"http://localhost:3000", "http://localhost:8080"}
	if !slices.Equal(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("expected origins %v, got %v", want, cfg.CORS.AllowedOrigins)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":            "9000",
		"JWT_SECRET":      "s3cret",
		"TOKEN_TTL":       "5m",
		"ALLOWED_ORIGINS": "https://app.example.com",
		"REDIS_ADDR":      "redis:6379",
		"SEED":            "false",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Port != "9000" || cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.TokenTTL != 5*time.Minute || cfg.Seed {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected cors/redis: %+v %+v", cfg.CORS, cfg.Redis)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"production without secret": {"ENV": "production"},
		"zero ttl":                  {"TOKEN_TTL": "0s"},
		"bad duration":              {"TOKEN_TTL": "soon"},
		"negative rate":             {"TOKEN_RATE": "-1"},
		"no upload files":           {"UPLOAD_MAX_FILES": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
