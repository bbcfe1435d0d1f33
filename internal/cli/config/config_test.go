package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected addr 0.0.0.0:8080, got %s", cfg.Server.Addr())
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("expected memory cache, got %s", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5m ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.Client.APIURL != "http://localhost:8080" {
		t.Errorf("unexpected api url %s", cfg.Client.APIURL)
	}
	if err := cfg.RequireDatabase(); err == nil {
		t.Error("expected missing database url to be reported")
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("DATABASE_URL", "")

	content := `
server:
  port: 9090
  request_timeout: 3s
  cors_origins:
    - http://localhost:3000
database:
  url: postgres://localhost/catalog
cache:
  driver: redis
  ttl: 1m
  redis:
    addr: redis:6379
    db: 2
log:
  level: debug
  development: true
`
	if err := os.WriteFile(filepath.Join(dir, "catalog.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 3*time.Second {
		t.Errorf("expected 3s request timeout, got %v", cfg.Server.RequestTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Database.URL != "postgres://localhost/catalog" {
		t.Errorf("unexpected database url %s", cfg.Database.URL)
	}
	if cfg.Cache.Driver != "redis" || cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if !cfg.Log.Logging().Development || cfg.Log.Level != "debug" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "postgres://plain/db")
	t.Setenv("CATALOG_SERVER_PORT", "7000")
	t.Setenv("CATALOG_CLIENT_API_URL", "https://catalog.internal")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.URL != "postgres://plain/db" {
		t.Errorf("expected DATABASE_URL to be used, got %s", cfg.Database.URL)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Client.APIURL != "https://catalog.internal" {
		t.Errorf("unexpected api url %s", cfg.Client.APIURL)
	}

	t.Setenv("CATALOG_DATABASE_URL", "postgres://prefixed/db")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.URL != "postgres://prefixed/db" {
		t.Errorf("expected CATALOG_DATABASE_URL to win, got %s", cfg.Database.URL)
	}
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	dir := chdirTemp(t)
	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"cache driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"redis addr", func(c *Config) { c.Cache.Driver = "redis"; c.Cache.Redis.Addr = "" }},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"api url", func(c *Config) { c.Client.APIURL = "localhost:8080" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Server: ServerConfig{Port: 8080},
				Cache:  CacheConfig{Driver: "memory"},
				Client: ClientConfig{APIURL: "http://localhost:8080"},
				Log:    LogConfig{Level: "info"},
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline should validate, got %v", err)
			}
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
