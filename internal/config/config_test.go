package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Port != 5432 {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Auth.Algorithm != "HS256" || cfg.TokenTTL() != 30*time.Minute {
		t.Fatalf("unexpected auth config %+v", cfg.Auth)
	}
	if cfg.Posts.DefaultLimit != 10 || cfg.Posts.Sanitize {
		t.Fatalf("unexpected posts config %+v", cfg.Posts)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing secret to fail validation")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POSTS_AUTH_SECRETKEY", "s3cret")
	t.Setenv("POSTS_AUTH_ALGORITHM", "hs512")
	t.Setenv("POSTS_AUTH_ACCESSTOKENEXPIREMINUTES", "5")
	t.Setenv("POSTS_DATABASE_DRIVER", "SQLite")
	t.Setenv("POSTS_DATABASE_SSLMODE", "verify-full")
	t.Setenv("POSTS_DATABASE_PORT", "6543")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.SecretKey != "s3cret" || cfg.Auth.Algorithm != "HS512" {
		t.Fatalf("unexpected auth config %+v", cfg.Auth)
	}
	if cfg.TokenTTL() != 5*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL())
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.SSLMode != "verify-full" || cfg.Database.Port != 6543 {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "# comment\nPOSTS_AUTH_SECRETKEY=\"from-file\"\nexport POSTS_SERVER_ADDR=127.0.0.1:9000\nbroken-line\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("POSTS_SERVER_ADDR", "127.0.0.1:7000")
	// registered so the variable set by loadDotEnv is restored afterwards
	t.Setenv("POSTS_AUTH_SECRETKEY", "")
	os.Unsetenv("POSTS_AUTH_SECRETKEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.SecretKey != "from-file" {
		t.Fatalf("expected secret from .env, got %q", cfg.Auth.SecretKey)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Fatalf("expected environment to win over .env, got %q", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Auth.SecretKey = "s"
		cfg.Auth.Algorithm = "HS256"
		cfg.Auth.AccessTokenExpireMinutes = 30
		cfg.Database.Driver = "postgres"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing secret", func(c *Config) { c.Auth.SecretKey = " " }, false},
		{"bad algorithm", func(c *Config) { c.Auth.Algorithm = "RS256" }, false},
		{"hs512", func(c *Config) { c.Auth.Algorithm = "HS512" }, true},
		{"zero ttl", func(c *Config) { c.Auth.AccessTokenExpireMinutes = 0 }, false},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, false},
		{"bad sslmode", func(c *Config) { c.Database.SSLMode = "prefer-ish" }, false},
		{"sqlite without path", func(c *Config) { c.Database.Driver = "sqlite" }, false},
		{"sqlite with path", func(c *Config) { c.Database.Driver = "sqlite"; c.Database.Path = "x.db" }, true},
	}
	for _, c := range cases {
		cfg := valid()
		c.mutate(&cfg)
		err := cfg.Validate()
		if c.ok && err != nil {
			t.Fatalf("%s: expected ok, got %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}
