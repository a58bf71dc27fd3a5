package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"posts-service/internal/auth"
)

var (
	supportedDrivers  = []string{"postgres", "sqlite"}
	supportedSSLModes = []string{"", "disable", "require", "verify-ca", "verify-full"}
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver   string
		Hostname string
		Port     int
		Username string
		Password string
		Name     string
		SSLMode  string
		MaxConns int32
		Path     string
	}
	Auth struct {
		SecretKey                string
		Algorithm                string
		AccessTokenExpireMinutes int
		BcryptCost               int
	}
	Posts struct {
		DefaultLimit int
		MaxLimit     int
		Sanitize     bool
	}
	RateLimit struct {
		PerMinute int
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	CORS struct {
		AllowedOrigins []string
	}
	Log Log
}

// Log configures the application logger.
type Log struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// TokenTTL is the lifetime of issued access tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenExpireMinutes) * time.Minute
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("POSTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Auth.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Auth.Algorithm))

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8000")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.hostname", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "fastapi")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.maxconns", 10)
	v.SetDefault("database.path", "data/posts.db")

	v.SetDefault("auth.secretkey", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.accesstokenexpireminutes", 30)
	v.SetDefault("auth.bcryptcost", 10)

	v.SetDefault("posts.defaultlimit", 10)
	v.SetDefault("posts.maxlimit", 100)
	v.SetDefault("posts.sanitize", false)

	v.SetDefault("ratelimit.perminute", 30)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cors.allowedorigins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxagedays", 7)
	v.SetDefault("log.compress", false)
}

// Validate reports the first setting that would prevent the server from starting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return errors.New("auth secret key is required")
	}
	if !slices.Contains(auth.SupportedAlgorithms, c.Auth.Algorithm) {
		return fmt.Errorf("unsupported auth algorithm %q", c.Auth.Algorithm)
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return errors.New("auth access token expiry must be positive")
	}
	if !slices.Contains(supportedDrivers, c.Database.Driver) {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if !slices.Contains(supportedSSLModes, c.Database.SSLMode) {
		return fmt.Errorf("unsupported database sslmode %q", c.Database.SSLMode)
	}
	if c.Database.Driver == "sqlite" && strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required for sqlite")
	}
	return nil
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
