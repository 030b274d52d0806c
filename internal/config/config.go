package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress         = ":4001"
	defaultDatabaseDriver  = "pgx"
	defaultRedisAddr       = "localhost:6379"
	defaultStorageDriver   = "s3"
	defaultBucket          = "lessor_image"
	defaultRegion          = "us-east-1"
	defaultConfirmationTTL = 5 * time.Minute
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultRateLimitRPS    = 5
	defaultRateLimitBurst  = 10
	defaultMaxUploadBytes  = 10 << 20
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Storage struct {
		Driver        string `yaml:"driver"`
		Endpoint      string `yaml:"endpoint"`
		Region        string `yaml:"region"`
		AccessKey     string `yaml:"access_key"`
		SecretKey     string `yaml:"secret_key"`
		Bucket        string `yaml:"bucket"`
		PublicBaseURL string `yaml:"public_base_url"`
		UseSSL        bool   `yaml:"use_ssl"`
	} `yaml:"storage"`
	Limits struct {
		RateLimitRPS   int   `yaml:"rate_limit_rps"`
		RateLimitBurst int   `yaml:"rate_limit_burst"`
		MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	} `yaml:"limits"`
	ConfirmationTTL time.Duration `yaml:"confirmation_ttl"`
	IdempotencyTTL  time.Duration `yaml:"idempotency_ttl"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// applies environment overrides and defaults, then validates the result.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Address = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.Region, "STORAGE_REGION")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.PublicBaseURL, "STORAGE_PUBLIC_BASE_URL")

	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse STORAGE_USE_SSL: %w", err)
		}
		cfg.Storage.UseSSL = b
	}

	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}

	if v, err := readIntEnv("RATE_LIMIT_RPS"); err != nil {
		return fmt.Errorf("parse RATE_LIMIT_RPS: %w", err)
	} else if v != nil {
		cfg.Limits.RateLimitRPS = *v
	}

	if v, err := readIntEnv("RATE_LIMIT_BURST"); err != nil {
		return fmt.Errorf("parse RATE_LIMIT_BURST: %w", err)
	} else if v != nil {
		cfg.Limits.RateLimitBurst = *v
	}

	if v := os.Getenv("CONFIRMATION_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse CONFIRMATION_TTL_SECONDS: %w", err)
		}
		cfg.ConfirmationTTL = time.Duration(secs) * time.Second
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultAddress
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = defaultDatabaseDriver
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaultRedisAddr
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = defaultStorageDriver
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = defaultBucket
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = defaultRegion
	}
	if cfg.Limits.RateLimitRPS == 0 {
		cfg.Limits.RateLimitRPS = defaultRateLimitRPS
	}
	if cfg.Limits.RateLimitBurst == 0 {
		cfg.Limits.RateLimitBurst = defaultRateLimitBurst
	}
	if cfg.Limits.MaxUploadBytes == 0 {
		cfg.Limits.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.ConfirmationTTL == 0 {
		cfg.ConfirmationTTL = defaultConfirmationTTL
	}
	if cfg.IdempotencyTTL == 0 {
		cfg.IdempotencyTTL = defaultIdempotencyTTL
	}
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "pgx", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Storage.Driver {
	case "s3", "minio":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Endpoint == "" {
		return errors.New("STORAGE_ENDPOINT is required")
	}
	if c.Storage.PublicBaseURL == "" {
		return errors.New("STORAGE_PUBLIC_BASE_URL is required")
	}
	if c.Limits.RateLimitRPS < 0 || c.Limits.RateLimitBurst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
