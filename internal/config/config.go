package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bank_transactions/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	DefaultRedisCacheTTL = 5 * time.Minute
)

type Config struct {
	AppPort         string
	AppVersion      string
	ShutdownTimeout time.Duration
	AllowedOrigin   string

	StorageDriver string
	DatabaseURL   string
	DBMaxConns    int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheBackend    string
	CacheMaxEntries int
	CacheTTL        time.Duration

	DefaultPageSize int
	MaxPageSize     int

	// 0 disables rate limiting
	APIRateLimit  int
	APIRateWindow time.Duration

	// empty JWTSecret leaves the write endpoints open
	JWTSecret string
	JWTTTL    time.Duration

	NATSURL           string
	NATSSubjectPrefix string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the environment; exits on invalid config.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds the config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppPort:           valueOrDefault("APP_PORT", "8080"),
		AppVersion:        valueOrDefault("APP_VERSION", "dev"),
		AllowedOrigin:     os.Getenv("ALLOWED_ORIGIN"),
		StorageDriver:     strings.ToLower(valueOrDefault("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		CacheBackend:      strings.ToLower(valueOrDefault("CACHE_BACKEND", CacheMemory)),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubjectPrefix: valueOrDefault("NATS_SUBJECT_PREFIX", "transactions"),
		LogLevel:          valueOrDefault("LOG_LEVEL", "info"),
		LogFormat:         valueOrDefault("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = parseInt("DB_MAX_CONNS", 0); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = parseInt("CACHE_MAX_ENTRIES", 0); err != nil {
		return nil, err
	}
	if cfg.DefaultPageSize, err = parseInt("DEFAULT_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.MaxPageSize, err = parseInt("MAX_PAGE_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit, err = parseInt("API_RATE_LIMIT", 120); err != nil {
		return nil, err
	}
	windowSeconds, err := parseInt("API_RATE_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.APIRateWindow = time.Duration(windowSeconds) * time.Second

	// redis entries expire on their own in case a clear is lost
	defaultTTL := time.Duration(0)
	if cfg.CacheBackend == CacheRedis {
		defaultTTL = DefaultRedisCacheTTL
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", defaultTTL); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = parseDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.DBMaxConns < 0 {
		return fmt.Errorf("DB_MAX_CONNS must not be negative")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be positive")
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) is below DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.APIRateLimit < 0 {
		return fmt.Errorf("API_RATE_LIMIT must not be negative")
	}
	if c.APIRateLimit > 0 && c.APIRateWindow <= 0 {
		return fmt.Errorf("API_RATE_WINDOW_SECONDS must be positive")
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return d, nil
}
