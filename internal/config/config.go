package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	// Common
	Env             string        `env:"ENV" env-default:"local"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	Port            string        `env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Redis (rate cache durable tier)
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
	// Postgres (ledger durable tier); empty disables it
	DatabaseURL string `env:"DATABASE_URL"`
	// Store timeouts
	StoreProbeTimeout time.Duration `env:"STORE_PROBE_TIMEOUT" env-default:"3s"`
	StoreOpTimeout    time.Duration `env:"STORE_OP_TIMEOUT" env-default:"2s"`
	// Cache / ledger
	CacheTTL        time.Duration `env:"CACHE_TTL" env-default:"60s"`
	HistoryMax      int           `env:"HISTORY_MAX" env-default:"1000"`
	HistoryFallback string        `env:"HISTORY_FALLBACK" env-default:"memory"`
	// External rate source
	Provider        string        `env:"PROVIDER" env-default:"none"`
	ExchangeAPIBase string        `env:"EXCHANGE_API_BASE" env-default:"https://api.exchangerate.host"`
	ExchangeAPIKey  string        `env:"EXCHANGE_API_KEY"`
	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT" env-default:"8s"`
	ResolverStrict  bool          `env:"RESOLVER_STRICT" env-default:"false"`
}

const (
	HistoryFallbackMemory = "memory"
	HistoryFallbackNone   = "none"
)

var ErrInvalidConfig = errors.New("invalid config")

// Load reads environment variables and applies defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.HistoryFallback = strings.ToLower(strings.TrimSpace(cfg.HistoryFallback))
	switch cfg.HistoryFallback {
	case HistoryFallbackMemory, HistoryFallbackNone:
	default:
		return cfg, fmt.Errorf("%w: HISTORY_FALLBACK=%q, want %q or %q",
			ErrInvalidConfig, cfg.HistoryFallback, HistoryFallbackMemory, HistoryFallbackNone)
	}
	return cfg, nil
}

// HistoryMemoryFallback reports whether history reads may be served from memory.
func (c Config) HistoryMemoryFallback() bool { return c.HistoryFallback != HistoryFallbackNone }
