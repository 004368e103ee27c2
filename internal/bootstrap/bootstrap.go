package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/config"
	"fxconvert-service/internal/infrastructure/httpx"
	"fxconvert-service/internal/infrastructure/pg"
	"fxconvert-service/internal/infrastructure/provider"
	redisstore "fxconvert-service/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const fakeProviderRate = 1.2345

var ErrUnknownProvider = errors.New("unknown PROVIDER")

// Stores holds the durable tiers and whether each answered its startup probe.
// Availability is decided once here and never re-probed.
type Stores struct {
	Rates       *redisstore.RateStore
	RatesUp     bool
	Ledger      *pg.ConversionRepo
	LedgerUp    bool
	DB          *pg.DB
	RedisClient *redis.Client
}

// BuildStores connects Redis and Postgres. A store that fails its probe is
// reported down; this never fails startup.
func BuildStores(ctx context.Context, cfg config.Config, log *zap.Logger) (Stores, func()) {
	var st Stores
	var cleanups []func()

	st.RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.StoreOpTimeout,
		ReadTimeout:  cfg.StoreOpTimeout,
		WriteTimeout: cfg.StoreOpTimeout,
	})
	cleanups = append(cleanups, func() { _ = st.RedisClient.Close() })
	st.Rates = redisstore.New(st.RedisClient, cfg.CacheTTL)

	probeCtx, cancel := context.WithTimeout(ctx, cfg.StoreProbeTimeout)
	if err := st.Rates.Ping(probeCtx); err != nil {
		log.Warn("bootstrap.rate_store_unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		st.RatesUp = true
	}
	cancel()

	if cfg.DatabaseURL == "" {
		log.Warn("bootstrap.ledger_store_unconfigured")
	} else if db, err := connectLedger(ctx, cfg); err != nil {
		log.Warn("bootstrap.ledger_store_unavailable", zap.Error(err))
	} else {
		st.DB = db
		st.Ledger = pg.NewConversionRepo(db)
		st.LedgerUp = true
		cleanups = append(cleanups, func() {
			log.Info("closing pg")
			db.Close()
		})
	}

	log.Info("bootstrap.stores",
		zap.Bool("cache_store", st.RatesUp),
		zap.Bool("ledger_store", st.LedgerUp),
	)
	return st, func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}

func connectLedger(ctx context.Context, cfg config.Config) (*pg.DB, error) {
	db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.StoreOpTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	probeCtx, cancel := context.WithTimeout(ctx, cfg.StoreProbeTimeout)
	defer cancel()
	if err := db.Ping(probeCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := pg.RunMigrations(probeCtx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// BuildRateProvider returns nil when no external source is configured.
func BuildRateProvider(cfg config.Config, log *zap.Logger) (application.RateProvider, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "fake":
		return provider.NewFake(fakeProviderRate), nil
	case "exchangeratehost":
		return &provider.ExchangeRateHostProvider{
			BaseURL: cfg.ExchangeAPIBase,
			APIKey:  cfg.ExchangeAPIKey,
			Client: &httpx.Client{
				HTTP:       &http.Client{Timeout: cfg.ExternalTimeout},
				MaxElapsed: cfg.ExternalTimeout,
			},
			Log: log,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// BuildService wires the cache, resolver and ledger over the probed stores.
func BuildService(cfg config.Config, st Stores, rp application.RateProvider, opts ...application.Option) *application.ConversionService {
	opts = append([]application.Option{application.WithStoreTimeout(cfg.StoreOpTimeout)}, opts...)
	var rates application.RateStore
	if st.Rates != nil {
		rates = st.Rates
	}
	var ledgerStore application.LedgerStore
	if st.Ledger != nil {
		ledgerStore = st.Ledger
	}
	cache := application.NewRateCache(rates, st.RatesUp, cfg.CacheTTL, opts...)
	resolver := application.NewResolver(cache, rp, application.ResolverConfig{
		ExternalTimeout: cfg.ExternalTimeout,
		Strict:          cfg.ResolverStrict,
	}, opts...)
	ledger := application.NewLedger(ledgerStore, st.LedgerUp, application.LedgerConfig{
		Max:            cfg.HistoryMax,
		MemoryFallback: cfg.HistoryMemoryFallback(),
	}, opts...)
	return application.NewConversionService(cache, resolver, ledger, opts...)
}
