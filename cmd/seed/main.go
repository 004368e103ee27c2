// Command seed writes one cached rate and one conversion record straight to
// the durable stores, for exercising a fresh deployment.
package main

import (
	"context"
	"flag"
	"time"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/config"
	"fxconvert-service/internal/domain"
	"fxconvert-service/internal/infrastructure/logx"
	"fxconvert-service/internal/infrastructure/pg"
	redisstore "fxconvert-service/internal/infrastructure/redis"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	from := flag.String("from", "USD", "source currency")
	to := flag.String("to", "EUR", "target currency")
	rate := flag.Float64("rate", 0.85, "rate to cache")
	amount := flag.Float64("amount", 100, "amount of the seeded conversion")
	flag.Parse()

	log := logx.L()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreProbeTimeout+cfg.StoreOpTimeout)
	defer cancel()

	src, dst := domain.NormalizeCurrency(*from), domain.NormalizeCurrency(*to)
	now := time.Now().UTC()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer rdb.Close()
	entry := domain.RateCacheEntry{Key: domain.PairKey(src, dst), Rate: *rate, CreatedAt: now}
	if err := redisstore.New(rdb, cfg.CacheTTL).Upsert(ctx, entry); err != nil {
		log.Fatal("seed rate", zap.String("key", entry.Key), zap.Error(err))
	}
	log.Info("seed.rate", zap.String("key", entry.Key), zap.Float64("rate", *rate))

	if cfg.DatabaseURL == "" {
		log.Warn("seed.ledger_skipped", zap.String("reason", "DATABASE_URL is empty"))
		return
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.StoreOpTimeout)
	if err != nil {
		log.Fatal("connect pg", zap.Error(err))
	}
	defer db.Close()
	if err := pg.RunMigrations(ctx, db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	rec := domain.ConversionRecord{
		ID:        uuid.NewString(),
		From:      src,
		To:        dst,
		Amount:    *amount,
		Rate:      *rate,
		Converted: application.RoundConverted(*amount, *rate),
		CreatedAt: now,
	}
	if err := pg.NewConversionRepo(db).Insert(ctx, rec); err != nil {
		log.Fatal("seed conversion", zap.Error(err))
	}
	log.Info("seed.conversion", zap.String("id", rec.ID), zap.Float64("converted", rec.Converted))
}
