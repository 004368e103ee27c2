package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/bootstrap"
	"fxconvert-service/internal/config"
	httpserver "fxconvert-service/internal/infrastructure/http"
	"fxconvert-service/internal/infrastructure/logx"
	"fxconvert-service/internal/infrastructure/metrics"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := logx.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("invalid LOG_LEVEL", zap.String("level", cfg.LogLevel), zap.Error(err))
	}
	addr := ":" + cfg.Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	stores, cleanup := bootstrap.BuildStores(ctx, cfg, logger)
	defer cleanup()

	rateProvider, err := bootstrap.BuildRateProvider(cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap rate provider", zap.Error(err))
	}

	svc := bootstrap.BuildService(cfg, stores, rateProvider,
		application.WithLogger(logger),
		application.WithMetrics(m),
	)
	srv := httpserver.NewServer(svc)
	srv.SetMetrics(reg)
	if stores.DB != nil {
		srv.SetReadyCheck(stores.DB.Ping)
	}
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("provider", cfg.Provider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
