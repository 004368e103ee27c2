package logx

import (
	"context"
	"strings"

	"fxconvert-service/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	level  zap.AtomicLevel
)

func init() {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	level = zapCfg.Level

	// this init runs before the importing command's, so .env is read here too
	_ = godotenv.Load()
	appCfg, _ := config.Load()
	if appCfg.LogLevel != "" {
		_ = SetLevel(appCfg.LogLevel)
	}

	var err error
	logger, err = zapCfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
}

// SetLevel changes the level of the package logger in place.
func SetLevel(lvl string) error {
	return level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(lvl))))
}

// L returns the package-level logger instance.
func L() *zap.Logger {
	return logger
}

type ctxKey struct{}

// WithContext stores request-scoped fields for WithFields.
func WithContext(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxKey{}).([]zap.Field)
	merged := append(append([]zap.Field{}, prev...), fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// WithFields enriches logs with request IDs / trace IDs from context.
func WithFields(ctx context.Context) *zap.Logger {
	if fields, ok := ctx.Value(ctxKey{}).([]zap.Field); ok {
		return logger.With(fields...)
	}
	return logger
}
