package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultStoreTimeout bounds a single durable-store call.
const DefaultStoreTimeout = 2 * time.Second

type Clock interface{ Now() time.Time }

type IDGen interface{ NewID() string }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type defaultIDGen struct{}

func (defaultIDGen) NewID() string { return uuid.NewString() }

type options struct {
	clock   Clock
	idgen   IDGen
	log     *zap.Logger
	metrics Metrics

	// storeTimeout bounds each durable-store call.
	storeTimeout time.Duration
}

type Option func(*options)

func WithClock(c Clock) Option { return func(o *options) { o.clock = c } }
func WithIDGen(g IDGen) Option { return func(o *options) { o.idgen = g } }
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }
func WithMetrics(m Metrics) Option { return func(o *options) { o.metrics = m } }
func WithStoreTimeout(d time.Duration) Option {
	return func(o *options) { o.storeTimeout = d }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = realClock{}
	}
	if o.idgen == nil {
		o.idgen = defaultIDGen{}
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.metrics == nil {
		o.metrics = NoopMetrics{}
	}
	if o.storeTimeout <= 0 {
		o.storeTimeout = DefaultStoreTimeout
	}
	return o
}

// storeCtx derives the context for one durable-store call.
func (o options) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.storeTimeout)
}
