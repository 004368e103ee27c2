package httpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/domain"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("conv-%d", g.n)
}

type brokenLedgerStore struct{}

func (brokenLedgerStore) Insert(context.Context, domain.ConversionRecord) error {
	return errors.New("ledger down")
}

func (brokenLedgerStore) ListRecent(context.Context, int) ([]domain.ConversionRecord, error) {
	return nil, errors.New("ledger down")
}

type downProvider struct{}

func (downProvider) Get(context.Context, string, string) (domain.Quote, error) {
	return domain.Quote{}, errors.New("provider down")
}

type serviceOpts struct {
	ledger         application.LedgerStore
	ledgerUp       bool
	memoryFallback bool
	provider       application.RateProvider
	strict         bool
	metrics        application.Metrics
}

// newInMemoryService wires a service with no durable tiers unless o says otherwise.
func newInMemoryService(o serviceOpts) *application.ConversionService {
	opts := []application.Option{
		application.WithClock(&stepClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}),
		application.WithIDGen(&seqIDs{}),
	}
	if o.metrics != nil {
		opts = append(opts, application.WithMetrics(o.metrics))
	}
	cache := application.NewRateCache(nil, false, time.Minute, opts...)
	resolver := application.NewResolver(cache, o.provider, application.ResolverConfig{Strict: o.strict}, opts...)
	ledger := application.NewLedger(o.ledger, o.ledgerUp, application.LedgerConfig{
		Max:            application.DefaultHistoryMax,
		MemoryFallback: o.memoryFallback,
	}, opts...)
	return application.NewConversionService(cache, resolver, ledger, opts...)
}
