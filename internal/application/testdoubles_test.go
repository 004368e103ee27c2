package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fxconvert-service/internal/domain"
)

var (
	ErrStore = errors.New("store error")
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("conv-%d", g.n)
}

type fakeRateStore struct {
	mu      sync.Mutex
	store   map[string]domain.RateCacheEntry
	err     error
	getErr  error
	gets    int
	upserts int
}

func (f *fakeRateStore) Get(_ context.Context, key string) (domain.RateCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return domain.RateCacheEntry{}, f.err
	}
	if f.getErr != nil {
		return domain.RateCacheEntry{}, f.getErr
	}
	e, ok := f.store[key]
	if !ok {
		return domain.RateCacheEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeRateStore) Upsert(_ context.Context, e domain.RateCacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string]domain.RateCacheEntry{}
	}
	f.store[e.Key] = e
	return nil
}

type fakeLedgerStore struct {
	mu   sync.Mutex
	recs []domain.ConversionRecord
	err  error
}

func (f *fakeLedgerStore) Insert(_ context.Context, rec domain.ConversionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeLedgerStore) ListRecent(_ context.Context, limit int) ([]domain.ConversionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ConversionRecord
	for i := len(f.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.recs[i])
	}
	return out, nil
}

type fakeRateProvider struct {
	mu    sync.Mutex
	rate  float64
	err   error
	calls int
}

func (f *fakeRateProvider) Get(_ context.Context, from, to string) (domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return domain.Quote{From: from, To: to, Rate: f.rate, QuotedAt: time.Now()}, nil
}

func (f *fakeRateProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type spyMetrics struct {
	mu       sync.Mutex
	degraded map[string]int
	resolved map[ResolutionSource]int
	recorded map[string]int
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{
		degraded: map[string]int{},
		resolved: map[ResolutionSource]int{},
		recorded: map[string]int{},
	}
}

func (m *spyMetrics) DependencyDegraded(component, op string) {
	m.mu.Lock()
	m.degraded[component+"."+op]++
	m.mu.Unlock()
}

func (m *spyMetrics) RateResolved(src ResolutionSource) {
	m.mu.Lock()
	m.resolved[src]++
	m.mu.Unlock()
}

func (m *spyMetrics) ConversionRecorded(tier string) {
	m.mu.Lock()
	m.recorded[tier]++
	m.mu.Unlock()
}

// stalledStore blocks every call until its context is done.
type stalledStore struct{}

func (stalledStore) Get(ctx context.Context, _ string) (domain.RateCacheEntry, error) {
	<-ctx.Done()
	return domain.RateCacheEntry{}, ctx.Err()
}

func (stalledStore) Upsert(ctx context.Context, _ domain.RateCacheEntry) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledStore) Insert(ctx context.Context, _ domain.ConversionRecord) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledStore) ListRecent(ctx context.Context, _ int) ([]domain.ConversionRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
