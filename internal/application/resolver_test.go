package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"fxconvert-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func newMemCache() *RateCache { return NewRateCache(nil, false, testTTL) }

func TestResolve_IdentityPair(t *testing.T) {
	t.Parallel()
	p := &fakeRateProvider{rate: 9}
	c := newMemCache()
	r := NewResolver(c, p, ResolverConfig{})

	for _, cur := range []string{"USD", "eur", " Cop ", "XYZ"} {
		res, err := r.Resolve(context.Background(), cur, domain.NormalizeCurrency(cur))
		require.NoError(t, err)
		require.Equal(t, 1.0, res.Rate)
		require.Equal(t, SourceIdentity, res.Source)
	}
	require.Zero(t, p.Calls())
	require.Zero(t, c.memLen())
}

func TestResolve_CacheHitSkipsExternal(t *testing.T) {
	t.Parallel()
	p := &fakeRateProvider{rate: 9}
	c := newMemCache()
	c.Put(context.Background(), "GBP", "USD", 1.27)
	r := NewResolver(c, p, ResolverConfig{})

	res, err := r.Resolve(context.Background(), "gbp", "usd")
	require.NoError(t, err)
	require.InDelta(t, 1.27, res.Rate, 1e-12)
	require.Equal(t, SourceCache, res.Source)
	require.Zero(t, p.Calls())
}

func TestResolve_ExternalSeedsCache(t *testing.T) {
	t.Parallel()
	p := &fakeRateProvider{rate: 0.79}
	c := newMemCache()
	r := NewResolver(c, p, ResolverConfig{})

	res, err := r.Resolve(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	require.Equal(t, SourceExternal, res.Source)
	require.InDelta(t, 0.79, res.Rate, 1e-12)

	res, err = r.Resolve(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	require.Equal(t, SourceCache, res.Source)
	require.Equal(t, 1, p.Calls())
}

func TestResolve_StaticWhenNoExternal(t *testing.T) {
	t.Parallel()
	c := newMemCache()
	r := NewResolver(c, nil, ResolverConfig{Static: domain.RateTable{"AAA_BBB": 2.5}})

	res, err := r.Resolve(context.Background(), "aaa", "bbb")
	require.NoError(t, err)
	require.Equal(t, 2.5, res.Rate)
	require.Equal(t, SourceStatic, res.Source)

	rate, ok := c.Get(context.Background(), "AAA", "BBB")
	require.True(t, ok)
	require.Equal(t, 2.5, rate)
}

func TestResolve_StaticWhenExternalFails(t *testing.T) {
	t.Parallel()
	m := newSpyMetrics()
	p := &fakeRateProvider{err: errors.New("timeout")}
	r := NewResolver(newMemCache(), p, ResolverConfig{}, WithMetrics(m))

	res, err := r.Resolve(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, 0.85, res.Rate)
	require.Equal(t, SourceStatic, res.Source)
	require.Equal(t, 1, m.degraded["external_source.fetch"])
}

func TestResolve_DefaultFloor(t *testing.T) {
	t.Parallel()
	c := newMemCache()
	p := &fakeRateProvider{err: errors.New("boom")}
	r := NewResolver(c, p, ResolverConfig{Static: domain.RateTable{}})

	res, err := r.Resolve(context.Background(), "JPY", "CHF")
	require.NoError(t, err)
	require.Equal(t, DefaultRate, res.Rate)
	require.Equal(t, SourceDefault, res.Source)

	rate, ok := c.Get(context.Background(), "JPY", "CHF")
	require.True(t, ok)
	require.Equal(t, 1.0, rate)
}

type blockingProvider struct{}

func (blockingProvider) Get(ctx context.Context, _, _ string) (domain.Quote, error) {
	<-ctx.Done()
	return domain.Quote{}, ctx.Err()
}

func TestResolve_ExternalTimeoutFallsBack(t *testing.T) {
	t.Parallel()
	r := NewResolver(newMemCache(), blockingProvider{}, ResolverConfig{ExternalTimeout: 20 * time.Millisecond})

	start := time.Now()
	res, err := r.Resolve(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	require.Equal(t, SourceStatic, res.Source)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestResolve_StrictExhausted(t *testing.T) {
	t.Parallel()
	c := newMemCache()
	p := &fakeRateProvider{err: errors.New("upstream 503")}
	r := NewResolver(c, p, ResolverConfig{Strict: true})

	_, err := r.Resolve(context.Background(), "USD", "EUR")
	require.ErrorIs(t, err, ErrResolutionExhausted)
	require.Contains(t, err.Error(), "USD_EUR")
	require.Zero(t, c.memLen())
}

func TestResolve_StrictWithoutProviderUsesFloor(t *testing.T) {
	t.Parallel()
	r := NewResolver(newMemCache(), nil, ResolverConfig{Strict: true})
	res, err := r.Resolve(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, SourceStatic, res.Source)
}

func TestResolve_WritesThroughDurableCache(t *testing.T) {
	t.Parallel()
	store := &fakeRateStore{}
	c := NewRateCache(store, true, testTTL)
	r := NewResolver(c, nil, ResolverConfig{})

	_, err := r.Resolve(context.Background(), "COP", "USD")
	require.NoError(t, err)
	require.InDelta(t, 0.000263, store.store["COP_USD"].Rate, 1e-12)
}
