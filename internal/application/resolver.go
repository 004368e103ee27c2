package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fxconvert-service/internal/domain"

	"go.uber.org/zap"
)

const DefaultRate = 1.0

var errNoProvider = errors.New("no external source configured")

type Resolution struct {
	Rate   float64
	Source ResolutionSource
}

type ResolverConfig struct {
	// Static is the table of last resort; nil means domain.StaticRates.
	Static          domain.RateTable
	ExternalTimeout time.Duration
	// Strict disables the static table and default floor when an external
	// source is configured, so an external failure surfaces as
	// ErrResolutionExhausted.
	Strict bool
}

// Resolver walks the fallback chain cache -> external -> static -> default.
type Resolver struct {
	cache    *RateCache
	provider RateProvider
	cfg      ResolverConfig
	opts     options
}

// NewResolver builds a resolver; provider may be nil.
func NewResolver(cache *RateCache, provider RateProvider, cfg ResolverConfig, opts ...Option) *Resolver {
	o := buildOptions(opts)
	o.log = o.log.With(zap.String("component", "resolver"))
	if cfg.Static == nil {
		cfg.Static = domain.StaticRates
	}
	if cfg.ExternalTimeout <= 0 {
		cfg.ExternalTimeout = 8 * time.Second
	}
	return &Resolver{cache: cache, provider: provider, cfg: cfg, opts: o}
}

func (r *Resolver) HasExternalSource() bool { return r.provider != nil }

func (r *Resolver) StaticRateCount() int { return len(r.cfg.Static) }

// Resolve returns a usable rate for the pair. It only fails in strict mode.
func (r *Resolver) Resolve(ctx context.Context, from, to string) (Resolution, error) {
	from, to = domain.NormalizeCurrency(from), domain.NormalizeCurrency(to)
	if domain.IsIdentity(from, to) {
		r.opts.metrics.RateResolved(SourceIdentity)
		return Resolution{Rate: 1.0, Source: SourceIdentity}, nil
	}

	if rate, ok := r.cache.Get(ctx, from, to); ok {
		r.opts.metrics.RateResolved(SourceCache)
		return Resolution{Rate: rate, Source: SourceCache}, nil
	}

	res, err := r.fetchExternal(ctx, from, to)
	if err != nil {
		if r.cfg.Strict && r.provider != nil {
			return Resolution{}, fmt.Errorf("%w: %s: %v", ErrResolutionExhausted, domain.PairKey(from, to), err)
		}
		res = r.floor(from, to)
	}

	r.cache.Put(ctx, from, to, res.Rate)
	r.opts.metrics.RateResolved(res.Source)
	r.opts.log.Debug("resolver.resolved",
		zap.String("pair", domain.PairKey(from, to)),
		zap.String("source", string(res.Source)),
		zap.Float64("rate", res.Rate),
	)
	return res, nil
}

func (r *Resolver) fetchExternal(ctx context.Context, from, to string) (Resolution, error) {
	if r.provider == nil {
		return Resolution{}, errNoProvider
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ExternalTimeout)
	defer cancel()

	q, err := r.provider.Get(ctx, from, to)
	if err == nil && (math.IsNaN(q.Rate) || math.IsInf(q.Rate, 0)) {
		err = fmt.Errorf("non-finite rate %v", q.Rate)
	}
	if err != nil {
		r.opts.log.Warn("resolver.external_unavailable",
			zap.String("pair", domain.PairKey(from, to)),
			zap.Error(err),
		)
		r.opts.metrics.DependencyDegraded("external_source", "fetch")
		return Resolution{}, err
	}
	return Resolution{Rate: q.Rate, Source: SourceExternal}, nil
}

func (r *Resolver) floor(from, to string) Resolution {
	if rate, ok := r.cfg.Static.Lookup(from, to); ok {
		return Resolution{Rate: rate, Source: SourceStatic}
	}
	return Resolution{Rate: DefaultRate, Source: SourceDefault}
}
