package application

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fxconvert-service/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const convertedPlaces = 6

// ConvertInput carries raw request fields; Amount is parsed here.
type ConvertInput struct {
	From   string
	To     string
	Amount string
}

type Health struct {
	CacheDurable   bool
	LedgerDurable  bool
	ExternalSource bool
	StaticRates    int
}

// ConversionService answers conversion requests and records them.
type ConversionService struct {
	cache    *RateCache
	resolver *Resolver
	ledger   *Ledger
	opts     options
}

func NewConversionService(cache *RateCache, resolver *Resolver, ledger *Ledger, opts ...Option) *ConversionService {
	o := buildOptions(opts)
	return &ConversionService{cache: cache, resolver: resolver, ledger: ledger, opts: o}
}

// Convert validates in, resolves the pair rate and appends a ledger record.
// Errors wrap ErrBadRequest or, in strict resolution, ErrResolutionExhausted.
func (s *ConversionService) Convert(ctx context.Context, in ConvertInput) (domain.ConversionRecord, error) {
	if strings.TrimSpace(in.From) == "" || strings.TrimSpace(in.To) == "" || strings.TrimSpace(in.Amount) == "" {
		return domain.ConversionRecord{}, fmt.Errorf("%w: from, to and amount are required", ErrBadRequest)
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(in.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.ConversionRecord{}, fmt.Errorf("%w: amount must be numeric", ErrBadRequest)
	}
	from, to := domain.NormalizeCurrency(in.From), domain.NormalizeCurrency(in.To)

	res, err := s.resolver.Resolve(ctx, from, to)
	if err != nil {
		return domain.ConversionRecord{}, err
	}

	rec := domain.ConversionRecord{
		ID:        s.opts.idgen.NewID(),
		From:      from,
		To:        to,
		Amount:    amount,
		Rate:      res.Rate,
		Converted: RoundConverted(amount, res.Rate),
		CreatedAt: s.opts.clock.Now(),
	}
	s.ledger.Append(ctx, rec)

	s.opts.log.Debug("conversion.done",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("source", string(res.Source)),
	)
	return rec, nil
}

// History returns the latest conversions, newest first.
func (s *ConversionService) History(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	return s.ledger.List(ctx, limit)
}

func (s *ConversionService) Health() Health {
	return Health{
		CacheDurable:   s.cache.DurableAvailable(),
		LedgerDurable:  s.ledger.DurableAvailable(),
		ExternalSource: s.resolver.HasExternalSource(),
		StaticRates:    s.resolver.StaticRateCount(),
	}
}

// RoundConverted returns amount*rate rounded half away from zero to six places.
func RoundConverted(amount, rate float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Round(convertedPlaces).Float64()
	return v
}
