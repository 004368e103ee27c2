package provider

import (
	"context"
	"time"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/domain"
)

// Ensure Fake implements application.RateProvider.
var _ application.RateProvider = (*Fake)(nil)

// Fake quotes the same rate for every pair.
type Fake struct {
	rate float64
}

func NewFake(rate float64) *Fake { return &Fake{rate: rate} }

func (f *Fake) Get(_ context.Context, from, to string) (domain.Quote, error) {
	return domain.Quote{
		From:     domain.NormalizeCurrency(from),
		To:       domain.NormalizeCurrency(to),
		Rate:     f.rate,
		QuotedAt: time.Now().UTC(),
	}, nil
}
