package application

import (
	"context"

	"fxconvert-service/internal/domain"
)

// RateStore is the durable tier of the rate cache. Get returns
// domain.ErrNotFound on a miss and domain.ErrMalformed for an undecodable entry.
type RateStore interface {
	Get(ctx context.Context, key string) (domain.RateCacheEntry, error)
	Upsert(ctx context.Context, e domain.RateCacheEntry) error
}

// LedgerStore is the durable tier of the conversion ledger.
type LedgerStore interface {
	Insert(ctx context.Context, rec domain.ConversionRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.ConversionRecord, error)
}

type RateProvider interface {
	Get(ctx context.Context, from, to string) (domain.Quote, error)
}
