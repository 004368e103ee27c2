package application

import (
	"context"
	"sync"

	"fxconvert-service/internal/domain"

	"go.uber.org/zap"
)

const DefaultHistoryMax = 1000

type LedgerConfig struct {
	// Max caps the in-memory fallback history.
	Max int
	// MemoryFallback serves List from memory when the durable tier fails.
	// When false such reads return ErrHistoryUnavailable.
	MemoryFallback bool
}

// Ledger is the append-only conversion history.
type Ledger struct {
	durable   LedgerStore
	available bool
	cfg       LedgerConfig
	opts      options

	mu  sync.Mutex
	mem *recordRing
}

func NewLedger(durable LedgerStore, available bool, cfg LedgerConfig, opts ...Option) *Ledger {
	o := buildOptions(opts)
	o.log = o.log.With(zap.String("component", "ledger"))
	if cfg.Max <= 0 {
		cfg.Max = DefaultHistoryMax
	}
	return &Ledger{
		durable:   durable,
		available: available && durable != nil,
		cfg:       cfg,
		opts:      o,
		mem:       newRecordRing(cfg.Max),
	}
}

func (l *Ledger) DurableAvailable() bool { return l.available }

// Append records rec. Failures of the durable tier are absorbed by the
// memory tier; nothing is reported to the caller.
func (l *Ledger) Append(ctx context.Context, rec domain.ConversionRecord) {
	if rec.ID == "" {
		rec.ID = l.opts.idgen.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.opts.clock.Now()
	}
	if l.available {
		sctx, cancel := l.opts.storeCtx(ctx)
		err := l.durable.Insert(sctx, rec)
		cancel()
		if err == nil {
			l.opts.metrics.ConversionRecorded(TierDurable)
			return
		}
		l.opts.log.Warn("ledger.durable_insert_failed", zap.String("id", rec.ID), zap.Error(err))
		l.opts.metrics.DependencyDegraded("ledger", "insert")
	}
	l.mu.Lock()
	l.mem.push(rec)
	l.mu.Unlock()
	l.opts.metrics.ConversionRecorded(TierMemory)
}

// List returns up to limit records, newest first. limit is clamped to >= 1.
func (l *Ledger) List(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	if limit < 1 {
		limit = 1
	}
	if l.available {
		sctx, cancel := l.opts.storeCtx(ctx)
		recs, err := l.durable.ListRecent(sctx, limit)
		cancel()
		if err == nil {
			return recs, nil
		}
		l.opts.log.Warn("ledger.durable_list_failed", zap.Int("limit", limit), zap.Error(err))
		l.opts.metrics.DependencyDegraded("ledger", "list")
	}
	if !l.cfg.MemoryFallback {
		return nil, ErrHistoryUnavailable
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mem.newest(limit), nil
}

// recordRing keeps the last cap records; the oldest is overwritten on overflow.
type recordRing struct {
	buf  []domain.ConversionRecord
	next int
	size int
}

func newRecordRing(capacity int) *recordRing {
	return &recordRing{buf: make([]domain.ConversionRecord, capacity)}
}

func (r *recordRing) push(rec domain.ConversionRecord) {
	r.buf[r.next] = rec
	r.next = (r.next + 1) % len(r.buf)
	if r.size < len(r.buf) {
		r.size++
	}
}

func (r *recordRing) newest(n int) []domain.ConversionRecord {
	if n > r.size {
		n = r.size
	}
	out := make([]domain.ConversionRecord, n)
	for i := 0; i < n; i++ {
		idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
		out[i] = r.buf[idx]
	}
	return out
}
