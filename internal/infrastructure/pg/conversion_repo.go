package pg

import (
	"context"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/domain"
	"fxconvert-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

var _ application.LedgerStore = (*ConversionRepo)(nil)

type ConversionRepo struct{ db *DB }

func NewConversionRepo(db *DB) *ConversionRepo { return &ConversionRepo{db: db} }

func (r *ConversionRepo) Insert(ctx context.Context, rec domain.ConversionRecord) error {
	const ins = `
        INSERT INTO conversions(id, from_currency, to_currency, amount, rate, converted, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	log := logx.L().With(
		zap.String("repo", "conversion"),
		zap.String("operation", "Insert"),
		zap.String("id", rec.ID),
	)
	tag, err := r.db.Pool.Exec(ctx, ins, rec.ID, rec.From, rec.To, rec.Amount, rec.Rate, rec.Converted, rec.CreatedAt)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

// ListRecent returns up to limit conversions, newest first.
func (r *ConversionRepo) ListRecent(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	const q = `
        SELECT id::text, from_currency, to_currency, amount, rate, converted, created_at
        FROM conversions
        ORDER BY created_at DESC
        LIMIT $1`
	log := logx.L().With(
		zap.String("repo", "conversion"),
		zap.String("operation", "ListRecent"),
		zap.Int("limit", limit),
	)
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.ConversionRecord, 0, limit)
	for rows.Next() {
		var rec domain.ConversionRecord
		if err := rows.Scan(&rec.ID, &rec.From, &rec.To, &rec.Amount, &rec.Rate, &rec.Converted, &rec.CreatedAt); err != nil {
			log.Error("sql.scan_failed", zap.Error(err))
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("sql.rows_failed", zap.Error(err))
		return nil, err
	}
	log.Debug("sql.query_success", zap.Int("rows", len(out)))
	return out, nil
}
