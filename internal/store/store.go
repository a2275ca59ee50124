package store

import (
	"context"

	"armsatlas/internal/model"
)

// Store persists the enriched trade register so enrichment runs once and
// later renders reuse it. Computed aggregates are never persisted.
type Store interface {
	UpsertRecords(ctx context.Context, records []model.TradeRecord) error
	ListRecords(ctx context.Context) ([]model.TradeRecord, error)
	Close() error
}

// NopStore discards writes and lists nothing. Used when persistence is
// disabled.
type NopStore struct{}

func (s *NopStore) UpsertRecords(ctx context.Context, records []model.TradeRecord) error {
	_ = ctx
	_ = records
	return nil
}

func (s *NopStore) ListRecords(ctx context.Context) ([]model.TradeRecord, error) {
	_ = ctx
	return nil, nil
}

func (s *NopStore) Close() error {
	return nil
}
