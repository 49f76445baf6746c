package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneytrack/internal/amqp"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// RecordService serves both record families: listing, mutation, balance
// aggregation and chart bucketing.
type RecordService struct {
	repo   *storage.Repository
	events EventPublisher
}

func NewRecordService(repo *storage.Repository, events EventPublisher) *RecordService {
	return &RecordService{
		repo:   repo,
		events: events,
	}
}

// List returns the records matching the raw query parameters. Filter errors
// surface before the store is touched.
func (s *RecordService) List(ctx context.Context, family core.Family, params core.FilterParams, page, limit int) ([]core.FinancialRecord, error) {
	filter, err := core.BuildFilter(params)
	if err != nil {
		return nil, err
	}
	return s.repo.Collection(family).List(ctx, filter, page, limit)
}

// Create persists the record and asks the export worker to sync it. A
// publish failure is logged, never surfaced: the record is already stored.
func (s *RecordService) Create(ctx context.Context, family core.Family, rec core.FinancialRecord) (core.FinancialRecord, error) {
	created, err := s.repo.Collection(family).Create(ctx, rec)
	if err != nil {
		return core.FinancialRecord{}, err
	}

	s.publishSync(ctx, family, created.ID)
	return created, nil
}

// Update applies a partial update.
func (s *RecordService) Update(ctx context.Context, family core.Family, id string, u storage.RecordUpdate) (core.FinancialRecord, error) {
	updated, err := s.repo.Collection(family).Update(ctx, id, u)
	if err != nil {
		return core.FinancialRecord{}, err
	}

	s.publishSync(ctx, family, updated.ID)
	return updated, nil
}

// Delete removes the record and returns the removed row.
func (s *RecordService) Delete(ctx context.Context, family core.Family, id string) (core.FinancialRecord, error) {
	return s.repo.Collection(family).Delete(ctx, id)
}

// SumByKind returns the one-sided sum for the filter.
func (s *RecordService) SumByKind(ctx context.Context, family core.Family, params core.FilterParams, kind core.Kind) (core.Money, error) {
	filter, err := core.BuildFilter(params)
	if err != nil {
		return core.Money{}, err
	}
	cents, err := s.repo.Collection(family).SumByKind(ctx, filter, kind)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// NetBalance returns the signed balance for the filter.
func (s *RecordService) NetBalance(ctx context.Context, family core.Family, params core.FilterParams) (core.Money, error) {
	filter, err := core.BuildFilter(params)
	if err != nil {
		return core.Money{}, err
	}
	cents, err := s.repo.Collection(family).NetBalance(ctx, filter)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// Chart returns the day buckets for the filter.
func (s *RecordService) Chart(ctx context.Context, family core.Family, params core.FilterParams, groupByKind bool) ([]core.ChartPoint, error) {
	filter, err := core.BuildFilter(params)
	if err != nil {
		return nil, err
	}
	return s.repo.Collection(family).ChartPoints(ctx, filter, groupByKind)
}

func (s *RecordService) publishSync(ctx context.Context, family core.Family, id string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewRecordSyncMessage(id, string(family))
	if err := s.events.PublishRecordSync(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record sync message",
			"record_id", id, "family", family, "error", err)
	}
}

// Close releases the underlying storage.
func (s *RecordService) Close() error {
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
	}
	return nil
}
