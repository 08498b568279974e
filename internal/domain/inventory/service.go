package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/borfus/corkboard-bot/internal/repository"
)

// Service wraps a Repository with validation and read helpers.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new inventory service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Get fetches a record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// Available returns the owner's untraded records ordered by item ID,
// then acquisition date, then record ID.
func (s *Service) Available(ctx context.Context, ownerID string) ([]Record, error) {
	all, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	out := make([]Record, 0, len(all))
	for _, rec := range all {
		if rec.Available() {
			out = append(out, rec)
		}
	}
	SortRecords(out)
	return out, nil
}

// Create validates and stores a new record.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if strings.TrimSpace(req.OwnerID) == "" || req.ItemID <= 0 || req.AcquiredOn.IsZero() {
		return nil, ErrInvalidInput
	}
	req.AcquiredOn = Day(req.AcquiredOn)

	rec, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}
	s.logger.Debug("inventory record created",
		"record_id", rec.ID, "owner_id", rec.OwnerID, "item_id", rec.ItemID, "via_trade", req.ViaTrade)
	return rec, nil
}

// SortRecords orders records by item ID, acquisition date and ID.
func SortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		if !a.AcquiredOn.Equal(b.AcquiredOn) {
			return a.AcquiredOn.Before(b.AcquiredOn)
		}
		return a.ID < b.ID
	})
}
