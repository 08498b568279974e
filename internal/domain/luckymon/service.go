package luckymon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/borfus/corkboard-bot/internal/catalog"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/repository"
)

// Claim is the result of a daily claim.
type Claim struct {
	Allocation
	UserID string
	Day    time.Time
	Item   catalog.Item
	// Recorded is true when this call stored the record.
	Recorded bool
}

// Service hands out daily items and records them in the inventory.
type Service struct {
	alloc   *Allocator
	repo    inventory.Repository
	catalog Catalog
	guard   ClaimGuard
	clock   clock.Clock
	loc     *time.Location
	logger  *slog.Logger
}

// Options configures a Service. Guard and Location are optional.
type Options struct {
	Allocator *Allocator
	Repo      inventory.Repository
	Catalog   Catalog
	Guard     ClaimGuard
	Clock     clock.Clock
	Location  *time.Location
	Logger    *slog.Logger
}

// NewService creates a new luckymon service.
func NewService(opts Options) *Service {
	s := &Service{
		alloc:   opts.Allocator,
		repo:    opts.Repo,
		catalog: opts.Catalog,
		guard:   opts.Guard,
		clock:   opts.Clock,
		loc:     opts.Location,
		logger:  opts.Logger,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Today returns the current calendar date in the configured zone.
func (s *Service) Today() time.Time {
	now := s.clock.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Peek returns the allocation for userID on day without recording it.
func (s *Service) Peek(ctx context.Context, userID string, day time.Time) (*Claim, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUser
	}
	day = inventory.Day(day)
	alloc := s.alloc.Allocate(userID, day)
	return &Claim{
		Allocation: alloc,
		UserID:     userID,
		Day:        day,
		Item:       s.lookup(ctx, alloc.ItemID),
	}, nil
}

// Claim returns today's allocation for userID and records it in the
// inventory the first time it is claimed that day.
func (s *Service) Claim(ctx context.Context, userID string) (*Claim, error) {
	claim, err := s.Peek(ctx, userID, s.Today())
	if err != nil {
		return nil, err
	}

	if s.guard != nil {
		fresh, err := s.guard.AcquireDaily(ctx, userID, claim.Day)
		if err != nil {
			s.logger.Warn("claim guard unavailable, falling back to store check", "user_id", userID, "error", err)
		} else if !fresh {
			return claim, nil
		}
	}

	recorded, err := s.hasRecord(ctx, claim)
	if err != nil {
		s.release(ctx, claim)
		return nil, err
	}
	if recorded {
		return claim, nil
	}

	_, err = s.repo.Create(ctx, inventory.CreateRequest{
		OwnerID:    userID,
		AcquiredOn: claim.Day,
		ItemID:     claim.ItemID,
		ItemName:   claim.Item.Name,
		Rare:       claim.Rare,
	})
	if errors.Is(err, repository.ErrConflict) {
		// Another instance recorded today's claim first.
		return claim, nil
	}
	if err != nil {
		s.release(ctx, claim)
		return nil, fmt.Errorf("recording daily claim: %w", err)
	}
	claim.Recorded = true
	s.logger.Info("daily claim recorded", "user_id", userID, "item_id", claim.ItemID, "rare", claim.Rare, "day", claim.Day.Format(inventory.DateLayout))
	return claim, nil
}

func (s *Service) hasRecord(ctx context.Context, claim *Claim) (bool, error) {
	recs, err := s.repo.ListByOwner(ctx, claim.UserID)
	if err != nil {
		return false, fmt.Errorf("listing records: %w", err)
	}
	for _, rec := range recs {
		// Records received in a trade never count as the daily claim.
		if !rec.ViaTrade && rec.AcquiredOn.Equal(claim.Day) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) release(ctx context.Context, claim *Claim) {
	if s.guard == nil {
		return
	}
	if err := s.guard.ReleaseDaily(ctx, claim.UserID, claim.Day); err != nil {
		s.logger.Warn("releasing claim guard", "user_id", claim.UserID, "error", err)
	}
}

func (s *Service) lookup(ctx context.Context, itemID int) catalog.Item {
	if s.catalog == nil {
		return catalog.Fallback(itemID)
	}
	item, err := s.catalog.Lookup(ctx, itemID)
	if err != nil {
		s.logger.Warn("catalog lookup failed", "item_id", itemID, "error", err)
		return catalog.Fallback(itemID)
	}
	return item
}
