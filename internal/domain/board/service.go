package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/repository"
)

// Service handles board reads and pin administration. Pins are
// addressed by their 1-based position in the current list.
type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new board service.
func NewService(repo Repository, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, clock: clk, logger: logger}
}

// Pins lists the guild's pins.
func (s *Service) Pins(ctx context.Context, guildID string) ([]Pin, error) {
	pins, err := s.repo.ListPins(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("listing pins: %w", err)
	}
	return pins, nil
}

// Events lists the guild's current events.
func (s *Service) Events(ctx context.Context, guildID string) ([]Event, error) {
	events, err := s.repo.ListCurrentEvents(ctx, guildID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// FAQs lists the guild's FAQs.
func (s *Service) FAQs(ctx context.Context, guildID string) ([]FAQ, error) {
	faqs, err := s.repo.ListFAQs(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("listing faqs: %w", err)
	}
	return faqs, nil
}

// Summary collects events, pins and FAQs for one guild.
func (s *Service) Summary(ctx context.Context, guildID string) (*Summary, error) {
	events, err := s.Events(ctx, guildID)
	if err != nil {
		return nil, err
	}
	pins, err := s.Pins(ctx, guildID)
	if err != nil {
		return nil, err
	}
	faqs, err := s.FAQs(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return &Summary{Events: events, Pins: pins, FAQs: faqs}, nil
}

// AddPin creates a pin.
func (s *Service) AddPin(ctx context.Context, guildID string, req PinRequest) (*Pin, error) {
	if err := validatePin(req); err != nil {
		return nil, err
	}
	pin := &Pin{GuildID: guildID, Title: req.Title, URL: req.URL, Description: req.Description}
	if err := s.repo.CreatePin(ctx, pin); err != nil {
		return nil, fmt.Errorf("creating pin: %w", err)
	}
	s.logger.Info("pin created", "guild_id", guildID, "pin_id", pin.ID)
	return pin, nil
}

// EditPin replaces the pin at position.
func (s *Service) EditPin(ctx context.Context, guildID string, position int, req PinRequest) (*Pin, error) {
	if err := validatePin(req); err != nil {
		return nil, err
	}
	current, err := s.pinAt(ctx, guildID, position)
	if err != nil {
		return nil, err
	}
	pin := &Pin{ID: current.ID, GuildID: guildID, Title: req.Title, URL: req.URL, Description: req.Description}
	if err := s.repo.UpdatePin(ctx, pin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, fmt.Errorf("updating pin: %w", err)
	}
	s.logger.Info("pin updated", "guild_id", guildID, "pin_id", pin.ID)
	return pin, nil
}

// DeletePin removes the pin at position and returns it.
func (s *Service) DeletePin(ctx context.Context, guildID string, position int) (*Pin, error) {
	current, err := s.pinAt(ctx, guildID, position)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeletePin(ctx, current.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, fmt.Errorf("deleting pin: %w", err)
	}
	s.logger.Info("pin deleted", "guild_id", guildID, "pin_id", current.ID)
	return &current, nil
}

func (s *Service) pinAt(ctx context.Context, guildID string, position int) (Pin, error) {
	pins, err := s.Pins(ctx, guildID)
	if err != nil {
		return Pin{}, err
	}
	if position < 1 || position > len(pins) {
		return Pin{}, ErrInvalidPosition
	}
	return pins[position-1], nil
}

func validatePin(req PinRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	u, err := url.Parse(req.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url must be absolute", ErrInvalidInput)
	}
	return nil
}
