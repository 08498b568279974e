package board

import (
	"context"
	"time"
)

// Repository provides persistence for board entries.
type Repository interface {
	ListPins(ctx context.Context, guildID string) ([]Pin, error)
	CreatePin(ctx context.Context, pin *Pin) error
	UpdatePin(ctx context.Context, pin *Pin) error
	DeletePin(ctx context.Context, id string) error
	ListCurrentEvents(ctx context.Context, guildID string, now time.Time) ([]Event, error)
	ListFAQs(ctx context.Context, guildID string) ([]FAQ, error)
}
