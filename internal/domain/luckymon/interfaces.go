package luckymon

import (
	"context"
	"time"

	"github.com/borfus/corkboard-bot/internal/catalog"
)

// Catalog resolves display data for an item.
type Catalog interface {
	Lookup(ctx context.Context, itemID int) (catalog.Item, error)
}

// ClaimGuard deduplicates daily claims across processes. AcquireDaily
// reports false when the claim was already taken.
type ClaimGuard interface {
	AcquireDaily(ctx context.Context, userID string, day time.Time) (bool, error)
	ReleaseDaily(ctx context.Context, userID string, day time.Time) error
}
