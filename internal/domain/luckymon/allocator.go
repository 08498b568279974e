package luckymon

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
)

const (
	// DefaultItemSpace is the number of allocatable items.
	DefaultItemSpace = 905
	// DefaultRarityDenominator gives a 1 in 128 rare chance.
	DefaultRarityDenominator = 128
)

// Allocation is the daily item derived for a user.
type Allocation struct {
	ItemID int  `json:"item_id"`
	Rare   bool `json:"rare"`
}

// Allocator derives a user's daily item from a hash of the user ID and
// the calendar date. It holds no mutable state and is safe for
// concurrent use.
type Allocator struct {
	itemSpace uint64
	rarity    uint64
}

// NewAllocator validates the item space and rarity denominator.
func NewAllocator(itemSpace, rarityDenominator int) (*Allocator, error) {
	if itemSpace <= 0 {
		return nil, fmt.Errorf("%w: item space must be positive, got %d", ErrInvalidConfig, itemSpace)
	}
	if rarityDenominator <= 0 {
		return nil, fmt.Errorf("%w: rarity denominator must be positive, got %d", ErrInvalidConfig, rarityDenominator)
	}
	return &Allocator{itemSpace: uint64(itemSpace), rarity: uint64(rarityDenominator)}, nil
}

// Allocate returns the item for userID on the calendar date of day.
// Only the year, month and day of day are used, in day's own location.
func (a *Allocator) Allocate(userID string, day time.Time) Allocation {
	h := Hash(userID, day)
	return Allocation{
		ItemID: int(h%a.itemSpace) + 1,
		Rare:   (h>>32)%a.rarity == 1,
	}
}

// Hash mixes the user ID and ISO date into 64 bits. The zero byte keeps
// ("1", "12-...") and ("11", "2-...") style inputs apart.
func Hash(userID string, day time.Time) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(userID)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(day.Format(inventory.DateLayout))
	return d.Sum64()
}
