package trade

import (
	"sort"
	"strconv"
	"strings"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
)

// GiftArg is the item argument meaning "nothing in return".
const GiftArg = "n/a"

// ItemArg is a parsed item argument: a bare item ID, an item ID with an
// "s" suffix requiring the rare variant, or "n/a".
type ItemArg struct {
	Gift   bool
	ItemID int
	// RareOnly is set by the "s" suffix.
	RareOnly bool
}

// ParseItemArg parses one item argument. Matching is case-insensitive.
func ParseItemArg(raw string) (ItemArg, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == GiftArg {
		return ItemArg{Gift: true}, true
	}
	rare := strings.HasSuffix(s, "s")
	if rare {
		s = s[:len(s)-1]
	}
	if s == "" {
		return ItemArg{}, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ItemArg{}, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return ItemArg{}, false
	}
	return ItemArg{ItemID: id, RareOnly: rare}, true
}

// String formats the argument the way a user would type it.
func (a ItemArg) String() string {
	switch {
	case a.Gift:
		return "N/A"
	case a.RareOnly:
		return strconv.Itoa(a.ItemID) + "s"
	default:
		return strconv.Itoa(a.ItemID)
	}
}

// Matches reports whether rec can satisfy the argument.
func (a ItemArg) Matches(rec inventory.Record) bool {
	if a.Gift || !rec.Available() || rec.ItemID != a.ItemID {
		return false
	}
	return !a.RareOnly || rec.Rare
}

// Pick selects the record to trade for the argument. Without the rare
// suffix a regular record is preferred over a rare one; ties go to the
// oldest record, then the lowest ID.
func (a ItemArg) Pick(recs []inventory.Record) (inventory.Record, bool) {
	var matches []inventory.Record
	for _, rec := range recs {
		if a.Matches(rec) {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return inventory.Record{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		x, y := matches[i], matches[j]
		if x.Rare != y.Rare {
			return !x.Rare
		}
		if !x.AcquiredOn.Equal(y.AcquiredOn) {
			return x.AcquiredOn.Before(y.AcquiredOn)
		}
		return x.ID < y.ID
	})
	return matches[0], true
}
