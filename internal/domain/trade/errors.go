package trade

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCounterparty indicates the proposal mentions no user.
	ErrMissingCounterparty = errors.New("trade needs exactly one mentioned user")
	// ErrInvalidItemArg indicates an item argument outside the grammar.
	ErrInvalidItemArg = errors.New("invalid item argument")
	// ErrSelfTrade indicates the initiator named themselves.
	ErrSelfTrade = errors.New("cannot trade with yourself")
	// ErrBothGifts indicates both item arguments are "n/a".
	ErrBothGifts = errors.New("both sides of a trade cannot be n/a")
	// ErrItemNotOwned indicates a party has no untraded matching record.
	ErrItemNotOwned = errors.New("item not owned")
	// ErrStaleOffer indicates a snapshotted record changed before accept.
	ErrStaleOffer = errors.New("trade data is outdated")
	// ErrOfferClosed indicates the offer already reached a terminal state.
	ErrOfferClosed = errors.New("trade offer is closed")
	// ErrNotCounterparty indicates someone other than the counterparty tried to accept.
	ErrNotCounterparty = errors.New("only the counterparty can accept")
	// ErrNotParticipant indicates an outsider tried to cancel.
	ErrNotParticipant = errors.New("only trade participants can cancel")
	// ErrPartialSettlement indicates some settlement steps applied and a later one failed.
	ErrPartialSettlement = errors.New("trade settlement partially applied")
)

// ArgError reports which item argument failed to parse. Position is 1
// for the initiator's item and 2 for the counterparty's.
type ArgError struct {
	Position int
	Raw      string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("invalid item argument %d %q: expected a number, a number followed by 's', or n/a", e.Position, e.Raw)
}

func (e *ArgError) Unwrap() error { return ErrInvalidItemArg }

// MissingItemError reports a side whose giver lacks the item.
type MissingItemError struct {
	Giver Party
	// Initiator is true when the giver proposed the trade.
	Initiator bool
	Arg       ItemArg
}

func (e *MissingItemError) Error() string {
	return fmt.Sprintf("user %s has no untraded item %s", e.Giver.ID, e.Arg)
}

func (e *MissingItemError) Unwrap() error { return ErrItemNotOwned }

// PartialSettlementError lists the steps that were applied before Failed
// could not be.
type PartialSettlementError struct {
	OfferID string
	Applied []Step
	Failed  Step
	Err     error
}

func (e *PartialSettlementError) Error() string {
	applied := make([]string, 0, len(e.Applied))
	for _, step := range e.Applied {
		applied = append(applied, fmt.Sprintf("%s(%s)", step.Kind, step.RecordID))
	}
	return fmt.Sprintf("trade %s: %s failed after [%s]: %v",
		e.OfferID, e.Failed.Kind, strings.Join(applied, ", "), e.Err)
}

func (e *PartialSettlementError) Unwrap() []error {
	return []error{ErrPartialSettlement, e.Err}
}
