package trade

import (
	"time"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
)

// Button custom IDs.
const (
	AcceptButtonID = "accept_trade"
	CancelButtonID = "cancel_trade"
)

// State is the lifecycle state of an offer.
type State string

const (
	StateProposed  State = "proposed"
	StateAccepted  State = "accepted"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
	StateAborted   State = "aborted"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s != StateProposed
}

// Party is one side of a trade.
type Party struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Side is what one party gives. Record is nil for a gift.
type Side struct {
	Giver  Party             `json:"giver"`
	Arg    ItemArg           `json:"arg"`
	Record *inventory.Record `json:"record,omitempty"`
}

// Gift reports whether this side gives nothing.
func (s Side) Gift() bool {
	return s.Record == nil
}

// StepKind names a settlement mutation.
type StepKind string

const (
	StepCreate     StepKind = "create"
	StepMarkTraded StepKind = "mark_traded"
)

// Step is one settlement mutation. RecordID is the record marked traded
// or, for an applied create, the newly created record.
type Step struct {
	Kind     StepKind `json:"kind"`
	RecordID string   `json:"record_id,omitempty"`
	OwnerID  string   `json:"owner_id"`
	ItemID   int      `json:"item_id"`
}

// Offer is an in-memory trade proposal. It is owned by a single
// goroutine and is not safe for concurrent use.
type Offer struct {
	ID           string
	Initiator    Party
	Counterparty Party
	// Offered is given by the initiator; Requested by the counterparty.
	Offered   Side
	Requested Side
	CreatedAt time.Time
	TTL       time.Duration
	State     State
	ClosedBy  string
	Applied   []Step
}

// Deadline is the absolute expiry time.
func (o *Offer) Deadline() time.Time {
	return o.CreatedAt.Add(o.TTL)
}

// IsParticipant reports whether userID is the initiator or counterparty.
func (o *Offer) IsParticipant(userID string) bool {
	return userID == o.Initiator.ID || userID == o.Counterparty.ID
}

// RecordIDs returns the snapshotted record IDs, requested side first.
func (o *Offer) RecordIDs() []string {
	var ids []string
	for _, side := range o.sides() {
		if !side.Gift() {
			ids = append(ids, side.Record.ID)
		}
	}
	return ids
}

// sides lists the settlement order: the counterparty's item moves first.
func (o *Offer) sides() []Side {
	return []Side{o.Requested, o.Offered}
}

// receiver returns who gets the item of side.
func (o *Offer) receiver(side Side) Party {
	if side.Giver.ID == o.Initiator.ID {
		return o.Counterparty
	}
	return o.Initiator
}
