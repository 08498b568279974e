package trade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/repository"
)

const (
	// DefaultTTL is how long an offer waits for an answer.
	DefaultTTL = 20 * time.Minute
	// settleLockTTL bounds how long a crashed process can block a record.
	settleLockTTL = 30 * time.Second
)

// Coordinator validates proposals and drives offers to a terminal state.
// Ownership is never cached: acceptance re-reads every snapshotted
// record before mutating anything.
type Coordinator struct {
	repo   inventory.Repository
	locker RecordLocker
	clock  clock.Clock
	ttl    time.Duration
	logger *slog.Logger
}

// NewCoordinator creates a coordinator. locker may be nil.
func NewCoordinator(repo inventory.Repository, locker RecordLocker, clk clock.Clock, ttl time.Duration, logger *slog.Logger) *Coordinator {
	if clk == nil {
		clk = clock.Real()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{repo: repo, locker: locker, clock: clk, ttl: ttl, logger: logger}
}

// ProposeRequest is a parsed trade command.
type ProposeRequest struct {
	Initiator    Party
	Counterparty Party
	// OfferedArg is what the initiator gives; RequestedArg what they want.
	OfferedArg   string
	RequestedArg string
}

// Propose validates a request and snapshots the matched records.
func (c *Coordinator) Propose(ctx context.Context, req ProposeRequest) (*Offer, error) {
	if req.Counterparty.ID == "" {
		return nil, ErrMissingCounterparty
	}
	if req.Counterparty.ID == req.Initiator.ID {
		return nil, ErrSelfTrade
	}
	offeredArg, ok := ParseItemArg(req.OfferedArg)
	if !ok {
		return nil, &ArgError{Position: 1, Raw: req.OfferedArg}
	}
	requestedArg, ok := ParseItemArg(req.RequestedArg)
	if !ok {
		return nil, &ArgError{Position: 2, Raw: req.RequestedArg}
	}
	if offeredArg.Gift && requestedArg.Gift {
		return nil, ErrBothGifts
	}

	offered, err := c.resolveSide(ctx, req.Initiator, offeredArg, true)
	if err != nil {
		return nil, err
	}
	requested, err := c.resolveSide(ctx, req.Counterparty, requestedArg, false)
	if err != nil {
		return nil, err
	}

	offer := &Offer{
		ID:           uuid.NewString(),
		Initiator:    req.Initiator,
		Counterparty: req.Counterparty,
		Offered:      offered,
		Requested:    requested,
		CreatedAt:    c.clock.Now(),
		TTL:          c.ttl,
		State:        StateProposed,
	}
	c.logger.Info("trade proposed",
		"offer_id", offer.ID, "initiator", req.Initiator.ID, "counterparty", req.Counterparty.ID,
		"offered", offeredArg.String(), "requested", requestedArg.String())
	return offer, nil
}

func (c *Coordinator) resolveSide(ctx context.Context, giver Party, arg ItemArg, initiator bool) (Side, error) {
	side := Side{Giver: giver, Arg: arg}
	if arg.Gift {
		return side, nil
	}
	recs, err := c.repo.ListByOwner(ctx, giver.ID)
	if err != nil {
		return Side{}, fmt.Errorf("listing records for %s: %w", giver.ID, err)
	}
	rec, ok := arg.Pick(recs)
	if !ok {
		return Side{}, &MissingItemError{Giver: giver, Initiator: initiator, Arg: arg}
	}
	side.Record = &rec
	return side, nil
}

// Accept settles the offer on behalf of actorID.
//
// Errors leave the offer in one of these states:
//   - ErrOfferClosed, ErrNotCounterparty: unchanged.
//   - ErrStaleOffer: Aborted, nothing mutated.
//   - *PartialSettlementError: Failed, Applied lists what went through.
//   - any other error: still Proposed, nothing mutated.
func (c *Coordinator) Accept(ctx context.Context, offer *Offer, actorID string) error {
	if offer.State.Terminal() {
		return ErrOfferClosed
	}
	if actorID != offer.Counterparty.ID {
		return ErrNotCounterparty
	}

	if c.locker != nil {
		unlock, acquired, err := c.locker.LockRecords(ctx, offer.RecordIDs(), settleLockTTL)
		switch {
		case err != nil:
			c.logger.Warn("record lock unavailable, settling on re-check alone", "offer_id", offer.ID, "error", err)
		case !acquired:
			c.abort(offer, actorID, "records locked by another settlement")
			return ErrStaleOffer
		default:
			defer unlock(context.WithoutCancel(ctx))
		}
	}

	if err := c.recheck(ctx, offer); err != nil {
		if errors.Is(err, ErrStaleOffer) {
			c.abort(offer, actorID, err.Error())
		}
		return err
	}

	if err := c.settle(ctx, offer); err != nil {
		return err
	}

	offer.State = StateAccepted
	offer.ClosedBy = actorID
	c.logger.Info("trade accepted", "offer_id", offer.ID, "steps", len(offer.Applied))
	return nil
}

// recheck re-fetches every snapshotted record by ID.
func (c *Coordinator) recheck(ctx context.Context, offer *Offer) error {
	for _, side := range offer.sides() {
		if side.Gift() {
			continue
		}
		current, err := c.repo.Get(ctx, side.Record.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: record %s no longer exists", ErrStaleOffer, side.Record.ID)
			}
			return fmt.Errorf("re-reading record %s: %w", side.Record.ID, err)
		}
		if current.Traded {
			return fmt.Errorf("%w: record %s already traded", ErrStaleOffer, current.ID)
		}
		if current.OwnerID != side.Giver.ID {
			return fmt.Errorf("%w: record %s changed owner", ErrStaleOffer, current.ID)
		}
	}
	return nil
}

// settle applies create-then-mark for each non-gift side. Nothing is
// rolled back on failure.
func (c *Coordinator) settle(ctx context.Context, offer *Offer) error {
	for _, side := range offer.sides() {
		if side.Gift() {
			continue
		}
		orig := side.Record
		receiver := offer.receiver(side)

		step := Step{Kind: StepCreate, OwnerID: receiver.ID, ItemID: orig.ItemID}
		created, err := c.repo.Create(ctx, inventory.CreateRequest{
			OwnerID:    receiver.ID,
			AcquiredOn: orig.AcquiredOn,
			ItemID:     orig.ItemID,
			ItemName:   orig.ItemName,
			Rare:       orig.Rare,
			ViaTrade:   true,
		})
		if err != nil {
			return c.settleFailed(offer, step, err)
		}
		step.RecordID = created.ID
		offer.Applied = append(offer.Applied, step)

		step = Step{Kind: StepMarkTraded, RecordID: orig.ID, OwnerID: side.Giver.ID, ItemID: orig.ItemID}
		if err := c.repo.MarkTraded(ctx, orig.ID); err != nil {
			return c.settleFailed(offer, step, err)
		}
		offer.Applied = append(offer.Applied, step)
	}
	return nil
}

func (c *Coordinator) settleFailed(offer *Offer, failed Step, err error) error {
	if len(offer.Applied) == 0 {
		return fmt.Errorf("settling trade %s: %w", offer.ID, err)
	}
	offer.State = StateFailed
	partial := &PartialSettlementError{
		OfferID: offer.ID,
		Applied: append([]Step(nil), offer.Applied...),
		Failed:  failed,
		Err:     err,
	}
	c.logger.Error("trade settlement partially applied",
		"offer_id", offer.ID, "applied", partial.Applied, "failed_step", failed, "error", err)
	return partial
}

func (c *Coordinator) abort(offer *Offer, actorID, reason string) {
	offer.State = StateAborted
	offer.ClosedBy = actorID
	c.logger.Info("trade aborted", "offer_id", offer.ID, "reason", reason)
}

// Cancel closes the offer on behalf of either participant.
func (c *Coordinator) Cancel(offer *Offer, actorID string) error {
	if offer.State.Terminal() {
		return ErrOfferClosed
	}
	if !offer.IsParticipant(actorID) {
		return ErrNotParticipant
	}
	offer.State = StateCancelled
	offer.ClosedBy = actorID
	c.logger.Info("trade cancelled", "offer_id", offer.ID, "by", actorID)
	return nil
}

// Expire closes a pending offer whose deadline passed. It reports
// whether the state changed.
func (c *Coordinator) Expire(offer *Offer) bool {
	if offer.State.Terminal() {
		return false
	}
	offer.State = StateExpired
	c.logger.Debug("trade expired", "offer_id", offer.ID)
	return true
}
