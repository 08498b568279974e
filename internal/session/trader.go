package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
	"github.com/borfus/corkboard-bot/internal/render"
)

// Trader runs trade offers. Unlike pagination, an offer has an absolute
// deadline that clicks do not extend.
type Trader struct {
	platform    chat.Platform
	router      *Router
	coordinator *trade.Coordinator
	clock       clock.Clock
	logger      *slog.Logger
}

// NewTrader creates a Trader.
func NewTrader(platform chat.Platform, router *Router, coordinator *trade.Coordinator, clk clock.Clock, logger *slog.Logger) *Trader {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Trader{platform: platform, router: router, coordinator: coordinator, clock: clk, logger: logger}
}

// Start posts the offer and waits for its participants in the
// background. The returned channel closes when the offer is finished.
func (t *Trader) Start(ctx context.Context, channelID string, offer *trade.Offer) (chat.MessageRef, <-chan struct{}, error) {
	ref, err := t.platform.Send(ctx, channelID, render.TradeProposal(offer))
	if err != nil {
		return chat.MessageRef{}, nil, fmt.Errorf("sending trade offer: %w", err)
	}
	done, err := t.router.spawn(ref.MessageID, func(loopCtx context.Context, inbox <-chan event) {
		t.run(loopCtx, ref, offer, inbox)
	})
	if err != nil {
		return chat.MessageRef{}, nil, err
	}
	return ref, done, nil
}

func (t *Trader) run(ctx context.Context, ref chat.MessageRef, offer *trade.Offer, inbox <-chan event) {
	timer := t.clock.After(offer.Deadline().Sub(t.clock.Now()))
	for !offer.State.Terminal() {
		select {
		case <-ctx.Done():
			return
		case <-timer:
			now := t.clock.Now()
			if now.Before(offer.Deadline()) {
				timer = t.clock.After(offer.Deadline().Sub(now))
				continue
			}
			t.coordinator.Expire(offer)
		case ev := <-inbox:
			t.handle(ctx, ref, offer, ev.interaction)
			close(ev.handled)
		}
	}
}

func (t *Trader) handle(ctx context.Context, ref chat.MessageRef, offer *trade.Offer, in chat.Interaction) {
	var err error
	switch in.CustomID {
	case trade.AcceptButtonID:
		err = t.coordinator.Accept(ctx, offer, in.Actor.ID)
	case trade.CancelButtonID:
		err = t.coordinator.Cancel(offer, in.Actor.ID)
	default:
		return
	}

	switch {
	case err == nil, errors.Is(err, trade.ErrStaleOffer):
		t.renderOutcome(ctx, ref, offer)
	case errors.Is(err, trade.ErrNotCounterparty), errors.Is(err, trade.ErrNotParticipant), errors.Is(err, trade.ErrOfferClosed):
		t.logger.Debug("ignoring trade click", "offer_id", offer.ID, "actor", in.Actor.ID, "button", in.CustomID)
	case errors.Is(err, trade.ErrPartialSettlement):
		t.renderOutcome(ctx, ref, offer)
		t.reply(ctx, ref, render.ErrorText("trade %s was only partly applied. Please contact an admin before trading again.", offer.ID))
	default:
		t.logger.Warn("trade accept failed", "offer_id", offer.ID, "error", err)
		t.reply(ctx, ref, render.ErrorText("couldn't reach the luckymon service, the trade is still open. Try accepting again."))
	}
}

func (t *Trader) renderOutcome(ctx context.Context, ref chat.MessageRef, offer *trade.Offer) {
	msg, ok := render.TradeOutcome(offer)
	if !ok {
		return
	}
	if err := t.platform.Edit(ctx, ref, msg); err != nil {
		t.logger.Warn("editing trade message failed", "offer_id", offer.ID, "error", err)
	}
}

func (t *Trader) reply(ctx context.Context, ref chat.MessageRef, msg chat.Message) {
	if _, err := t.platform.Send(ctx, ref.ChannelID, msg); err != nil {
		t.logger.Warn("sending trade reply failed", "channel_id", ref.ChannelID, "error", err)
	}
}
