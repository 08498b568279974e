package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/chat/chattest"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
	"github.com/borfus/corkboard-bot/internal/repository/mocks"
	"github.com/borfus/corkboard-bot/internal/session"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tradeTTL = 20 * time.Minute

var (
	initiator    = chat.User{ID: "100", Name: "alice"}
	counterparty = chat.User{ID: "200", Name: "bob"}
)

type traderFixture struct {
	platform *chattest.Platform
	clock    *clock.FakeClock
	router   *session.Router
	repo     *mocks.InventoryRepository
	offer    *trade.Offer
	ref      chat.MessageRef
	done     <-chan struct{}
}

func startTrade(t *testing.T) *traderFixture {
	t.Helper()
	ctx := context.Background()
	f := &traderFixture{
		platform: chattest.New(),
		clock:    clock.Fake(epoch),
		router:   session.NewRouter(nil),
		repo:     &mocks.InventoryRepository{},
	}
	t.Cleanup(f.router.Close)

	rec := inventory.Record{ID: "rec-a", OwnerID: initiator.ID, ItemID: 25, ItemName: "Pikachu", AcquiredOn: epoch}
	f.repo.On("ListByOwner", mock.Anything, initiator.ID).Return([]inventory.Record{rec}, nil)

	coord := trade.NewCoordinator(f.repo, nil, f.clock, tradeTTL, nil)
	var err error
	f.offer, err = coord.Propose(ctx, trade.ProposeRequest{
		Initiator:    trade.Party{ID: initiator.ID, Name: initiator.Name},
		Counterparty: trade.Party{ID: counterparty.ID, Name: counterparty.Name},
		OfferedArg:   "25",
		RequestedArg: "n/a",
	})
	require.NoError(t, err)

	trader := session.NewTrader(f.platform, f.router, coord, f.clock, nil)
	f.ref, f.done, err = trader.Start(ctx, "c1", f.offer)
	require.NoError(t, err)
	f.clock.WaitForTimers(1)
	return f
}

func (f *traderFixture) click(t *testing.T, actor chat.User, customID string) {
	t.Helper()
	require.True(t, f.router.Dispatch(context.Background(), chat.Interaction{Message: f.ref, Actor: actor, CustomID: customID}))
}

func TestTrader_AcceptSettlesAndCloses(t *testing.T) {
	f := startTrade(t)
	rec := inventory.Record{ID: "rec-a", OwnerID: initiator.ID, ItemID: 25, ItemName: "Pikachu", AcquiredOn: epoch}
	f.repo.On("Get", mock.Anything, "rec-a").Return(&rec, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(&inventory.Record{ID: "new"}, nil)
	f.repo.On("MarkTraded", mock.Anything, "rec-a").Return(nil)

	f.click(t, initiator, trade.AcceptButtonID)
	require.Empty(t, f.platform.Edits(f.ref.MessageID), "initiator cannot accept")

	f.click(t, counterparty, trade.AcceptButtonID)
	waitDone(t, f.done)

	edits := f.platform.Edits(f.ref.MessageID)
	require.Len(t, edits, 1)
	require.Equal(t, "✅ Trade Accepted! ✅", edits[0].Embeds[0].Title)
	require.Empty(t, edits[0].Buttons)
	require.Equal(t, trade.StateAccepted, f.offer.State)
}

func TestTrader_CancelByInitiator(t *testing.T) {
	f := startTrade(t)

	f.click(t, stranger, trade.CancelButtonID)
	require.Empty(t, f.platform.Edits(f.ref.MessageID))
	requireAlive(t, f.done)

	f.click(t, initiator, trade.CancelButtonID)
	waitDone(t, f.done)

	edits := f.platform.Edits(f.ref.MessageID)
	require.Len(t, edits, 1)
	require.Equal(t, "❌ Trade Cancelled! ❌", edits[0].Embeds[0].Title)
	f.repo.AssertNotCalled(t, "MarkTraded", mock.Anything, mock.Anything)
}

func TestTrader_StaleRecordAborts(t *testing.T) {
	f := startTrade(t)
	rec := inventory.Record{ID: "rec-a", OwnerID: initiator.ID, ItemID: 25, Traded: true}
	f.repo.On("Get", mock.Anything, "rec-a").Return(&rec, nil)

	f.click(t, counterparty, trade.AcceptButtonID)
	waitDone(t, f.done)

	edits := f.platform.Edits(f.ref.MessageID)
	require.Len(t, edits, 1)
	require.Equal(t, "❌ Trade Aborted! ❌", edits[0].Embeds[0].Title)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTrader_TransportErrorKeepsOfferOpen(t *testing.T) {
	f := startTrade(t)
	f.repo.On("Get", mock.Anything, "rec-a").Return(nil, errors.New("connection reset"))

	f.click(t, counterparty, trade.AcceptButtonID)
	requireAlive(t, f.done)
	require.Equal(t, trade.StateProposed, f.offer.State)

	last, ok := f.platform.Last()
	require.True(t, ok)
	require.False(t, last.Edit)
	require.Contains(t, last.Message.Content, "still open")
}

func TestTrader_PartialFailureReported(t *testing.T) {
	f := startTrade(t)
	rec := inventory.Record{ID: "rec-a", OwnerID: initiator.ID, ItemID: 25, AcquiredOn: epoch}
	f.repo.On("Get", mock.Anything, "rec-a").Return(&rec, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(&inventory.Record{ID: "new"}, nil)
	f.repo.On("MarkTraded", mock.Anything, "rec-a").Return(errors.New("503"))

	f.click(t, counterparty, trade.AcceptButtonID)
	waitDone(t, f.done)

	require.Equal(t, trade.StateFailed, f.offer.State)
	edits := f.platform.Edits(f.ref.MessageID)
	require.Len(t, edits, 1)
	last, _ := f.platform.Last()
	require.Contains(t, last.Message.Content, "partly applied")
}

func TestTrader_AbsoluteDeadline(t *testing.T) {
	f := startTrade(t)

	f.clock.Advance(tradeTTL / 2)
	f.click(t, stranger, trade.AcceptButtonID)
	f.click(t, initiator, trade.AcceptButtonID)

	f.clock.Advance(tradeTTL / 2)
	waitDone(t, f.done)

	require.Equal(t, trade.StateExpired, f.offer.State)
	require.Empty(t, f.platform.Edits(f.ref.MessageID), "expiry is silent")
}
