package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/chat/chattest"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/command"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
	"github.com/borfus/corkboard-bot/internal/repository/mocks"
	"github.com/borfus/corkboard-bot/internal/session"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ash   = chat.User{ID: "111", Name: "ash"}
	misty = chat.User{ID: "222", Name: "misty"}
	now   = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
)

type fixture struct {
	platform   *chattest.Platform
	router     *session.Router
	inventory  *mocks.InventoryRepository
	board      *mocks.BoardRepository
	dispatcher *command.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.Fake(now)
	f := &fixture{
		platform:  chattest.New(),
		router:    session.NewRouter(nil),
		inventory: &mocks.InventoryRepository{},
		board:     &mocks.BoardRepository{},
	}
	t.Cleanup(f.router.Close)

	alloc, err := luckymon.NewAllocator(luckymon.DefaultItemSpace, luckymon.DefaultRarityDenominator)
	require.NoError(t, err)
	coord := trade.NewCoordinator(f.inventory, nil, clk, 0, nil)
	bot := &command.Bot{
		Platform:  f.platform,
		Board:     board.NewService(f.board, clk, nil),
		Inventory: inventory.NewService(f.inventory, nil),
		Luckymon:  luckymon.NewService(luckymon.Options{Allocator: alloc, Repo: f.inventory, Clock: clk}),
		Trades:    coord,
		Pager:     session.NewPager(f.platform, f.router, clk, 2*time.Minute, nil),
		Trader:    session.NewTrader(f.platform, f.router, coord, clk, nil),
	}
	reg, err := bot.Registry()
	require.NoError(t, err)
	f.dispatcher = command.NewDispatcher("", "", reg, f.platform, nil)
	return f
}

func (f *fixture) run(t *testing.T, author chat.User, content string, mentions ...chat.User) chat.Message {
	t.Helper()
	handled := f.dispatcher.Handle(context.Background(), chat.Inbound{
		GuildID: "g1", ChannelID: "c1", MessageID: "in1", Author: author, Content: content, Mentions: mentions,
	})
	require.True(t, handled)
	last, ok := f.platform.Last()
	require.True(t, ok, "expected a reply")
	return last.Message
}

func TestDispatcher_IgnoresNonCommands(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.dispatcher.Handle(context.Background(), chat.Inbound{ChannelID: "c1", Author: ash, Content: "hello"}))
	require.False(t, f.dispatcher.Handle(context.Background(), chat.Inbound{ChannelID: "c1", Author: ash, Content: ".nope"}))
	require.Empty(t, f.platform.All())
}

func TestDispatcher_ArityError(t *testing.T) {
	f := newFixture(t)
	msg := f.run(t, ash, ".delete_pin")
	require.Equal(t, ":bangbang: Error :bangbang: - the `delete_pin` command requires 1 arguments:\n\n\t\t[\"Pin_id\"]\n\nSee `.help delete_pin` for more usage details.", msg.Content)
	f.board.AssertNotCalled(t, "ListPins", mock.Anything, mock.Anything)
}

func TestDispatcher_AdminRoleRequired(t *testing.T) {
	f := newFixture(t)
	msg := f.run(t, ash, `.add_pin "Rules" https://example.com/rules "Read these"`)
	require.Equal(t, ":bangbang: Error :bangbang: - Only users with the `corkboard` role can execute this command.", msg.Content)
	f.board.AssertNotCalled(t, "CreatePin", mock.Anything, mock.Anything)
}

func TestDispatcher_AddPin(t *testing.T) {
	f := newFixture(t)
	f.platform.Grant("g1", ash.ID, "corkboard")
	f.board.On("CreatePin", mock.Anything, mock.MatchedBy(func(p *board.Pin) bool {
		return p.Title == "Rules" && p.URL == "https://example.com/rules" && p.Description == "Read these" && p.GuildID == "g1"
	})).Return(nil)

	msg := f.run(t, ash, `.add_pin "Rules" https://example.com/rules "Read these"`)
	require.Equal(t, "Created Pin", msg.Embeds[0].Title)
	f.board.AssertExpectations(t)
}

func TestDispatcher_EditPinErrors(t *testing.T) {
	f := newFixture(t)
	f.platform.Grant("g1", ash.ID, "corkboard")
	f.board.On("ListPins", mock.Anything, "g1").Return([]board.Pin{{ID: "p1", Title: "a", URL: "https://a.test"}}, nil)

	msg := f.run(t, ash, `.edit_pin one "t" https://x.test "d"`)
	require.Equal(t, ":bangbang: Error :bangbang: - Unable to parse ID.", msg.Content)

	msg = f.run(t, ash, `.edit_pin 2 "t" https://x.test "d"`)
	require.Contains(t, msg.Content, "Invalid ID!")
}

func TestDispatcher_DeletePinByPosition(t *testing.T) {
	f := newFixture(t)
	f.platform.Grant("g1", ash.ID, "corkboard")
	f.board.On("ListPins", mock.Anything, "g1").Return([]board.Pin{
		{ID: "p1", Title: "a", URL: "https://a.test"},
		{ID: "p2", Title: "b", URL: "https://b.test"},
	}, nil)
	f.board.On("DeletePin", mock.Anything, "p2").Return(nil)

	msg := f.run(t, ash, ".delete_pin 2")
	require.Equal(t, "Deleted Pin", msg.Embeds[0].Title)
	require.Equal(t, "b", msg.Embeds[0].Fields[0].Name)
}

func TestDispatcher_BackendFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.board.On("ListPins", mock.Anything, "g1").Return(nil, errors.New("dial tcp: refused"))

	msg := f.run(t, ash, ".pins")
	require.Equal(t, ":bangbang: Error :bangbang: - Couldn't reach the corkboard service. Please try again later.", msg.Content)
	require.Zero(t, f.router.Active())
}

func TestDispatcher_PinsOpensSession(t *testing.T) {
	f := newFixture(t)
	f.board.On("ListPins", mock.Anything, "g1").Return([]board.Pin{{ID: "p1", Title: "a", URL: "https://a.test"}}, nil)

	msg := f.run(t, ash, ".PINS")
	require.Equal(t, "Pins", msg.Embeds[0].Title)
	require.Equal(t, "ash: Page 1 of 1", msg.Embeds[0].Footer)
	require.Equal(t, 1, f.router.Active())
}

func TestDispatcher_LuckymonClaimsOnce(t *testing.T) {
	f := newFixture(t)
	f.inventory.On("ListByOwner", mock.Anything, ash.ID).Return([]inventory.Record(nil), nil).Once()
	f.inventory.On("Create", mock.Anything, mock.Anything).Return(&inventory.Record{ID: "r1"}, nil).Once()

	msg := f.run(t, ash, ".luckymon")
	require.Equal(t, "You lucky pokemon of the day is:", msg.Embeds[0].Title)
	f.inventory.AssertExpectations(t)
}

func TestDispatcher_LuckytradeValidation(t *testing.T) {
	f := newFixture(t)

	msg := f.run(t, ash, ".luckytrade <@111> 25 n/a", ash)
	require.Equal(t, "<@111> Error: You can't trade yourself, silly!", msg.Content)

	msg = f.run(t, ash, ".luckytrade <@222> n/a N/A", misty)
	require.Equal(t, "<@111> Error: Both luckymon can't be 'N/A'.", msg.Content)

	msg = f.run(t, ash, ".luckytrade misty 25 n/a")
	require.Equal(t, "<@111> Error: Mention exactly one user to trade with.", msg.Content)

	msg = f.run(t, ash, ".luckytrade <@222> 25x n/a", misty)
	require.Contains(t, msg.Content, "Invalid format for the first trade argument.")

	require.Zero(t, f.router.Active())
}

func TestDispatcher_LuckytradeStartsOffer(t *testing.T) {
	f := newFixture(t)
	f.inventory.On("ListByOwner", mock.Anything, ash.ID).Return([]inventory.Record{
		{ID: "r1", OwnerID: ash.ID, ItemID: 25, ItemName: "Pikachu", AcquiredOn: now},
	}, nil)

	msg := f.run(t, ash, ".luckytrade <@!222> 25 n/a", misty)
	require.Equal(t, "Luckytrade Request!", msg.Embeds[0].Title)
	require.Equal(t, "<@222>", msg.Content)
	require.Len(t, msg.Buttons, 2)
	require.Equal(t, 1, f.router.Active())
}

func TestDispatcher_Help(t *testing.T) {
	f := newFixture(t)

	msg := f.run(t, ash, ".help")
	require.Equal(t, "Commands", msg.Embeds[0].Title)
	require.Len(t, msg.Embeds[0].Fields, 11)

	msg = f.run(t, ash, ".help .luckytrade")
	require.Equal(t, ".luckytrade", msg.Embeds[0].Title)

	msg = f.run(t, ash, ".help trades")
	require.Equal(t, "Could not find: `trades`.", msg.Content)
}
