package board_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/repository"
	"github.com/borfus/corkboard-bot/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func pins() []board.Pin {
	return []board.Pin{
		{ID: "p1", GuildID: "g1", Title: "Rules", URL: "https://example.com/rules"},
		{ID: "p2", GuildID: "g1", Title: "Wiki", URL: "https://example.com/wiki"},
	}
}

func TestBoardService_AddPinValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoardRepository{}
	svc := board.NewService(repo, clock.Fake(now), nil)

	_, err := svc.AddPin(ctx, "g1", board.PinRequest{Title: "", URL: "https://example.com"})
	require.ErrorIs(t, err, board.ErrInvalidInput)

	_, err = svc.AddPin(ctx, "g1", board.PinRequest{Title: "x", URL: "not a url"})
	require.ErrorIs(t, err, board.ErrInvalidInput)
	repo.AssertNotCalled(t, "CreatePin", mock.Anything, mock.Anything)
}

func TestBoardService_AddPin(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoardRepository{}
	repo.On("CreatePin", ctx, mock.AnythingOfType("*board.Pin")).Run(func(args mock.Arguments) {
		args.Get(1).(*board.Pin).ID = "new"
	}).Return(nil)
	svc := board.NewService(repo, clock.Fake(now), nil)

	pin, err := svc.AddPin(ctx, "g1", board.PinRequest{Title: "Rules", URL: "https://example.com", Description: "read me"})
	require.NoError(t, err)
	require.Equal(t, "new", pin.ID)
	require.Equal(t, "g1", pin.GuildID)
}

func TestBoardService_EditPinByPosition(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoardRepository{}
	repo.On("ListPins", ctx, "g1").Return(pins(), nil)
	repo.On("UpdatePin", ctx, mock.MatchedBy(func(p *board.Pin) bool {
		return p.ID == "p2" && p.Title == "Docs"
	})).Return(nil)
	svc := board.NewService(repo, clock.Fake(now), nil)

	pin, err := svc.EditPin(ctx, "g1", 2, board.PinRequest{Title: "Docs", URL: "https://example.com/docs"})
	require.NoError(t, err)
	require.Equal(t, "p2", pin.ID)

	_, err = svc.EditPin(ctx, "g1", 3, board.PinRequest{Title: "Docs", URL: "https://example.com/docs"})
	require.ErrorIs(t, err, board.ErrInvalidPosition)
	_, err = svc.EditPin(ctx, "g1", 0, board.PinRequest{Title: "Docs", URL: "https://example.com/docs"})
	require.ErrorIs(t, err, board.ErrInvalidPosition)
}

func TestBoardService_DeletePin(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoardRepository{}
	repo.On("ListPins", ctx, "g1").Return(pins(), nil)
	repo.On("DeletePin", ctx, "p1").Return(nil).Once()
	repo.On("DeletePin", ctx, "p2").Return(repository.ErrNotFound).Once()
	svc := board.NewService(repo, clock.Fake(now), nil)

	pin, err := svc.DeletePin(ctx, "g1", 1)
	require.NoError(t, err)
	require.Equal(t, "Rules", pin.Title)

	_, err = svc.DeletePin(ctx, "g1", 2)
	require.ErrorIs(t, err, board.ErrPinNotFound)
}

func TestBoardService_Summary(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoardRepository{}
	repo.On("ListCurrentEvents", ctx, "g1", now).Return([]board.Event{{ID: "e1"}}, nil)
	repo.On("ListPins", ctx, "g1").Return(pins(), nil)
	repo.On("ListFAQs", ctx, "g1").Return([]board.FAQ{}, nil)
	svc := board.NewService(repo, clock.Fake(now), nil)

	summary, err := svc.Summary(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, summary.Events, 1)
	require.Len(t, summary.Pins, 2)
	require.Empty(t, summary.FAQs)
}

func TestBoardService_SummaryError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.BoardRepository{}
	repo.On("ListCurrentEvents", ctx, "g1", now).Return(nil, errors.New("boom"))
	svc := board.NewService(repo, clock.Fake(now), nil)

	_, err := svc.Summary(ctx, "g1")
	require.Error(t, err)
}
