package pagination_test

import (
	"testing"

	"github.com/borfus/corkboard-bot/internal/domain/pagination"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestOpen_InvalidPageSize(t *testing.T) {
	_, err := pagination.Open("u1", numbers(3), 0)
	require.ErrorIs(t, err, pagination.ErrInvalidPageSize)
}

func TestSession_TotalPages(t *testing.T) {
	cases := []struct {
		items, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 25, 1},
		{26, 25, 2},
	}
	for _, tc := range cases {
		s, err := pagination.Open("u1", numbers(tc.items), tc.size)
		require.NoError(t, err)
		require.Equal(t, tc.want, s.TotalPages(), "items=%d size=%d", tc.items, tc.size)
	}
}

func TestSession_NavigatesWithinBounds(t *testing.T) {
	s, err := pagination.Open("u1", numbers(25), 10)
	require.NoError(t, err)

	require.Equal(t, pagination.Unchanged, s.Handle("u1", pagination.ActionPrevious))
	require.Equal(t, 0, s.CurrentPage())

	require.Equal(t, pagination.Moved, s.Handle("u1", pagination.ActionNext))
	require.Equal(t, pagination.Moved, s.Handle("u1", pagination.ActionNext))
	require.Equal(t, 2, s.CurrentPage())

	require.Equal(t, pagination.Unchanged, s.Handle("u1", pagination.ActionNext))
	require.Equal(t, 2, s.CurrentPage())

	page := s.Page()
	require.Equal(t, []int{21, 22, 23, 24, 25}, page.Items)
	require.Equal(t, 20, page.Offset)
	require.True(t, page.HasPrev)
	require.False(t, page.HasNext)
}

func TestSession_IgnoresNonOwner(t *testing.T) {
	s, err := pagination.Open("u1", numbers(25), 10)
	require.NoError(t, err)

	require.Equal(t, pagination.Ignored, s.Handle("u2", pagination.ActionNext))
	require.Equal(t, 0, s.CurrentPage())
}

func TestSession_EmptyList(t *testing.T) {
	s, err := pagination.Open[string]("u1", nil, 25)
	require.NoError(t, err)

	require.Equal(t, pagination.Unchanged, s.Handle("u1", pagination.ActionNext))
	page := s.Page()
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Total)
	require.False(t, page.HasPrev)
	require.False(t, page.HasNext)
}

func TestParseAction(t *testing.T) {
	require.Equal(t, pagination.ActionPrevious, pagination.ParseAction("prev"))
	require.Equal(t, pagination.ActionNext, pagination.ParseAction("next"))
	require.Equal(t, pagination.ActionUnknown, pagination.ParseAction("accept_trade"))
}
