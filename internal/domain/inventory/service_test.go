package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/repository"
	"github.com/borfus/corkboard-bot/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_AvailableFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	repo := &mocks.InventoryRepository{}
	repo.On("ListByOwner", ctx, "u1").Return([]inventory.Record{
		{ID: "c", ItemID: 9, AcquiredOn: d1},
		{ID: "b", ItemID: 3, AcquiredOn: d2},
		{ID: "x", ItemID: 1, AcquiredOn: d1, Traded: true},
		{ID: "a", ItemID: 3, AcquiredOn: d1},
	}, nil)

	svc := inventory.NewService(repo, nil)
	recs, err := svc.Available(ctx, "u1")
	require.NoError(t, err)

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestInventoryService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InventoryRepository{}
	repo.On("Get", ctx, "missing").Return((*inventory.Record)(nil), repository.ErrNotFound)

	svc := inventory.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, inventory.ErrRecordNotFound)
}

func TestInventoryService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InventoryRepository{}
	svc := inventory.NewService(repo, nil)

	_, err := svc.Create(ctx, inventory.CreateRequest{OwnerID: "u1", ItemID: 0, AcquiredOn: time.Now()})
	require.ErrorIs(t, err, inventory.ErrInvalidInput)

	_, err = svc.Create(ctx, inventory.CreateRequest{OwnerID: "", ItemID: 4, AcquiredOn: time.Now()})
	require.ErrorIs(t, err, inventory.ErrInvalidInput)
}

func TestInventoryService_CreateTruncatesDate(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InventoryRepository{}
	when := time.Date(2024, 2, 3, 17, 45, 0, 0, time.UTC)
	repo.On("Create", ctx, inventory.CreateRequest{
		OwnerID: "u1", ItemID: 4, AcquiredOn: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
	}).Return(&inventory.Record{ID: "r1", OwnerID: "u1", ItemID: 4}, nil)

	svc := inventory.NewService(repo, nil)
	rec, err := svc.Create(ctx, inventory.CreateRequest{OwnerID: "u1", ItemID: 4, AcquiredOn: when})
	require.NoError(t, err)
	require.Equal(t, "r1", rec.ID)
}
