package mocks

import (
	"context"
	"time"

	"github.com/borfus/corkboard-bot/internal/catalog"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/stretchr/testify/mock"
)

// InventoryRepository is a mock for inventory.Repository.
type InventoryRepository struct {
	mock.Mock
}

func (m *InventoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]inventory.Record, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]inventory.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InventoryRepository) Get(ctx context.Context, id string) (*inventory.Record, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*inventory.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InventoryRepository) Create(ctx context.Context, req inventory.CreateRequest) (*inventory.Record, error) {
	args := m.Called(ctx, req)
	if rec, ok := args.Get(0).(*inventory.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InventoryRepository) MarkTraded(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// BoardRepository is a mock for board.Repository.
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) ListPins(ctx context.Context, guildID string) ([]board.Pin, error) {
	args := m.Called(ctx, guildID)
	if list, ok := args.Get(0).([]board.Pin); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) CreatePin(ctx context.Context, pin *board.Pin) error {
	args := m.Called(ctx, pin)
	return args.Error(0)
}

func (m *BoardRepository) UpdatePin(ctx context.Context, pin *board.Pin) error {
	args := m.Called(ctx, pin)
	return args.Error(0)
}

func (m *BoardRepository) DeletePin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BoardRepository) ListCurrentEvents(ctx context.Context, guildID string, now time.Time) ([]board.Event, error) {
	args := m.Called(ctx, guildID, now)
	if list, ok := args.Get(0).([]board.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) ListFAQs(ctx context.Context, guildID string) ([]board.FAQ, error) {
	args := m.Called(ctx, guildID)
	if list, ok := args.Get(0).([]board.FAQ); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClaimGuard is a mock for luckymon.ClaimGuard.
type ClaimGuard struct {
	mock.Mock
}

func (m *ClaimGuard) AcquireDaily(ctx context.Context, userID string, day time.Time) (bool, error) {
	args := m.Called(ctx, userID, day)
	return args.Bool(0), args.Error(1)
}

func (m *ClaimGuard) ReleaseDaily(ctx context.Context, userID string, day time.Time) error {
	args := m.Called(ctx, userID, day)
	return args.Error(0)
}

// RecordLocker is a mock for trade.RecordLocker. The returned unlock
// records an "Unlock" call.
type RecordLocker struct {
	mock.Mock
}

func (m *RecordLocker) LockRecords(ctx context.Context, ids []string, ttl time.Duration) (func(context.Context), bool, error) {
	args := m.Called(ctx, ids, ttl)
	unlock := func(ctx context.Context) { m.MethodCalled("Unlock", ctx) }
	return unlock, args.Bool(0), args.Error(1)
}

// Catalog is a mock for luckymon.Catalog.
type Catalog struct {
	mock.Mock
}

func (m *Catalog) Lookup(ctx context.Context, itemID int) (catalog.Item, error) {
	args := m.Called(ctx, itemID)
	if item, ok := args.Get(0).(catalog.Item); ok {
		return item, args.Error(1)
	}
	return catalog.Item{}, args.Error(1)
}
