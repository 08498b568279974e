package inventory

import "context"

// Repository provides persistence for inventory records.
//
// MarkTraded must be conditional: it returns repository.ErrConflict when
// the record is already traded and repository.ErrNotFound when it does
// not exist.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, req CreateRequest) (*Record, error)
	MarkTraded(ctx context.Context, id string) error
}
