package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/repository"
)

// InventoryRepository implements inventory.Repository.
type InventoryRepository struct {
	db *DB
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `id, owner_id, item_id, item_name, rare, acquired_on, traded, via_trade`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (inventory.Record, error) {
	var (
		rec      inventory.Record
		acquired string
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &rec.ItemID, &rec.ItemName, &rec.Rare, &acquired, &rec.Traded, &rec.ViaTrade); err != nil {
		return inventory.Record{}, err
	}
	day, err := time.Parse(inventory.DateLayout, acquired)
	if err != nil {
		return inventory.Record{}, fmt.Errorf("record %s has bad acquired_on %q: %w", rec.ID, acquired, err)
	}
	rec.AcquiredOn = day
	return rec, nil
}

// ListByOwner returns every record of ownerID, traded ones included.
func (r *InventoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]inventory.Record, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory_records
		WHERE owner_id = ?
		ORDER BY acquired_on ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var recs []inventory.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return recs, nil
}

// Get retrieves a record by ID
func (r *InventoryRepository) Get(ctx context.Context, id string) (*inventory.Record, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_records WHERE id = ?`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &rec, nil
}

// Create stores a new record with a fresh ID.
func (r *InventoryRepository) Create(ctx context.Context, req inventory.CreateRequest) (*inventory.Record, error) {
	rec := &inventory.Record{
		ID:         uuid.NewString(),
		OwnerID:    req.OwnerID,
		ItemID:     req.ItemID,
		ItemName:   req.ItemName,
		Rare:       req.Rare,
		AcquiredOn: inventory.Day(req.AcquiredOn),
		ViaTrade:   req.ViaTrade,
	}
	query := `
		INSERT INTO inventory_records (id, owner_id, item_id, item_name, rare, acquired_on, traded, via_trade, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.ItemID,
		rec.ItemName,
		rec.Rare,
		rec.AcquiredOn.Format(inventory.DateLayout),
		false,
		rec.ViaTrade,
		nextStamp(),
	)
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return rec, nil
}

// MarkTraded flags an untraded record as traded. A record that is
// already traded yields repository.ErrConflict.
func (r *InventoryRepository) MarkTraded(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE inventory_records SET traded = ? WHERE id = ? AND traded = ?`, true, id, false)
	if err != nil {
		return fmt.Errorf("failed to mark record traded: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark record traded: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM inventory_records WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check record: %w", err)
	}
	return repository.ErrConflict
}
