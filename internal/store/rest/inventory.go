package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/repository"
)

// history is the backend's luckymon-history row.
type history struct {
	ID           string `json:"id,omitempty"`
	UserID       int64  `json:"user_id"`
	DateObtained string `json:"date_obtained"`
	PokemonID    int    `json:"pokemon_id"`
	Shiny        bool   `json:"shiny"`
	PokemonName  string `json:"pokemon_name"`
	Traded       bool   `json:"traded"`
}

func (h history) record() (inventory.Record, error) {
	day, err := time.Parse(inventory.DateLayout, h.DateObtained)
	if err != nil {
		return inventory.Record{}, fmt.Errorf("rest: bad date_obtained %q on %s: %w", h.DateObtained, h.ID, err)
	}
	return inventory.Record{
		ID:         h.ID,
		OwnerID:    strconv.FormatInt(h.UserID, 10),
		ItemID:     h.PokemonID,
		ItemName:   h.PokemonName,
		Rare:       h.Shiny,
		AcquiredOn: day,
		Traded:     h.Traded,
	}, nil
}

// parseSnowflake converts a platform ID into the backend's integer form.
func parseSnowflake(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not numeric", repository.ErrInvalidInput, id)
	}
	return n, nil
}

// InventoryRepository implements inventory.Repository over the backend.
type InventoryRepository struct {
	client *Client
}

// NewInventoryRepository creates an inventory repository.
func NewInventoryRepository(client *Client) *InventoryRepository {
	return &InventoryRepository{client: client}
}

func (r *InventoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]inventory.Record, error) {
	userID, err := parseSnowflake(ownerID)
	if err != nil {
		return nil, err
	}
	var rows []history
	if err := r.client.doRequest(ctx, http.MethodGet, fmt.Sprintf("/luckymon-history/user-id/%d", userID), nil, nil, &rows); err != nil {
		return nil, err
	}
	recs := make([]inventory.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *InventoryRepository) Get(ctx context.Context, id string) (*inventory.Record, error) {
	var row history
	if err := r.client.doRequest(ctx, http.MethodGet, "/luckymon-history/"+url.PathEscape(id), nil, nil, &row); err != nil {
		return nil, err
	}
	rec, err := row.record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *InventoryRepository) Create(ctx context.Context, req inventory.CreateRequest) (*inventory.Record, error) {
	userID, err := parseSnowflake(req.OwnerID)
	if err != nil {
		return nil, err
	}
	body := history{
		UserID:       userID,
		DateObtained: req.AcquiredOn.Format(inventory.DateLayout),
		PokemonID:    req.ItemID,
		Shiny:        req.Rare,
		PokemonName:  req.ItemName,
	}
	var query url.Values
	if req.ViaTrade {
		query = url.Values{"trade": []string{"true"}}
	}
	var row history
	if err := r.client.doRequest(ctx, http.MethodPost, "/luckymon-history", query, body, &row); err != nil {
		return nil, err
	}
	rec, err := row.record()
	if err != nil {
		return nil, err
	}
	// History rows don't echo the trade flag.
	rec.ViaTrade = req.ViaTrade
	return &rec, nil
}

func (r *InventoryRepository) MarkTraded(ctx context.Context, id string) error {
	return r.client.doRequest(ctx, http.MethodPut, "/luckymon-history/traded/"+url.PathEscape(id), nil, nil, nil)
}
