// Package catalog resolves item IDs to display names and sprites using
// PokeAPI.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

const maxResponseBytes = 4 << 20

// Item is the display data for one item.
type Item struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SpriteURL     string `json:"sprite_url,omitempty"`
	RareSpriteURL string `json:"rare_sprite_url,omitempty"`
}

// WikiURL returns the Bulbapedia page for the item.
func (i Item) WikiURL() string {
	return "https://bulbapedia.bulbagarden.net/wiki/" + strings.ReplaceAll(i.Name, " ", "_") + "_(Pok%C3%A9mon)"
}

// Sprite returns the sprite matching the rarity, if known.
func (i Item) Sprite(rare bool) string {
	if rare && i.RareSpriteURL != "" {
		return i.RareSpriteURL
	}
	return i.SpriteURL
}

// Fallback is used when the catalog can't be reached.
func Fallback(itemID int) Item {
	return Item{ID: itemID, Name: "#" + strconv.Itoa(itemID)}
}

// StatusError is a non-2xx PokeAPI response.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: unexpected %d response from %s", e.StatusCode, e.Path)
}

// Client looks items up and memoizes successful lookups.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	items map[int]Item
}

// NewClient creates a catalog client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		items:      make(map[int]Item),
	}
}

type pokemonResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		FrontShiny   string `json:"front_shiny"`
	} `json:"sprites"`
}

// Lookup fetches the item by ID.
func (c *Client) Lookup(ctx context.Context, itemID int) (Item, error) {
	c.mu.RLock()
	item, ok := c.items[itemID]
	c.mu.RUnlock()
	if ok {
		return item, nil
	}

	path := "/pokemon/" + strconv.Itoa(itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return Item{}, fmt.Errorf("catalog: failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Item{}, fmt.Errorf("catalog: request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Item{}, &StatusError{StatusCode: resp.StatusCode, Path: path}
	}

	var body pokemonResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return Item{}, fmt.Errorf("catalog: decoding %s: %w", path, err)
	}

	item = Item{
		ID:            itemID,
		Name:          DisplayName(body.Name),
		SpriteURL:     body.Sprites.FrontDefault,
		RareSpriteURL: body.Sprites.FrontShiny,
	}
	c.mu.Lock()
	c.items[itemID] = item
	c.mu.Unlock()
	return item, nil
}

// DisplayName turns an API slug such as "mr-mime" into "Mr Mime".
func DisplayName(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
