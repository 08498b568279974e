package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/borfus/corkboard-bot/internal/domain/board"
)

// timestampLayout parses the backend's zone-less timestamps; fractional
// seconds are optional when parsing.
const timestampLayout = "2006-01-02T15:04:05"

type pinDTO struct {
	ID          string `json:"id,omitempty"`
	GuildID     int64  `json:"guild_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (p pinDTO) pin() board.Pin {
	return board.Pin{
		ID:          p.ID,
		GuildID:     strconv.FormatInt(p.GuildID, 10),
		Title:       p.Title,
		URL:         p.URL,
		Description: p.Description,
	}
}

type eventDTO struct {
	ID           string `json:"id"`
	LastModified string `json:"last_modified_date"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type faqDTO struct {
	ID           string `json:"id"`
	LastModified string `json:"last_modified_date"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
}

func parseTimestamps(values ...string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := time.Parse(timestampLayout, v)
		if err != nil {
			return nil, fmt.Errorf("rest: bad timestamp %q: %w", v, err)
		}
		out[i] = t
	}
	return out, nil
}

// BoardRepository implements board.Repository over the backend.
type BoardRepository struct {
	client *Client
}

// NewBoardRepository creates a board repository.
func NewBoardRepository(client *Client) *BoardRepository {
	return &BoardRepository{client: client}
}

func (r *BoardRepository) ListPins(ctx context.Context, guildID string) ([]board.Pin, error) {
	gid, err := parseSnowflake(guildID)
	if err != nil {
		return nil, err
	}
	var rows []pinDTO
	if err := r.client.doRequest(ctx, http.MethodGet, fmt.Sprintf("/pin/guild/%d", gid), nil, nil, &rows); err != nil {
		return nil, err
	}
	pins := make([]board.Pin, len(rows))
	for i, row := range rows {
		pins[i] = row.pin()
	}
	return pins, nil
}

func (r *BoardRepository) CreatePin(ctx context.Context, pin *board.Pin) error {
	gid, err := parseSnowflake(pin.GuildID)
	if err != nil {
		return err
	}
	var created pinDTO
	body := pinDTO{GuildID: gid, Title: pin.Title, URL: pin.URL, Description: pin.Description}
	if err := r.client.doRequest(ctx, http.MethodPost, "/pin", nil, body, &created); err != nil {
		return err
	}
	pin.ID = created.ID
	return nil
}

func (r *BoardRepository) UpdatePin(ctx context.Context, pin *board.Pin) error {
	gid, err := parseSnowflake(pin.GuildID)
	if err != nil {
		return err
	}
	body := pinDTO{ID: pin.ID, GuildID: gid, Title: pin.Title, URL: pin.URL, Description: pin.Description}
	return r.client.doRequest(ctx, http.MethodPut, "/pin/"+url.PathEscape(pin.ID), nil, body, nil)
}

func (r *BoardRepository) DeletePin(ctx context.Context, id string) error {
	return r.client.doRequest(ctx, http.MethodDelete, "/pin/delete/"+url.PathEscape(id), nil, nil, nil)
}

// ListCurrentEvents asks the backend for the guild's current events. The
// backend decides what is current, so now is not sent.
func (r *BoardRepository) ListCurrentEvents(ctx context.Context, guildID string, _ time.Time) ([]board.Event, error) {
	gid, err := parseSnowflake(guildID)
	if err != nil {
		return nil, err
	}
	var rows []eventDTO
	if err := r.client.doRequest(ctx, http.MethodGet, fmt.Sprintf("/event/current/guild/%d", gid), nil, nil, &rows); err != nil {
		return nil, err
	}
	events := make([]board.Event, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamps(row.StartDate, row.EndDate, row.LastModified)
		if err != nil {
			return nil, err
		}
		events[i] = board.Event{
			ID:           row.ID,
			GuildID:      guildID,
			Title:        row.Title,
			URL:          row.URL,
			Description:  row.Description,
			StartDate:    ts[0],
			EndDate:      ts[1],
			LastModified: ts[2],
		}
	}
	return events, nil
}

func (r *BoardRepository) ListFAQs(ctx context.Context, guildID string) ([]board.FAQ, error) {
	gid, err := parseSnowflake(guildID)
	if err != nil {
		return nil, err
	}
	var rows []faqDTO
	if err := r.client.doRequest(ctx, http.MethodGet, fmt.Sprintf("/faq/guild/%d", gid), nil, nil, &rows); err != nil {
		return nil, err
	}
	faqs := make([]board.FAQ, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamps(row.LastModified)
		if err != nil {
			return nil, err
		}
		faqs[i] = board.FAQ{ID: row.ID, GuildID: guildID, Question: row.Question, Answer: row.Answer, LastModified: ts[0]}
	}
	return faqs, nil
}
