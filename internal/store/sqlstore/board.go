package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/repository"
)

// BoardRepository implements board.Repository. Events and FAQs are
// written by CreateEvent and CreateFAQ; chat commands only read them.
type BoardRepository struct {
	db *DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// ListPins returns a guild's pins in creation order, which is the order
// positions refer to.
func (r *BoardRepository) ListPins(ctx context.Context, guildID string) ([]board.Pin, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guild_id, title, url, description
		FROM pins
		WHERE guild_id = ?
		ORDER BY created_at ASC, id ASC`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	var pins []board.Pin
	for rows.Next() {
		var p board.Pin
		if err := rows.Scan(&p.ID, &p.GuildID, &p.Title, &p.URL, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	return pins, nil
}

// CreatePin stores pin and assigns its ID.
func (r *BoardRepository) CreatePin(ctx context.Context, pin *board.Pin) error {
	pin.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pins (id, guild_id, title, url, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pin.ID, pin.GuildID, pin.Title, pin.URL, pin.Description, nextStamp())
	if err != nil {
		return fmt.Errorf("failed to create pin: %w", err)
	}
	return nil
}

// UpdatePin replaces the editable fields of pin.
func (r *BoardRepository) UpdatePin(ctx context.Context, pin *board.Pin) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pins SET title = ?, url = ?, description = ?
		WHERE id = ?`,
		pin.Title, pin.URL, pin.Description, pin.ID)
	if err != nil {
		return fmt.Errorf("failed to update pin: %w", err)
	}
	return requireRow(result, "update pin")
}

// DeletePin removes a pin.
func (r *BoardRepository) DeletePin(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}
	return requireRow(result, "delete pin")
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireRow(result rowsAffected, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListCurrentEvents returns events that haven't ended at now, soonest first.
func (r *BoardRepository) ListCurrentEvents(ctx context.Context, guildID string, now time.Time) ([]board.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guild_id, title, url, description, start_date, end_date, last_modified
		FROM events
		WHERE guild_id = ? AND end_date >= ?
		ORDER BY start_date ASC, id ASC`, guildID, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []board.Event
	for rows.Next() {
		var (
			e                   board.Event
			start, end, lastMod int64
		)
		if err := rows.Scan(&e.ID, &e.GuildID, &e.Title, &e.URL, &e.Description, &start, &end, &lastMod); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.StartDate = time.Unix(start, 0).UTC()
		e.EndDate = time.Unix(end, 0).UTC()
		e.LastModified = time.Unix(lastMod, 0).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CreateEvent stores an event and assigns its ID.
func (r *BoardRepository) CreateEvent(ctx context.Context, e *board.Event) error {
	e.ID = uuid.NewString()
	if e.LastModified.IsZero() {
		e.LastModified = time.Now().UTC().Truncate(time.Second)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, guild_id, title, url, description, start_date, end_date, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.GuildID, e.Title, e.URL, e.Description, e.StartDate.Unix(), e.EndDate.Unix(), e.LastModified.Unix())
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// ListFAQs returns a guild's FAQs, oldest first.
func (r *BoardRepository) ListFAQs(ctx context.Context, guildID string) ([]board.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guild_id, question, answer, last_modified
		FROM faqs
		WHERE guild_id = ?
		ORDER BY last_modified ASC, id ASC`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []board.FAQ
	for rows.Next() {
		var (
			f       board.FAQ
			lastMod int64
		)
		if err := rows.Scan(&f.ID, &f.GuildID, &f.Question, &f.Answer, &lastMod); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		f.LastModified = time.Unix(lastMod, 0).UTC()
		faqs = append(faqs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	return faqs, nil
}

// CreateFAQ stores a FAQ and assigns its ID.
func (r *BoardRepository) CreateFAQ(ctx context.Context, f *board.FAQ) error {
	f.ID = uuid.NewString()
	if f.LastModified.IsZero() {
		f.LastModified = time.Now().UTC().Truncate(time.Second)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO faqs (id, guild_id, question, answer, last_modified)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.GuildID, f.Question, f.Answer, f.LastModified.Unix())
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}
