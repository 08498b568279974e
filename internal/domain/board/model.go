package board

import "time"

// Pin is a pinned link shown to a guild.
type Pin struct {
	ID          string `json:"id"`
	GuildID     string `json:"guild_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Event is a dated announcement.
type Event struct {
	ID           string    `json:"id"`
	GuildID      string    `json:"guild_id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	LastModified time.Time `json:"last_modified_date"`
}

// FAQ is a question and its answer.
type FAQ struct {
	ID           string    `json:"id"`
	GuildID      string    `json:"guild_id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	LastModified time.Time `json:"last_modified_date"`
}

// Summary is everything the list command shows at once.
type Summary struct {
	Events []Event `json:"events"`
	Pins   []Pin   `json:"pins"`
	FAQs   []FAQ   `json:"faqs"`
}

// PinRequest carries the editable fields of a pin.
type PinRequest struct {
	Title       string
	URL         string
	Description string
}
