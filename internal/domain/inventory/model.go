package inventory

import "time"

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Record is one collected item owned by a user.
type Record struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	ItemID     int       `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Rare       bool      `json:"rare"`
	AcquiredOn time.Time `json:"acquired_on"`
	Traded     bool      `json:"traded"`
	ViaTrade   bool      `json:"via_trade"`
}

// Available reports whether the record can still be traded away.
func (r Record) Available() bool {
	return !r.Traded
}

// CreateRequest describes a new inventory record.
type CreateRequest struct {
	OwnerID    string
	AcquiredOn time.Time
	ItemID     int
	ItemName   string
	Rare       bool
	// ViaTrade marks records created by a trade settlement rather than
	// a daily claim.
	ViaTrade bool
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
