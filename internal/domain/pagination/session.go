// Package pagination holds the navigation state of a paged list that is
// bound to one owner.
package pagination

import (
	"errors"
	"fmt"
)

// ErrInvalidPageSize is returned when the page size is not positive.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Button custom IDs.
const (
	PrevButtonID = "prev"
	NextButtonID = "next"
)

// Action is a navigation request.
type Action int

const (
	ActionUnknown Action = iota
	ActionPrevious
	ActionNext
)

// ParseAction maps a button custom ID to an Action.
func ParseAction(customID string) Action {
	switch customID {
	case PrevButtonID:
		return ActionPrevious
	case NextButtonID:
		return ActionNext
	default:
		return ActionUnknown
	}
}

// Outcome describes what Handle did.
type Outcome int

const (
	// Ignored means the actor is not the owner or the action is unknown.
	Ignored Outcome = iota
	// Unchanged means the owner hit a boundary.
	Unchanged
	// Moved means the current page changed and must be re-rendered.
	Moved
)

// Session is the navigation state over a fixed item list.
type Session[T any] struct {
	owner    string
	items    []T
	pageSize int
	current  int
}

// Open starts a session on page zero.
func Open[T any](owner string, items []T, pageSize int) (*Session[T], error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	return &Session[T]{owner: owner, items: items, pageSize: pageSize}, nil
}

// Owner returns the only user allowed to navigate.
func (s *Session[T]) Owner() string { return s.owner }

// CurrentPage returns the zero-based current page.
func (s *Session[T]) CurrentPage() int { return s.current }

// TotalPages is ceil(len/pageSize), and at least 1 so an empty list
// still renders one page.
func (s *Session[T]) TotalPages() int {
	n := (len(s.items) + s.pageSize - 1) / s.pageSize
	if n < 1 {
		return 1
	}
	return n
}

// Handle applies action on behalf of actorID.
func (s *Session[T]) Handle(actorID string, action Action) Outcome {
	if actorID != s.owner {
		return Ignored
	}
	switch action {
	case ActionPrevious:
		if s.current == 0 {
			return Unchanged
		}
		s.current--
		return Moved
	case ActionNext:
		if s.current >= s.TotalPages()-1 {
			return Unchanged
		}
		s.current++
		return Moved
	default:
		return Ignored
	}
}

// Page is a read-only view of the current page.
type Page[T any] struct {
	Items []T
	// Index is zero-based.
	Index int
	Total int
	// Offset is the position of Items[0] in the full list.
	Offset  int
	HasPrev bool
	HasNext bool
}

// Page returns the items on the current page.
func (s *Session[T]) Page() Page[T] {
	start := s.current * s.pageSize
	end := start + s.pageSize
	if end > len(s.items) {
		end = len(s.items)
	}
	if start > end {
		start = end
	}
	total := s.TotalPages()
	return Page[T]{
		Items:   s.items[start:end],
		Index:   s.current,
		Total:   total,
		Offset:  start,
		HasPrev: s.current > 0,
		HasNext: s.current < total-1,
	}
}
