package command

import (
	"errors"
	"fmt"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/render"
)

// ArgError reports an argument that couldn't be parsed.
type ArgError struct {
	Name string
	Raw  string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Name, e.Raw)
}

// replyError is the single place command failures become user replies.
func replyError(err error) chat.Message {
	var argErr *ArgError
	switch {
	case errors.As(err, &argErr):
		return render.ErrorText("Unable to parse %s.", argErr.Name)
	case errors.Is(err, board.ErrInvalidPosition):
		return render.ErrorText("Invalid ID! Run the `.pins` command to see a list of usable IDs.")
	case errors.Is(err, board.ErrPinNotFound):
		return render.ErrorText("That pin was removed in the meantime. Run the `.pins` command again.")
	case errors.Is(err, board.ErrInvalidInput):
		return render.ErrorText("A pin needs a title and a full URL (including `https://`).")
	case errors.Is(err, inventory.ErrInvalidInput), errors.Is(err, luckymon.ErrInvalidUser):
		return render.ErrorText("That request doesn't look right.")
	default:
		return render.ErrorText("Couldn't reach the corkboard service. Please try again later.")
	}
}
