package render

import (
	"errors"
	"fmt"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
)

// TradeErrorText maps proposal errors to the sentence shown to users.
func TradeErrorText(err error) string {
	var argErr *trade.ArgError
	var missing *trade.MissingItemError
	switch {
	case errors.As(err, &argErr):
		ordinal := "first"
		if argErr.Position == 2 {
			ordinal = "second"
		}
		return fmt.Sprintf("Invalid format for the %s trade argument. Use a number, a number followed by 's', or n/a.", ordinal)
	case errors.As(err, &missing):
		if missing.Initiator {
			return fmt.Sprintf("You don't have a luckymon with ID %s!", missing.Arg)
		}
		return fmt.Sprintf("%s doesn't have a luckymon with ID %s!", chat.Mention(missing.Giver.ID), missing.Arg)
	case errors.Is(err, trade.ErrSelfTrade):
		return "You can't trade yourself, silly!"
	case errors.Is(err, trade.ErrBothGifts):
		return "Both luckymon can't be 'N/A'."
	case errors.Is(err, trade.ErrMissingCounterparty):
		return "Mention exactly one user to trade with."
	default:
		return "Couldn't reach the luckymon service. Please try again later."
	}
}
