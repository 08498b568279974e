package render

import (
	"fmt"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
)

func sideText(side trade.Side) string {
	if side.Gift() {
		return "Nothing"
	}
	rec := side.Record
	return fmt.Sprintf("%s (#%d)", ItemLabel(rec.ItemName, rec.Rare), rec.ItemID)
}

func tradeFields(o *trade.Offer) []chat.Field {
	return []chat.Field{
		{Name: o.Initiator.Name + " gives", Value: sideText(o.Offered), Inline: true},
		{Name: o.Counterparty.Name + " gives", Value: sideText(o.Requested), Inline: true},
	}
}

// TradeProposal renders a pending offer with its buttons.
func TradeProposal(o *trade.Offer) chat.Message {
	return chat.Message{
		Content: chat.Mention(o.Counterparty.ID),
		Embeds: []chat.Embed{{
			Title: "Luckytrade Request!",
			Description: fmt.Sprintf("%s wants to trade with %s. Only %s can accept; either of you can cancel.",
				chat.Mention(o.Initiator.ID), chat.Mention(o.Counterparty.ID), chat.Mention(o.Counterparty.ID)),
			Color:  colorCyan,
			Fields: tradeFields(o),
		}},
		Buttons: []chat.Button{
			{CustomID: trade.AcceptButtonID, Label: "Accept", Style: chat.ButtonSuccess},
			{CustomID: trade.CancelButtonID, Label: "Cancel", Style: chat.ButtonDanger},
		},
	}
}

// TradeOutcome renders the terminal state of an offer without buttons.
// It returns false for states that are not shown.
func TradeOutcome(o *trade.Offer) (chat.Message, bool) {
	embed := chat.Embed{Fields: tradeFields(o)}
	switch o.State {
	case trade.StateAccepted:
		embed.Title = "✅ Trade Accepted! ✅"
		embed.Description = fmt.Sprintf("%s has accepted the trade request from %s. 🎉", chat.Mention(o.ClosedBy), chat.Mention(o.Initiator.ID))
		embed.Color = colorGreen
	case trade.StateCancelled:
		embed.Title = "❌ Trade Cancelled! ❌"
		embed.Description = fmt.Sprintf("%s has cancelled the trade request. 😢", chat.Mention(o.ClosedBy))
		embed.Color = colorRed
	case trade.StateAborted:
		embed.Title = "❌ Trade Aborted! ❌"
		embed.Description = "Luckymon data is outdated! Please create a new trade request."
		embed.Color = colorRed
	case trade.StateFailed:
		embed.Title = "⚠️ Trade Incomplete ⚠️"
		embed.Description = "The trade was only partly applied. An admin has been alerted; please don't retry."
		embed.Color = colorRed
	default:
		return chat.Message{}, false
	}
	return chat.Message{Embeds: []chat.Embed{embed}}, true
}

// TradeError explains why a proposal was rejected.
func TradeError(initiator chat.User, err error) chat.Message {
	return chat.Text("%s Error: %s", initiator.Mention(), TradeErrorText(err))
}
