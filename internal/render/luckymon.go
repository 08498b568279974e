package render

import (
	"fmt"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/domain/pagination"
)

// ItemLabel is the display name of an item, decorated when rare.
func ItemLabel(name string, rare bool) string {
	if rare {
		return fmt.Sprintf("✧˖° Shiny %s °˖✧", name)
	}
	return name
}

// Daily renders a daily claim.
func Daily(claim *luckymon.Claim) chat.Message {
	embed := chat.Embed{
		Title:    "You lucky pokemon of the day is:",
		Color:    colorCyan,
		ImageURL: claim.Item.Sprite(claim.Rare),
		Fields: []chat.Field{{
			Name:  ItemLabel(claim.Item.Name, claim.Rare) + "!",
			Value: fmt.Sprintf("[Bulbapedia Page](%s)", claim.Item.WikiURL()),
		}},
		Footer: fmt.Sprintf("Pokédex #: %d · %s", claim.ItemID, claim.Day.Format(inventory.DateLayout)),
	}
	return chat.Message{Embeds: []chat.Embed{embed}}
}

// Luckydex renders one page of a user's collection.
func Luckydex(owner chat.User, page pagination.Page[inventory.Record]) chat.Message {
	embed := chat.Embed{
		Title:      "Luckydex",
		Color:      colorCyan,
		Footer:     pageFooter(owner, page.Index, page.Total),
		FooterIcon: owner.AvatarURL,
	}
	if len(page.Items) == 0 {
		embed.Description = "No luckymon collected yet! Use `.luckymon` to get today's."
	}
	for _, rec := range page.Items {
		embed.Fields = append(embed.Fields, chat.Field{
			Name:   ItemLabel(rec.ItemName, rec.Rare),
			Value:  fmt.Sprintf("Pokédex #: %d\n%s", rec.ItemID, rec.AcquiredOn.Format(inventory.DateLayout)),
			Inline: true,
		})
	}
	return chat.Message{Embeds: []chat.Embed{embed}, Buttons: pagerButtons(page)}
}
