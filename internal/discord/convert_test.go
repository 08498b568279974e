package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/borfus/corkboard-bot/internal/chat"
)

func TestToMessageSend(t *testing.T) {
	msg := chat.Message{
		Content: "hi",
		Embeds: []chat.Embed{{
			Title:     "Luckydex",
			Color:     0xC8A165,
			ImageURL:  "img.png",
			Thumbnail: "thumb.png",
			Footer:    "page 1 of 2",
			Fields:    []chat.Field{{Name: "Pikachu", Value: "2024-01-01", Inline: true}},
		}},
		Buttons: []chat.Button{
			{CustomID: "prev", Label: "Prev", Style: chat.ButtonSecondary},
			{CustomID: "next", Label: "Next", Disabled: true},
		},
	}

	out := toMessageSend(msg)
	require.Equal(t, "hi", out.Content)
	require.Len(t, out.Embeds, 1)
	embed := out.Embeds[0]
	require.Equal(t, "Luckydex", embed.Title)
	require.Equal(t, "img.png", embed.Image.URL)
	require.Equal(t, "thumb.png", embed.Thumbnail.URL)
	require.Equal(t, "page 1 of 2", embed.Footer.Text)
	require.Equal(t, []*discordgo.MessageEmbedField{{Name: "Pikachu", Value: "2024-01-01", Inline: true}}, embed.Fields)

	require.Len(t, out.Components, 1)
	row, ok := out.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Equal(t, []discordgo.MessageComponent{
		discordgo.Button{CustomID: "prev", Label: "Prev", Style: discordgo.SecondaryButton},
		discordgo.Button{CustomID: "next", Label: "Next", Style: discordgo.PrimaryButton, Disabled: true},
	}, row.Components)
}

func TestEmbedWithoutOptionalParts(t *testing.T) {
	out := toEmbeds([]chat.Embed{{Title: "Pins"}})
	require.Nil(t, out[0].Image)
	require.Nil(t, out[0].Thumbnail)
	require.Nil(t, out[0].Footer)
}

func TestToComponentsSplitsRows(t *testing.T) {
	var buttons []chat.Button
	for i := 0; i < 7; i++ {
		buttons = append(buttons, chat.Button{CustomID: string(rune('a' + i)), Style: chat.ButtonDanger})
	}
	rows := toComponents(buttons)
	require.Len(t, rows, 2)
	require.Len(t, rows[0].(discordgo.ActionsRow).Components, 5)
	require.Len(t, rows[1].(discordgo.ActionsRow).Components, 2)
	require.Nil(t, toComponents(nil))
}

func TestToMessageEditClearsButtons(t *testing.T) {
	edit := toMessageEdit(chat.MessageRef{ChannelID: "c", MessageID: "m"}, chat.Text("done"))
	require.Equal(t, "m", edit.ID)
	require.Equal(t, "c", edit.Channel)
	require.Equal(t, "done", *edit.Content)
	require.NotNil(t, edit.Components)
	require.Empty(t, *edit.Components)
	require.Empty(t, *edit.Embeds)
}

func TestToInbound(t *testing.T) {
	alice := &discordgo.User{ID: "1", Username: "alice"}
	bob := &discordgo.User{ID: "2", Username: "bob", GlobalName: "Bobby"}
	carol := &discordgo.User{ID: "3", Username: "carol"}
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		GuildID:   "g",
		ChannelID: "c",
		Content:   ".luckytrade <@!3> 25 n/a <@2>",
		Author:    alice,
		Mentions:  []*discordgo.User{bob, nil, carol},
	}}

	in, ok := toInbound(m)
	require.True(t, ok)
	require.Equal(t, "g", in.GuildID)
	require.Equal(t, "c", in.ChannelID)
	require.Equal(t, "m1", in.MessageID)
	require.Equal(t, "alice", in.Author.Name)
	require.Len(t, in.Mentions, 2)
	require.Equal(t, "3", in.Mentions[0].ID)
	require.Equal(t, "Bobby", in.Mentions[1].Name)
}

func TestToInboundDropsBots(t *testing.T) {
	_, ok := toInbound(&discordgo.MessageCreate{Message: &discordgo.Message{Author: &discordgo.User{ID: "9", Bot: true}}})
	require.False(t, ok)
	_, ok = toInbound(&discordgo.MessageCreate{Message: &discordgo.Message{}})
	require.False(t, ok)
}

func TestToInteraction(t *testing.T) {
	click := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Message: &discordgo.Message{ID: "m", ChannelID: "c"},
		Member:  &discordgo.Member{User: &discordgo.User{ID: "5", Username: "eve"}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: "trade:accept"},
	}}

	in, ok := toInteraction(click)
	require.True(t, ok)
	require.Equal(t, chat.MessageRef{ChannelID: "c", MessageID: "m"}, in.Message)
	require.Equal(t, "5", in.Actor.ID)
	require.Equal(t, "trade:accept", in.CustomID)

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		Message: &discordgo.Message{ID: "m", ChannelID: "dm"},
		User:    &discordgo.User{ID: "6", Username: "dan"},
		Data:    discordgo.MessageComponentInteractionData{CustomID: "page:next"},
	}}
	in, ok = toInteraction(dm)
	require.True(t, ok)
	require.Equal(t, "6", in.Actor.ID)

	_, ok = toInteraction(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand}})
	require.False(t, ok)
}

func TestHasNamedRole(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "r1", Name: "everyone"},
		{ID: "r2", Name: "corkboard"},
		nil,
	}
	require.True(t, hasNamedRole(roles, []string{"r1", "r2"}, "corkboard"))
	require.False(t, hasNamedRole(roles, []string{"r1"}, "corkboard"))
	require.False(t, hasNamedRole(roles, []string{"r2"}, "Corkboard"))
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New("", nil)
	require.Error(t, err)

	c, err := New("abc", nil)
	require.NoError(t, err)
	require.Equal(t, Intents, c.session.Identify.Intents)
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Open(nil, nil), ErrClosed)
}
