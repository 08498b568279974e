package discord

import (
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/borfus/corkboard-bot/internal/chat"
)

// maxButtonsPerRow is Discord's action row limit.
const maxButtonsPerRow = 5

func toEmbeds(embeds []chat.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       e.Color,
		}
		if e.ImageURL != "" {
			me.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		if e.Thumbnail != "" {
			me.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
		}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer, IconURL: e.FooterIcon}
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		out = append(out, me)
	}
	return out
}

func buttonStyle(s chat.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case chat.ButtonSecondary:
		return discordgo.SecondaryButton
	case chat.ButtonSuccess:
		return discordgo.SuccessButton
	case chat.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// toComponents packs buttons into action rows.
func toComponents(buttons []chat.Button) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += maxButtonsPerRow {
		end := min(start+maxButtonsPerRow, len(buttons))
		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				CustomID: b.CustomID,
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				Disabled: b.Disabled,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func toMessageSend(msg chat.Message) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     toEmbeds(msg.Embeds),
		Components: toComponents(msg.Buttons),
	}
}

// toMessageEdit replaces every part of the message, so empty parts are
// sent explicitly to clear them.
func toMessageEdit(ref chat.MessageRef, msg chat.Message) *discordgo.MessageEdit {
	content := msg.Content
	embeds := toEmbeds(msg.Embeds)
	components := toComponents(msg.Buttons)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return &discordgo.MessageEdit{
		ID:         ref.MessageID,
		Channel:    ref.ChannelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
}

func toUser(u *discordgo.User) chat.User {
	if u == nil {
		return chat.User{}
	}
	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	return chat.User{ID: u.ID, Name: name, AvatarURL: u.AvatarURL("")}
}

// toInbound converts a gateway message. Messages from bots are dropped.
func toInbound(m *discordgo.MessageCreate) (chat.Inbound, bool) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return chat.Inbound{}, false
	}
	in := chat.Inbound{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Author:    toUser(m.Author),
		Content:   m.Content,
	}
	for _, u := range orderMentions(m.Content, m.Mentions) {
		in.Mentions = append(in.Mentions, toUser(u))
	}
	return in, true
}

// orderMentions sorts mentioned users by where they first appear in the
// content. The gateway does not guarantee an order.
func orderMentions(content string, users []*discordgo.User) []*discordgo.User {
	position := func(u *discordgo.User) int {
		idx := strings.Index(content, "<@"+u.ID+">")
		if alt := strings.Index(content, "<@!"+u.ID+">"); alt >= 0 && (idx < 0 || alt < idx) {
			idx = alt
		}
		if idx < 0 {
			return len(content)
		}
		return idx
	}
	out := make([]*discordgo.User, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return position(out[i]) < position(out[j]) })
	return out
}

// toInteraction converts a button click. Other interaction kinds are
// not handled by the bot.
func toInteraction(i *discordgo.InteractionCreate) (chat.Interaction, bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionMessageComponent || i.Message == nil {
		return chat.Interaction{}, false
	}
	actor := i.User
	if i.Member != nil && i.Member.User != nil {
		actor = i.Member.User
	}
	if actor == nil {
		return chat.Interaction{}, false
	}
	return chat.Interaction{
		Message:  chat.MessageRef{ChannelID: i.Message.ChannelID, MessageID: i.Message.ID},
		Actor:    toUser(actor),
		CustomID: i.MessageComponentData().CustomID,
	}, true
}

// hasNamedRole reports whether any of memberRoles is a role called name.
func hasNamedRole(guildRoles []*discordgo.Role, memberRoles []string, name string) bool {
	ids := make(map[string]struct{}, len(memberRoles))
	for _, id := range memberRoles {
		ids[id] = struct{}{}
	}
	for _, role := range guildRoles {
		if role == nil || role.Name != name {
			continue
		}
		if _, ok := ids[role.ID]; ok {
			return true
		}
	}
	return false
}
