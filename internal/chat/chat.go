// Package chat defines the platform-neutral message model the bot
// renders into and the operations it needs from a chat platform.
package chat

import (
	"context"
	"fmt"
)

// User is a chat participant.
type User struct {
	ID   string
	Name string
	// AvatarURL may be empty.
	AvatarURL string
}

// Mention formats the user as a platform mention.
func (u User) Mention() string {
	return Mention(u.ID)
}

// Mention formats a user ID as a platform mention.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// MessageRef identifies a sent message.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Field is one name/value block of an embed.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message card.
type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	ImageURL    string
	Thumbnail   string
	Fields      []Field
	Footer      string
	FooterIcon  string
}

// ButtonStyle selects a button's color.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// Button is a clickable component. CustomID comes back in Interaction.
type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// Message is a full message payload. An edit replaces every part; nil
// Buttons removes them.
type Message struct {
	Content string
	Embeds  []Embed
	Buttons []Button
}

// Text is a plain-content message.
func Text(format string, args ...any) Message {
	return Message{Content: fmt.Sprintf(format, args...)}
}

// Inbound is a user message that may contain a command.
type Inbound struct {
	GuildID   string
	ChannelID string
	MessageID string
	Author    User
	Content   string
	// Mentions lists mentioned users in order of appearance.
	Mentions []User
}

// Interaction is a component click already acknowledged by the adapter.
type Interaction struct {
	Message  MessageRef
	Actor    User
	CustomID string
}

// Platform is what the bot needs from a chat service.
type Platform interface {
	Send(ctx context.Context, channelID string, msg Message) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, msg Message) error
	HasRole(ctx context.Context, guildID, userID, roleName string) (bool, error)
}
