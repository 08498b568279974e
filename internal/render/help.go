package render

import (
	"fmt"

	"github.com/borfus/corkboard-bot/internal/chat"
)

// CommandInfo is the help entry of one command.
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Admin       bool
}

func (c CommandInfo) invocation(prefix string) string {
	if c.Usage == "" {
		return fmt.Sprintf("`%s%s`", prefix, c.Name)
	}
	return fmt.Sprintf("`%s%s %s`", prefix, c.Name, c.Usage)
}

// Help lists every command.
func Help(prefix string, cmds []CommandInfo) chat.Message {
	embed := chat.Embed{
		Title:       "Commands",
		Description: fmt.Sprintf("Use `%shelp <command>` for details on one command.", prefix),
		Color:       colorCork,
	}
	for _, c := range cmds {
		embed.Fields = append(embed.Fields, chat.Field{Name: c.invocation(prefix), Value: c.Description})
	}
	return chat.Message{Embeds: []chat.Embed{embed}}
}

// CommandHelp describes a single command.
func CommandHelp(prefix string, c CommandInfo) chat.Message {
	embed := chat.Embed{
		Title:       prefix + c.Name,
		Description: c.Description,
		Color:       colorCork,
		Fields:      []chat.Field{{Name: "Usage", Value: c.invocation(prefix)}},
	}
	if c.Admin {
		embed.Footer = "Requires the `corkboard` role."
	}
	return chat.Message{Embeds: []chat.Embed{embed}}
}

// UnknownCommand answers a help request for a command that doesn't exist.
func UnknownCommand(name string) chat.Message {
	return chat.Text("Could not find: `%s`.", name)
}
