package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/borfus/corkboard-bot/internal/render"
)

// CommandsURI is the command reference resource.
const CommandsURI = "corkboard://docs/commands"

const serverInstructions = `corkboard is a Discord bot that keeps a guild's pins, events and FAQs and
runs the luckymon game: one deterministic item per user per day, collected
into a luckydex and traded between users.

Tools are read-only:
- daily_item(user_id, date?): the item a user gets for a day. Calling it never records a claim.
- list_inventory(user_id): the user's luckydex (untraded records).
- list_board(guild_id, section?): pins, current events and FAQs.

User and guild IDs are Discord snowflakes passed as strings.
Read corkboard://docs/commands for the chat commands users can run.`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

func registerDocResources(server *sdkmcp.Server, prefix string, cmds []render.CommandInfo) {
	docs := []docResource{{
		URI:         CommandsURI,
		Name:        "commands",
		Title:       "Chat commands",
		Description: "Every chat command with its usage and whether it needs the admin role.",
		Content:     commandsDoc(prefix, cmds),
	}}

	for _, doc := range docs {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

func commandsDoc(prefix string, cmds []render.CommandInfo) string {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	if len(cmds) == 0 {
		b.WriteString("No commands are registered.\n")
		return b.String()
	}
	b.WriteString("| Command | Description | Admin |\n|---|---|---|\n")
	for _, c := range cmds {
		invocation := prefix + c.Name
		if c.Usage != "" {
			invocation += " " + c.Usage
		}
		admin := ""
		if c.Admin {
			admin = "yes"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", invocation, strings.ReplaceAll(c.Description, "|", `\|`), admin)
	}
	return b.String()
}
