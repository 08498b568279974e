package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/render"
)

const (
	// DefaultPrefix starts every command.
	DefaultPrefix = "."
	// DefaultAdminRole gates the pin editing commands.
	DefaultAdminRole = "corkboard"
)

// Dispatcher routes inbound messages to the command table.
type Dispatcher struct {
	prefix    string
	adminRole string
	registry  *Registry
	platform  chat.Platform
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. Empty prefix and adminRole fall
// back to the defaults.
func NewDispatcher(prefix, adminRole string, registry *Registry, platform chat.Platform, logger *slog.Logger) *Dispatcher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if adminRole == "" {
		adminRole = DefaultAdminRole
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{prefix: prefix, adminRole: adminRole, registry: registry, platform: platform, logger: logger}
}

// Handle runs the command in msg, if any, and reports whether one ran.
// Every failure is answered in the originating channel.
func (d *Dispatcher) Handle(ctx context.Context, in chat.Inbound) bool {
	inv, ok := Parse(d.prefix, in.Content)
	if !ok {
		return false
	}
	cmd, ok := d.registry.Lookup(inv.Name)
	if !ok {
		d.logger.Debug("unknown command", "name", inv.Name, "user_id", in.Author.ID)
		return false
	}
	log := d.logger.With("command", cmd.Name, "user_id", in.Author.ID, "channel_id", in.ChannelID)
	log.Info("command received")

	if !cmd.acceptsArgs(len(inv.Args)) {
		d.reply(ctx, in, render.ErrorText("%s", d.arityText(cmd)))
		return true
	}
	if cmd.Admin {
		allowed, err := d.isAdmin(ctx, in)
		if err != nil {
			log.Warn("role lookup failed", "error", err)
			d.reply(ctx, in, replyError(err))
			return true
		}
		if !allowed {
			d.reply(ctx, in, render.ErrorText("Only users with the `%s` role can execute this command.", d.adminRole))
			return true
		}
	}

	if err := cmd.Run(ctx, in, inv.Args); err != nil {
		log.Warn("command failed", "error", err)
		d.reply(ctx, in, replyError(err))
	}
	return true
}

func (d *Dispatcher) isAdmin(ctx context.Context, in chat.Inbound) (bool, error) {
	if in.GuildID == "" {
		return false, nil
	}
	return d.platform.HasRole(ctx, in.GuildID, in.Author.ID, d.adminRole)
}

func (d *Dispatcher) arityText(cmd Command) string {
	count := fmt.Sprintf("%d", cmd.MinArgs)
	switch {
	case cmd.MaxArgs < 0:
		count = "at least " + count
	case cmd.MaxArgs != cmd.MinArgs:
		count = fmt.Sprintf("%d to %d", cmd.MinArgs, cmd.MaxArgs)
	}
	names := make([]string, len(cmd.ArgNames))
	for i, n := range cmd.ArgNames {
		names[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("the `%s` command requires %s arguments:\n\n\t\t[%s]\n\nSee `%shelp %s` for more usage details.",
		cmd.Name, count, strings.Join(names, ", "), d.prefix, cmd.Name)
}

func (d *Dispatcher) reply(ctx context.Context, in chat.Inbound, msg chat.Message) {
	if _, err := d.platform.Send(ctx, in.ChannelID, msg); err != nil {
		d.logger.Warn("sending reply failed", "channel_id", in.ChannelID, "error", err)
	}
}
