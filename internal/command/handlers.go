package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/domain/pagination"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
	"github.com/borfus/corkboard-bot/internal/render"
	"github.com/borfus/corkboard-bot/internal/session"
)

const (
	// DefaultLuckydexPageSize matches the embed field limit.
	DefaultLuckydexPageSize = 25
	DefaultBoardPageSize    = 10
)

// Bot holds the services the command handlers call.
type Bot struct {
	Platform  chat.Platform
	Board     *board.Service
	Inventory *inventory.Service
	Luckymon  *luckymon.Service
	Trades    *trade.Coordinator
	Pager     *session.Pager
	Trader    *session.Trader
	Prefix    string

	LuckydexPageSize int
	BoardPageSize    int
	Logger           *slog.Logger
}

// Registry builds the command table over the bot's handlers.
func (b *Bot) Registry() (*Registry, error) {
	if b.Prefix == "" {
		b.Prefix = DefaultPrefix
	}
	if b.LuckydexPageSize <= 0 {
		b.LuckydexPageSize = DefaultLuckydexPageSize
	}
	if b.BoardPageSize <= 0 {
		b.BoardPageSize = DefaultBoardPageSize
	}
	if b.Logger == nil {
		b.Logger = slog.Default()
	}

	var reg *Registry
	help := Command{
		Name:        "help",
		Usage:       "[command]",
		Description: "Lists commands, or describes one.",
		ArgNames:    []string{"Command"},
		MaxArgs:     1,
		Run: func(ctx context.Context, in chat.Inbound, args []string) error {
			return b.help(ctx, reg, in, args)
		},
	}
	reg, err := NewRegistry(
		Command{Name: "pins", Description: "Retrieves all pins.", Run: b.pins},
		Command{Name: "events", Description: "Retrieves all events.", Run: b.events},
		Command{Name: "faqs", Description: "Retrieves all FAQs.", Run: b.faqs},
		Command{Name: "list", Description: "Retrieves all events, pins, and faqs.", Run: b.list},
		Command{Name: "luckymon", Description: "Lucky pokemon of the day!", Run: b.luckymon},
		Command{Name: "luckydex", Description: "Retrieves Luckymon History for a User.", Run: b.luckydex},
		Command{
			Name:        "luckytrade",
			Usage:       "@user <item|items|n/a> <item|items|n/a>",
			Description: "Trade Your Luckymon With Other Users. A trailing 's' picks the shiny one; n/a makes it a gift.",
			ArgNames:    []string{"User", "Offered", "Requested"},
			MinArgs:     3,
			MaxArgs:     3,
			Run:         b.luckytrade,
		},
		Command{
			Name:        "add_pin",
			Usage:       "title url description",
			Description: "Add a Pin.",
			ArgNames:    []string{"Title", "URL", "Description"},
			MinArgs:     3,
			MaxArgs:     3,
			Admin:       true,
			Run:         b.addPin,
		},
		Command{
			Name:        "edit_pin",
			Usage:       "pin_id title url description",
			Description: "Edit a Pin. pin_id is the number shown by the pins command.",
			ArgNames:    []string{"Pin_id", "Title", "URL", "Description"},
			MinArgs:     4,
			MaxArgs:     4,
			Admin:       true,
			Run:         b.editPin,
		},
		Command{
			Name:        "delete_pin",
			Usage:       "pin_id",
			Description: "Delete a Pin. pin_id is the number shown by the pins command.",
			ArgNames:    []string{"Pin_id"},
			MinArgs:     1,
			MaxArgs:     1,
			Admin:       true,
			Run:         b.deletePin,
		},
		help,
	)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Bot) send(ctx context.Context, in chat.Inbound, msg chat.Message) error {
	if _, err := b.Platform.Send(ctx, in.ChannelID, msg); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}

func (b *Bot) pins(ctx context.Context, in chat.Inbound, _ []string) error {
	pins, err := b.Board.Pins(ctx, in.GuildID)
	if err != nil {
		return err
	}
	return openPaged(ctx, b, in, pins, b.BoardPageSize, func(p pagination.Page[board.Pin]) chat.Message {
		return render.Pins(in.Author, p)
	})
}

func (b *Bot) events(ctx context.Context, in chat.Inbound, _ []string) error {
	events, err := b.Board.Events(ctx, in.GuildID)
	if err != nil {
		return err
	}
	return openPaged(ctx, b, in, events, b.BoardPageSize, func(p pagination.Page[board.Event]) chat.Message {
		return render.Events(in.Author, p)
	})
}

func (b *Bot) faqs(ctx context.Context, in chat.Inbound, _ []string) error {
	faqs, err := b.Board.FAQs(ctx, in.GuildID)
	if err != nil {
		return err
	}
	return openPaged(ctx, b, in, faqs, b.BoardPageSize, func(p pagination.Page[board.FAQ]) chat.Message {
		return render.FAQs(in.Author, p)
	})
}

func (b *Bot) list(ctx context.Context, in chat.Inbound, _ []string) error {
	summary, err := b.Board.Summary(ctx, in.GuildID)
	if err != nil {
		return err
	}
	return b.send(ctx, in, render.Summary(summary))
}

func (b *Bot) luckymon(ctx context.Context, in chat.Inbound, _ []string) error {
	claim, err := b.Luckymon.Claim(ctx, in.Author.ID)
	if err != nil {
		return err
	}
	return b.send(ctx, in, render.Daily(claim))
}

func (b *Bot) luckydex(ctx context.Context, in chat.Inbound, _ []string) error {
	recs, err := b.Inventory.Available(ctx, in.Author.ID)
	if err != nil {
		return err
	}
	return openPaged(ctx, b, in, recs, b.LuckydexPageSize, func(p pagination.Page[inventory.Record]) chat.Message {
		return render.Luckydex(in.Author, p)
	})
}

func openPaged[T any](ctx context.Context, b *Bot, in chat.Inbound, items []T, pageSize int, fn func(pagination.Page[T]) chat.Message) error {
	s, err := pagination.Open(in.Author.ID, items, pageSize)
	if err != nil {
		return err
	}
	_, _, err = b.Pager.Open(ctx, in.ChannelID, session.NewView(s, fn))
	return err
}

func (b *Bot) luckytrade(ctx context.Context, in chat.Inbound, args []string) error {
	counterparty := mentioned(in, args[0])
	offer, err := b.Trades.Propose(ctx, trade.ProposeRequest{
		Initiator:    trade.Party{ID: in.Author.ID, Name: in.Author.Name},
		Counterparty: trade.Party{ID: counterparty.ID, Name: counterparty.Name},
		OfferedArg:   args[1],
		RequestedArg: args[2],
	})
	if err != nil {
		if !isTradeValidation(err) {
			b.Logger.Warn("trade proposal failed", "user_id", in.Author.ID, "error", err)
		}
		return b.send(ctx, in, render.TradeError(in.Author, err))
	}
	_, _, err = b.Trader.Start(ctx, in.ChannelID, offer)
	return err
}

func isTradeValidation(err error) bool {
	var argErr *trade.ArgError
	var missing *trade.MissingItemError
	return errors.As(err, &argErr) || errors.As(err, &missing) ||
		errors.Is(err, trade.ErrSelfTrade) || errors.Is(err, trade.ErrBothGifts) ||
		errors.Is(err, trade.ErrMissingCounterparty)
}

// mentioned resolves a <@id> or <@!id> token against the message's
// mentions. The zero User means the token isn't a mention.
func mentioned(in chat.Inbound, token string) chat.User {
	id, ok := strings.CutPrefix(token, "<@")
	if !ok {
		return chat.User{}
	}
	id, ok = strings.CutSuffix(strings.TrimPrefix(id, "!"), ">")
	if !ok || id == "" {
		return chat.User{}
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return chat.User{}
	}
	for _, u := range in.Mentions {
		if u.ID == id {
			return u
		}
	}
	return chat.User{ID: id, Name: id}
}

func (b *Bot) addPin(ctx context.Context, in chat.Inbound, args []string) error {
	pin, err := b.Board.AddPin(ctx, in.GuildID, board.PinRequest{Title: args[0], URL: args[1], Description: args[2]})
	if err != nil {
		return err
	}
	return b.send(ctx, in, render.PinChanged("Created", pin))
}

func (b *Bot) editPin(ctx context.Context, in chat.Inbound, args []string) error {
	position, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	pin, err := b.Board.EditPin(ctx, in.GuildID, position, board.PinRequest{Title: args[1], URL: args[2], Description: args[3]})
	if err != nil {
		return err
	}
	return b.send(ctx, in, render.PinChanged("Edited", pin))
}

func (b *Bot) deletePin(ctx context.Context, in chat.Inbound, args []string) error {
	position, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	pin, err := b.Board.DeletePin(ctx, in.GuildID, position)
	if err != nil {
		return err
	}
	return b.send(ctx, in, render.PinChanged("Deleted", pin))
}

func parsePosition(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ArgError{Name: "ID", Raw: raw}
	}
	return n, nil
}

func (b *Bot) help(ctx context.Context, reg *Registry, in chat.Inbound, args []string) error {
	if len(args) == 0 {
		cmds := reg.Commands()
		infos := make([]render.CommandInfo, len(cmds))
		for i, c := range cmds {
			infos[i] = c.Info()
		}
		return b.send(ctx, in, render.Help(b.Prefix, infos))
	}
	name := strings.ToLower(strings.TrimPrefix(args[0], b.Prefix))
	cmd, ok := reg.Lookup(name)
	if !ok {
		return b.send(ctx, in, render.UnknownCommand(args[0]))
	}
	return b.send(ctx, in, render.CommandHelp(b.Prefix, cmd.Info()))
}
