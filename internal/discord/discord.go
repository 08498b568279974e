// Package discord connects the bot to the Discord gateway and
// implements chat.Platform over the Discord REST API.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/borfus/corkboard-bot/internal/chat"
)

// Intents the bot needs: guild and DM messages with their content.
const Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

// handlerTimeout bounds the work done for one gateway event.
const handlerTimeout = 30 * time.Second

// ErrClosed is returned after Close.
var ErrClosed = errors.New("discord client closed")

// CommandHandler consumes user messages.
type CommandHandler interface {
	Handle(ctx context.Context, in chat.Inbound) bool
}

// InteractionDispatcher consumes acknowledged component clicks.
type InteractionDispatcher interface {
	Dispatch(ctx context.Context, in chat.Interaction) bool
}

// Client is a gateway connection and the chat.Platform backed by it.
type Client struct {
	session *discordgo.Session
	logger  *slog.Logger

	mu       sync.Mutex
	removers []func()
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	closed   bool
}

var _ chat.Platform = (*Client)(nil)

// New creates a client for a bot token. No connection is made until Open.
func New(token string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if token == "" {
		return nil, errors.New("discord token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{session: session, logger: logger, ctx: ctx, cancel: cancel}, nil
}

// Open registers the handlers and connects to the gateway.
func (c *Client) Open(commands CommandHandler, interactions InteractionDispatcher) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.removers = append(c.removers,
		c.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			c.logger.Info("discord connected", "user", r.User.Username, "guilds", len(r.Guilds))
		}),
		c.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
			c.onMessage(commands, m)
		}),
		c.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			c.onInteraction(interactions, i)
		}),
	)
	c.mu.Unlock()

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Close disconnects and waits for in-flight handlers.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, remove := range c.removers {
		remove()
	}
	c.removers = nil
	c.cancel()
	c.mu.Unlock()

	err := c.session.Close()
	c.wg.Wait()
	return err
}

// track runs fn unless the client is closing.
func (c *Client) track(fn func(ctx context.Context)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(c.ctx, handlerTimeout)
	defer cancel()
	fn(ctx)
}

func (c *Client) onMessage(commands CommandHandler, m *discordgo.MessageCreate) {
	in, ok := toInbound(m)
	if !ok {
		return
	}
	c.track(func(ctx context.Context) {
		commands.Handle(ctx, in)
	})
}

func (c *Client) onInteraction(interactions InteractionDispatcher, i *discordgo.InteractionCreate) {
	in, ok := toInteraction(i)
	if !ok {
		return
	}
	c.track(func(ctx context.Context) {
		// Ack before the session edits the message.
		err := c.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}, discordgo.WithContext(ctx))
		if err != nil {
			c.logger.Warn("interaction ack failed", "message_id", in.Message.MessageID, "error", err)
			return
		}
		if !interactions.Dispatch(ctx, in) {
			c.logger.Debug("interaction without session", "message_id", in.Message.MessageID, "custom_id", in.CustomID)
		}
	})
}

// Send posts a message to a channel.
func (c *Client) Send(ctx context.Context, channelID string, msg chat.Message) (chat.MessageRef, error) {
	sent, err := c.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return chat.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return chat.MessageRef{ChannelID: sent.ChannelID, MessageID: sent.ID}, nil
}

// Edit replaces a message in place.
func (c *Client) Edit(ctx context.Context, ref chat.MessageRef, msg chat.Message) error {
	if _, err := c.session.ChannelMessageEditComplex(toMessageEdit(ref, msg), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// HasRole reports whether the member holds a role with the given name.
func (c *Client) HasRole(ctx context.Context, guildID, userID, roleName string) (bool, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("list guild roles: %w", err)
	}
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("get guild member: %w", err)
	}
	return hasNamedRole(roles, member.Roles, roleName), nil
}
