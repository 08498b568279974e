package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/pagination"
)

// View is a pagination session paired with its renderer.
type View interface {
	Handle(actorID string, action pagination.Action) pagination.Outcome
	Render() chat.Message
}

type pageView[T any] struct {
	session *pagination.Session[T]
	render  func(pagination.Page[T]) chat.Message
}

func (v pageView[T]) Handle(actorID string, action pagination.Action) pagination.Outcome {
	return v.session.Handle(actorID, action)
}

func (v pageView[T]) Render() chat.Message {
	return v.render(v.session.Page())
}

// NewView pairs a pagination session with a render function.
func NewView[T any](s *pagination.Session[T], render func(pagination.Page[T]) chat.Message) View {
	return pageView[T]{session: s, render: render}
}

// Pager runs paginated list sessions. The idle timeout restarts on
// every owner interaction; expiry is silent.
type Pager struct {
	platform chat.Platform
	router   *Router
	clock    clock.Clock
	ttl      time.Duration
	logger   *slog.Logger
}

// NewPager creates a Pager.
func NewPager(platform chat.Platform, router *Router, clk clock.Clock, ttl time.Duration, logger *slog.Logger) *Pager {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager{platform: platform, router: router, clock: clk, ttl: ttl, logger: logger}
}

// Open sends the first page and starts the session. The returned
// channel closes when the session ends.
func (p *Pager) Open(ctx context.Context, channelID string, view View) (chat.MessageRef, <-chan struct{}, error) {
	ref, err := p.platform.Send(ctx, channelID, view.Render())
	if err != nil {
		return chat.MessageRef{}, nil, fmt.Errorf("sending first page: %w", err)
	}
	done, err := p.router.spawn(ref.MessageID, func(loopCtx context.Context, inbox <-chan event) {
		p.run(loopCtx, ref, view, inbox)
	})
	if err != nil {
		return chat.MessageRef{}, nil, err
	}
	return ref, done, nil
}

func (p *Pager) run(ctx context.Context, ref chat.MessageRef, view View, inbox <-chan event) {
	deadline := p.clock.Now().Add(p.ttl)
	timer := p.clock.After(p.ttl)
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer:
			now := p.clock.Now()
			if now.Before(deadline) {
				timer = p.clock.After(deadline.Sub(now))
				continue
			}
			p.logger.Debug("pagination session expired", "message_id", ref.MessageID)
			return
		case ev := <-inbox:
			outcome := view.Handle(ev.interaction.Actor.ID, pagination.ParseAction(ev.interaction.CustomID))
			if outcome != pagination.Ignored {
				deadline = p.clock.Now().Add(p.ttl)
			}
			if outcome == pagination.Moved {
				if err := p.platform.Edit(ctx, ref, view.Render()); err != nil {
					p.logger.Warn("editing page failed", "message_id", ref.MessageID, "error", err)
				}
			}
			close(ev.handled)
		}
	}
}
