// Package session runs the interactive message sessions: paginated
// lists and trade offers. Each session owns one goroutine that receives
// the clicks on its message until it finishes or times out.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/borfus/corkboard-bot/internal/chat"
)

// ErrDuplicateSession means a session is already bound to the message.
var ErrDuplicateSession = errors.New("session already bound to message")

type event struct {
	interaction chat.Interaction
	handled     chan struct{}
}

type route struct {
	inbox chan event
	done  chan struct{}
}

// Router delivers interactions to the session bound to their message.
type Router struct {
	mu     sync.Mutex
	routes map[string]*route
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewRouter creates an empty router. Sessions it spawns live until they
// finish or Close is called.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Router{routes: make(map[string]*route), ctx: ctx, cancel: cancel, logger: logger}
}

// Close stops every session and waits for their goroutines.
func (r *Router) Close() {
	r.mu.Lock()
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Debug("session router closed")
}

// Dispatch hands the interaction to its session and waits until the
// session has handled it. It reports false when no live session is
// bound to the message; the interaction is then dropped.
func (r *Router) Dispatch(ctx context.Context, in chat.Interaction) bool {
	r.mu.Lock()
	rt, ok := r.routes[in.Message.MessageID]
	r.mu.Unlock()
	if !ok {
		return false
	}

	ev := event{interaction: in, handled: make(chan struct{})}
	select {
	case rt.inbox <- ev:
	case <-rt.done:
		return false
	case <-ctx.Done():
		return false
	}
	select {
	case <-ev.handled:
	case <-rt.done:
	case <-ctx.Done():
	}
	return true
}

// Active returns the number of live sessions.
func (r *Router) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.routes)
}

// spawn binds messageID and runs loop in its own goroutine. The binding
// is removed when loop returns.
func (r *Router) spawn(messageID string, loop func(ctx context.Context, inbox <-chan event)) (<-chan struct{}, error) {
	rt := &route{inbox: make(chan event), done: make(chan struct{})}

	r.mu.Lock()
	if r.ctx.Err() != nil {
		r.mu.Unlock()
		return nil, r.ctx.Err()
	}
	if _, exists := r.routes[messageID]; exists {
		r.mu.Unlock()
		return nil, ErrDuplicateSession
	}
	r.routes[messageID] = rt
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			delete(r.routes, messageID)
			r.mu.Unlock()
			close(rt.done)
		}()
		loop(r.ctx, rt.inbox)
	}()
	return rt.done, nil
}
