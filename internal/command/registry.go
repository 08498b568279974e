package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/borfus/corkboard-bot/internal/chat"
	"github.com/borfus/corkboard-bot/internal/render"
)

// Handler runs a command whose arity and permissions were already checked.
type Handler func(ctx context.Context, in chat.Inbound, args []string) error

// Command is one entry of the command table.
type Command struct {
	Name        string
	Usage       string
	Description string
	// ArgNames documents the positional arguments in arity errors.
	ArgNames []string
	MinArgs  int
	// MaxArgs of -1 accepts any number of trailing arguments.
	MaxArgs int
	Admin   bool
	Run     Handler
}

// Info is the help entry of the command.
func (c Command) Info() render.CommandInfo {
	return render.CommandInfo{Name: c.Name, Usage: c.Usage, Description: c.Description, Admin: c.Admin}
}

func (c Command) acceptsArgs(n int) bool {
	return n >= c.MinArgs && (c.MaxArgs < 0 || n <= c.MaxArgs)
}

// ErrInvalidTable indicates a malformed command table.
var ErrInvalidTable = errors.New("invalid command table")

// Registry is the static command table, validated once at startup.
type Registry struct {
	commands map[string]Command
	ordered  []Command
}

// NewRegistry validates cmds and builds the table.
func NewRegistry(cmds ...Command) (*Registry, error) {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		switch {
		case c.Name == "" || c.Name != strings.ToLower(c.Name) || strings.ContainsAny(c.Name, " \t\n"):
			return nil, fmt.Errorf("%w: bad name %q", ErrInvalidTable, c.Name)
		case c.Run == nil:
			return nil, fmt.Errorf("%w: %s has no handler", ErrInvalidTable, c.Name)
		case c.MinArgs < 0 || (c.MaxArgs >= 0 && c.MaxArgs < c.MinArgs):
			return nil, fmt.Errorf("%w: %s has arity %d..%d", ErrInvalidTable, c.Name, c.MinArgs, c.MaxArgs)
		case len(c.ArgNames) < c.MinArgs:
			return nil, fmt.Errorf("%w: %s names %d of %d required arguments", ErrInvalidTable, c.Name, len(c.ArgNames), c.MinArgs)
		}
		if _, dup := r.commands[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate command %s", ErrInvalidTable, c.Name)
		}
		r.commands[c.Name] = c
		r.ordered = append(r.ordered, c)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].Name < r.ordered[j].Name })
	return r, nil
}

// Lookup finds a command by lower-case name.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Commands returns the table sorted by name.
func (r *Registry) Commands() []Command {
	return append([]Command(nil), r.ordered...)
}
