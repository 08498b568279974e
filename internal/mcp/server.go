// Package mcp exposes read-only corkboard data to agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/render"
)

// DailyPeeker computes daily allocations without recording them.
type DailyPeeker interface {
	Today() time.Time
	Peek(ctx context.Context, userID string, day time.Time) (*luckymon.Claim, error)
}

// InventoryLister lists a user's tradeable records.
type InventoryLister interface {
	Available(ctx context.Context, ownerID string) ([]inventory.Record, error)
}

// BoardReader reads a guild's board.
type BoardReader interface {
	Pins(ctx context.Context, guildID string) ([]board.Pin, error)
	Events(ctx context.Context, guildID string) ([]board.Event, error)
	FAQs(ctx context.Context, guildID string) ([]board.FAQ, error)
}

// Services contains the domain services exposed as tools.
type Services struct {
	Luckymon  DailyPeeker
	Inventory InventoryLister
	Board     BoardReader
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Resolver enables bearer token checks when set.
	Resolver CallerResolver
	// Prefix and Commands feed the command reference resource.
	Prefix   string
	Commands []render.CommandInfo
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "corkboard",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server, cfg.Prefix, cfg.Commands)

	if cfg.Resolver != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware("anonymous"))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
