package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
)

// Board sections accepted by list_board.
const (
	SectionAll    = "all"
	SectionPins   = "pins"
	SectionEvents = "events"
	SectionFAQs   = "faqs"
)

var errMissingArgument = errors.New("missing argument")

// DailyItemInput selects a user and, optionally, a date.
type DailyItemInput struct {
	UserID string `json:"user_id" jsonschema:"Discord user ID (snowflake)"`
	Date   string `json:"date,omitempty" jsonschema:"calendar date YYYY-MM-DD; defaults to today"`
}

// DailyItemResult is the item allocated to a user for one day.
type DailyItemResult struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	ItemID    int    `json:"item_id"`
	ItemName  string `json:"item_name"`
	Rare      bool   `json:"rare"`
	SpriteURL string `json:"sprite_url,omitempty"`
}

// InventoryInput selects a user's inventory.
type InventoryInput struct {
	UserID string `json:"user_id" jsonschema:"Discord user ID (snowflake)"`
}

// InventoryResult lists a user's tradeable records.
type InventoryResult struct {
	UserID  string             `json:"user_id"`
	Records []inventory.Record `json:"records"`
}

// BoardInput selects a guild and a board section.
type BoardInput struct {
	GuildID string `json:"guild_id" jsonschema:"Discord guild ID"`
	Section string `json:"section,omitempty" jsonschema:"one of all, pins, events, faqs; defaults to all"`
}

// BoardResult holds the requested board sections.
type BoardResult struct {
	GuildID string        `json:"guild_id"`
	Pins    []board.Pin   `json:"pins,omitempty"`
	Events  []board.Event `json:"events,omitempty"`
	FAQs    []board.FAQ   `json:"faqs,omitempty"`
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	if svc.Luckymon != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "daily_item",
			Description: "Show the luckymon a user is allocated for a day. Read-only; nothing is recorded.",
		}, dailyItemHandler(svc.Luckymon))
	}
	if svc.Inventory != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_inventory",
			Description: "List the luckydex of a user: records that have not been traded away.",
		}, listInventoryHandler(svc.Inventory, logger))
	}
	if svc.Board != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_board",
			Description: "List the pins, current events and FAQs of a guild.",
		}, listBoardHandler(svc.Board, logger))
	}
}

func dailyItemHandler(svc DailyPeeker) sdkmcp.ToolHandlerFor[DailyItemInput, DailyItemResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input DailyItemInput) (*sdkmcp.CallToolResult, DailyItemResult, error) {
		userID := strings.TrimSpace(input.UserID)
		if userID == "" {
			return nil, DailyItemResult{}, fmt.Errorf("%w: user_id", errMissingArgument)
		}
		day := svc.Today()
		if raw := strings.TrimSpace(input.Date); raw != "" {
			parsed, err := time.Parse(inventory.DateLayout, raw)
			if err != nil {
				return nil, DailyItemResult{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
			}
			day = parsed
		}

		claim, err := svc.Peek(ctx, userID, day)
		if err != nil {
			return nil, DailyItemResult{}, fmt.Errorf("daily item: %w", err)
		}
		return nil, DailyItemResult{
			UserID:    claim.UserID,
			Date:      claim.Day.Format(inventory.DateLayout),
			ItemID:    claim.ItemID,
			ItemName:  claim.Item.Name,
			Rare:      claim.Rare,
			SpriteURL: claim.Item.Sprite(claim.Rare),
		}, nil
	}
}

func listInventoryHandler(svc InventoryLister, logger *slog.Logger) sdkmcp.ToolHandlerFor[InventoryInput, InventoryResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input InventoryInput) (*sdkmcp.CallToolResult, InventoryResult, error) {
		userID := strings.TrimSpace(input.UserID)
		if userID == "" {
			return nil, InventoryResult{}, fmt.Errorf("%w: user_id", errMissingArgument)
		}
		recs, err := svc.Available(ctx, userID)
		if err != nil {
			logger.Warn("mcp inventory lookup failed", "user_id", userID, "caller", getCaller(ctx), "error", err)
			return nil, InventoryResult{}, fmt.Errorf("list inventory: %w", err)
		}
		if recs == nil {
			recs = []inventory.Record{}
		}
		return nil, InventoryResult{UserID: userID, Records: recs}, nil
	}
}

func listBoardHandler(svc BoardReader, logger *slog.Logger) sdkmcp.ToolHandlerFor[BoardInput, BoardResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input BoardInput) (*sdkmcp.CallToolResult, BoardResult, error) {
		guildID := strings.TrimSpace(input.GuildID)
		if guildID == "" {
			return nil, BoardResult{}, fmt.Errorf("%w: guild_id", errMissingArgument)
		}
		section := strings.ToLower(strings.TrimSpace(input.Section))
		if section == "" {
			section = SectionAll
		}

		result := BoardResult{GuildID: guildID}
		var err error
		switch section {
		case SectionAll:
			if result.Events, err = svc.Events(ctx, guildID); err != nil {
				break
			}
			if result.Pins, err = svc.Pins(ctx, guildID); err != nil {
				break
			}
			result.FAQs, err = svc.FAQs(ctx, guildID)
		case SectionPins:
			result.Pins, err = svc.Pins(ctx, guildID)
		case SectionEvents:
			result.Events, err = svc.Events(ctx, guildID)
		case SectionFAQs:
			result.FAQs, err = svc.FAQs(ctx, guildID)
		default:
			return nil, BoardResult{}, fmt.Errorf("unknown section %q", input.Section)
		}
		if err != nil {
			logger.Warn("mcp board lookup failed", "guild_id", guildID, "section", section, "caller", getCaller(ctx), "error", err)
			return nil, BoardResult{}, fmt.Errorf("list board: %w", err)
		}
		return nil, result, nil
	}
}
