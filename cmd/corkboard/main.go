package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/borfus/corkboard-bot/internal/catalog"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/command"
	"github.com/borfus/corkboard-bot/internal/config"
	"github.com/borfus/corkboard-bot/internal/discord"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
	"github.com/borfus/corkboard-bot/internal/guard"
	"github.com/borfus/corkboard-bot/internal/mcp"
	"github.com/borfus/corkboard-bot/internal/render"
	"github.com/borfus/corkboard-bot/internal/session"
	"github.com/borfus/corkboard-bot/internal/store/rest"
	"github.com/borfus/corkboard-bot/internal/store/sqlstore"
	"github.com/borfus/corkboard-bot/internal/transport"
)

var version = "dev"

func main() {
	flags := pflag.NewFlagSet("corkboard", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to a YAML config file (default: $CORKBOARD_CONFIG_PATH)")
	showVersion := flags.Bool("version", false, "print the version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "flag error: %v\n", err)
		os.Exit(2)
	}
	if *showVersion {
		fmt.Println("corkboard", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logWriter := io.Writer(os.Stdout)
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("corkboard stopped", "error", err)
		os.Exit(1)
	}
}

// stores bundles the repositories of the configured backend.
type stores struct {
	inventory inventory.Repository
	board     board.Repository
	pinger    transport.Pinger
	close     func() error
}

func openStores(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*stores, error) {
	if cfg.Driver == config.DriverREST {
		client := rest.New(cfg.BaseURL, cfg.Timeout, logger)
		return &stores{
			inventory: rest.NewInventoryRepository(client),
			board:     rest.NewBoardRepository(client),
			pinger:    client,
			close:     func() error { return nil },
		}, nil
	}

	if cfg.Driver == config.DriverSQLite {
		if err := ensureDBDir(cfg.DSN); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
	}
	db, err := sqlstore.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		inventory: sqlstore.NewInventoryRepository(db),
		board:     sqlstore.NewBoardRepository(db),
		pinger:    db,
		close:     db.Close,
	}, nil
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := openStores(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.close()
	logger.Info("store ready", "driver", cfg.Store.Driver)

	checks := map[string]transport.Pinger{"store": st.pinger}

	// Nil interfaces, not typed nils, when Redis is off.
	var claimGuard luckymon.ClaimGuard
	var locker trade.RecordLocker
	if cfg.Redis.Enabled {
		g, err := guard.Connect(ctx, guard.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer g.Close()
		claimGuard, locker = g, g
		checks["redis"] = g
		logger.Info("redis guard enabled", "addr", cfg.Redis.Addr)
	}

	alloc, err := luckymon.NewAllocator(cfg.Luckymon.ItemSpace, cfg.Luckymon.RarityDenominator)
	if err != nil {
		return fmt.Errorf("create allocator: %w", err)
	}

	clk := clock.Real()
	boardSvc := board.NewService(st.board, clk, logger)
	inventorySvc := inventory.NewService(st.inventory, logger)
	luckymonSvc := luckymon.NewService(luckymon.Options{
		Allocator: alloc,
		Repo:      st.inventory,
		Catalog:   catalog.NewClient(cfg.Luckymon.CatalogURL, cfg.Luckymon.CatalogTimeout),
		Guard:     claimGuard,
		Clock:     clk,
		Location:  cfg.Location(),
		Logger:    logger,
	})
	coordinator := trade.NewCoordinator(st.inventory, locker, clk, cfg.Sessions.TradeTTL, logger)

	client, err := discord.New(cfg.Discord.Token, logger)
	if err != nil {
		return err
	}

	router := session.NewRouter(logger)
	bot := &command.Bot{
		Platform:         client,
		Board:            boardSvc,
		Inventory:        inventorySvc,
		Luckymon:         luckymonSvc,
		Trades:           coordinator,
		Pager:            session.NewPager(client, router, clk, cfg.Sessions.PaginationTTL, logger),
		Trader:           session.NewTrader(client, router, coordinator, clk, logger),
		Prefix:           cfg.Discord.Prefix,
		LuckydexPageSize: cfg.Sessions.LuckydexPageSize,
		BoardPageSize:    cfg.Sessions.BoardPageSize,
		Logger:           logger,
	}
	registry, err := bot.Registry()
	if err != nil {
		return fmt.Errorf("build command table: %w", err)
	}
	dispatcher := command.NewDispatcher(cfg.Discord.Prefix, cfg.Discord.AdminRole, registry, client, logger)

	var httpServer *http.Server
	if cfg.Server.Enabled {
		httpServer = newOpsServer(cfg, registry, luckymonSvc, inventorySvc, boardSvc, checks, logger)
		go func() {
			logger.Info("server listening", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server error", "error", err)
			}
		}()
	}

	if err := client.Open(dispatcher, router); err != nil {
		router.Close()
		return err
	}
	logger.Info("corkboard running", "prefix", cfg.Discord.Prefix, "commands", len(registry.Commands()))

	waitForShutdown(logger, client, router, httpServer)
	return nil
}

func newOpsServer(cfg config.Config, registry *command.Registry, daily *luckymon.Service, inv *inventory.Service, boardSvc *board.Service, checks map[string]transport.Pinger, logger *slog.Logger) *http.Server {
	var resolver transport.TokenResolver
	var auth func(http.Handler) http.Handler
	if cfg.Server.APIToken != "" {
		resolver = transport.StaticToken(cfg.Server.APIToken)
		auth = transport.AuthMiddleware(resolver)
	}

	var mcpHandler http.Handler
	if cfg.Server.MCPEnabled {
		infos := make([]render.CommandInfo, 0, len(registry.Commands()))
		for _, c := range registry.Commands() {
			infos = append(infos, c.Info())
		}
		mcpCfg := mcp.Config{
			Services: mcp.Services{Luckymon: daily, Inventory: inv, Board: boardSvc},
			Prefix:   cfg.Discord.Prefix,
			Commands: infos,
			Version:  version,
			Logger:   logger,
		}
		if resolver != nil {
			mcpCfg.Resolver = resolver
		}
		mcpServer := mcp.NewServer(mcpCfg)
		mcpHandler = sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
		)
	}

	return &http.Server{
		Addr: cfg.Server.Address(),
		Handler: transport.NewServer(transport.Config{
			Luckymon:       daily,
			Inventory:      inv,
			Checks:         checks,
			Auth:           auth,
			MCP:            mcpHandler,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, client *discord.Client, router *session.Router, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	if err := client.Close(); err != nil {
		logger.Error("discord close error", "error", err)
	}
	router.Close()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
