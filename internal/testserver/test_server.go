// Package testserver starts the ops HTTP surface over an in-memory
// store for end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/borfus/corkboard-bot/internal/catalog"
	"github.com/borfus/corkboard-bot/internal/clock"
	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/mcp"
	"github.com/borfus/corkboard-bot/internal/render"
	"github.com/borfus/corkboard-bot/internal/store/sqlstore"
	"github.com/borfus/corkboard-bot/internal/transport"
)

// Now is the fake clock's start time.
var Now = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

type TestServer struct {
	Server    *httptest.Server
	DB        *sqlstore.DB
	Clock     *clock.FakeClock
	Token     string
	Luckymon  *luckymon.Service
	Inventory *inventory.Service
	Board     *board.Service
}

// staticCatalog names every item "Item <id>" without network access.
type staticCatalog struct{}

func (staticCatalog) Lookup(_ context.Context, itemID int) (catalog.Item, error) {
	return catalog.Item{ID: itemID, Name: "Item " + strconv.Itoa(itemID), SpriteURL: "sprite.png"}, nil
}

// New starts a server guarded by token. An empty token disables auth.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	db, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))

	clk := clock.Fake(Now)
	alloc, err := luckymon.NewAllocator(luckymon.DefaultItemSpace, luckymon.DefaultRarityDenominator)
	require.NoError(t, err)

	invRepo := sqlstore.NewInventoryRepository(db)
	boardSvc := board.NewService(sqlstore.NewBoardRepository(db), clk, nil)
	inventorySvc := inventory.NewService(invRepo, nil)
	luckymonSvc := luckymon.NewService(luckymon.Options{
		Allocator: alloc,
		Repo:      invRepo,
		Catalog:   staticCatalog{},
		Clock:     clk,
	})

	mcpCfg := mcp.Config{
		Services: mcp.Services{Luckymon: luckymonSvc, Inventory: inventorySvc, Board: boardSvc},
		Prefix:   ".",
		Commands: []render.CommandInfo{{Name: "luckymon", Description: "Claim today's luckymon."}},
	}
	var auth func(http.Handler) http.Handler
	if token != "" {
		resolver := transport.StaticToken(token)
		mcpCfg.Resolver = resolver
		auth = transport.AuthMiddleware(resolver)
	}
	mcpServer := mcp.NewServer(mcpCfg)

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Luckymon:  luckymonSvc,
		Inventory: inventorySvc,
		Checks:    map[string]transport.Pinger{"store": db},
		Auth:      auth,
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
		),
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:    server,
		DB:        db,
		Clock:     clk,
		Token:     token,
		Luckymon:  luckymonSvc,
		Inventory: inventorySvc,
		Board:     boardSvc,
	}
}

// Get issues an authenticated GET.
func (ts *TestServer) Get(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+path, nil)
	require.NoError(t, err)
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}
	resp, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

// ConnectMCP opens an MCP client session over streamable HTTP.
func (ts *TestServer) ConnectMCP(t *testing.T, token string) (*sdkmcp.ClientSession, error) {
	t.Helper()
	httpClient := ts.Server.Client()
	if token != "" {
		httpClient = &http.Client{Transport: bearerTransport{token: token, base: ts.Server.Client().Transport}}
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver", Version: "v0.0.1"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: httpClient,
	}, nil)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = session.Close() })
	return session, nil
}
