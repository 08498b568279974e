package testserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/borfus/corkboard-bot/internal/domain/board"
	"github.com/borfus/corkboard-bot/internal/testserver"
)

const token = "test-token"

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthIsPublic(t *testing.T) {
	ts := testserver.New(t, token)

	resp, err := ts.Server.Client().Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "ok", string(body))
}

func TestReadyReportsStore(t *testing.T) {
	ts := testserver.New(t, token)

	resp := ts.Get(t, "/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var checks map[string]string
	decode(t, resp, &checks)
	require.Equal(t, map[string]string{"store": "ok"}, checks)
}

func TestAPIRequiresToken(t *testing.T) {
	ts := testserver.New(t, token)

	resp, err := ts.Server.Client().Get(ts.Server.URL + "/api/v1/daily/1234")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDailyMatchesClaim(t *testing.T) {
	ts := testserver.New(t, token)
	ctx := context.Background()

	claim, err := ts.Luckymon.Claim(ctx, "1234")
	require.NoError(t, err)
	require.True(t, claim.Recorded)

	resp := ts.Get(t, "/api/v1/daily/1234")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var daily struct {
		Date   string `json:"date"`
		ItemID int    `json:"item_id"`
		Rare   bool   `json:"rare"`
	}
	decode(t, resp, &daily)
	require.Equal(t, "2024-01-01", daily.Date)
	require.Equal(t, claim.ItemID, daily.ItemID)
	require.Equal(t, claim.Rare, daily.Rare)

	resp = ts.Get(t, "/api/v1/inventory/1234")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recs []struct {
		ItemID int  `json:"item_id"`
		Traded bool `json:"traded"`
	}
	decode(t, resp, &recs)
	require.Len(t, recs, 1)
	require.Equal(t, claim.ItemID, recs[0].ItemID)
	require.False(t, recs[0].Traded)

	again, err := ts.Luckymon.Claim(ctx, "1234")
	require.NoError(t, err)
	require.False(t, again.Recorded)
	require.Equal(t, claim.Allocation, again.Allocation)
}

func TestMCPOverHTTP(t *testing.T) {
	ts := testserver.New(t, token)
	ctx := context.Background()

	_, err := ts.Board.AddPin(ctx, "guild-1", board.PinRequest{Title: "Rules", URL: "https://example.com/rules"})
	require.NoError(t, err)

	session, err := ts.ConnectMCP(t, token)
	require.NoError(t, err)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 3)

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "list_board",
		Arguments: map[string]any{"guild_id": "guild-1", "section": "pins"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out struct {
		Pins []board.Pin `json:"pins"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Pins, 1)
	require.Equal(t, "Rules", out.Pins[0].Title)

	docs, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "corkboard://docs/commands"})
	require.NoError(t, err)
	require.Contains(t, docs.Contents[0].Text, "`.luckymon`")
}

func TestMCPRejectsBadToken(t *testing.T) {
	ts := testserver.New(t, token)

	_, err := ts.ConnectMCP(t, "wrong")
	require.Error(t, err)
}

func TestNoAuthServer(t *testing.T) {
	ts := testserver.New(t, "")

	resp := ts.Get(t, "/api/v1/inventory/42")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recs []json.RawMessage
	decode(t, resp, &recs)
	require.Empty(t, recs)

	session, err := ts.ConnectMCP(t, "")
	require.NoError(t, err)
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "daily_item",
		Arguments: map[string]any{"user_id": "42", "date": "2024-02-29"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
}
