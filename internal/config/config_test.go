package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWithLegacyToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "legacy")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "legacy", cfg.Discord.Token)
	require.Equal(t, ".", cfg.Discord.Prefix)
	require.Equal(t, DriverREST, cfg.Store.Driver)
	require.Equal(t, 905, cfg.Luckymon.ItemSpace)
	require.Equal(t, 128, cfg.Luckymon.RarityDenominator)
	require.Equal(t, 2*time.Minute, cfg.Sessions.PaginationTTL)
	require.Equal(t, 20*time.Minute, cfg.Sessions.TradeTTL)
	require.Equal(t, time.UTC, cfg.Location())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "corkboard.yaml", `
discord:
  token: from-file
  prefix: "!"
store:
  driver: sqlite
  dsn: /var/lib/corkboard.db
sessions:
  trade_ttl: 5m
server:
  allowed_origins: [https://a.example]
`)
	t.Setenv("CORKBOARD_DISCORD_TOKEN", "from-env")
	t.Setenv("CORKBOARD_SESSIONS_LUCKYDEX_PAGE_SIZE", "12")
	t.Setenv("CORKBOARD_SERVER_MCP_ENABLED", "true")
	t.Setenv("DISCORD_TOKEN", "legacy")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Discord.Token)
	require.Equal(t, "!", cfg.Discord.Prefix)
	require.Equal(t, DriverSQLite, cfg.Store.Driver)
	require.Equal(t, "/var/lib/corkboard.db", cfg.Store.DSN)
	require.Equal(t, 5*time.Minute, cfg.Sessions.TradeTTL)
	require.Equal(t, 12, cfg.Sessions.LuckydexPageSize)
	require.True(t, cfg.Server.MCPEnabled)
	require.Equal(t, []string{"https://a.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "c.yaml", "discord:\n  token: t\nlog:\n  level: debug\n")
	t.Setenv("CORKBOARD_CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "CORKBOARD_DISCORD_TOKEN=dotenv\nCORKBOARD_LOG_PATH=bot.log\n")
	t.Cleanup(func() {
		os.Unsetenv("CORKBOARD_DISCORD_TOKEN")
		os.Unsetenv("CORKBOARD_LOG_PATH")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dotenv", cfg.Discord.Token)
	require.Equal(t, "bot.log", cfg.Log.Path)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "read config file")

	bad := writeFile(t, dir, "bad.yaml", "discord: [")
	_, err = Load(bad)
	require.ErrorContains(t, err, "parse config file")

	t.Setenv("CORKBOARD_SESSIONS_BOARD_PAGE_SIZE", "ten")
	_, err = Load("")
	require.ErrorContains(t, err, "read environment")
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Discord.Token = "t"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.Discord.Token = "" }, "discord.token"},
		{"prefix with space", func(c *Config) { c.Discord.Prefix = ". " }, "discord.prefix"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, `"postgres"`},
		{"sql without dsn", func(c *Config) { c.Store.Driver = DriverMySQL; c.Store.DSN = "" }, "store.dsn"},
		{"rest without url", func(c *Config) { c.Store.BaseURL = "" }, "store.base_url"},
		{"zero rarity", func(c *Config) { c.Luckymon.RarityDenominator = 0 }, "rarity_denominator"},
		{"zero items", func(c *Config) { c.Luckymon.ItemSpace = 0 }, "item_space"},
		{"bad timezone", func(c *Config) { c.Luckymon.Timezone = "Mars/Olympus" }, "luckymon.timezone"},
		{"zero page size", func(c *Config) { c.Sessions.BoardPageSize = 0 }, "page sizes"},
		{"negative ttl", func(c *Config) { c.Sessions.TradeTTL = -time.Second }, "ttls"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"bad port", func(c *Config) { c.Server.Enabled = true; c.Server.Port = 0 }, "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Luckymon.Timezone = "America/New_York"
	require.Equal(t, "America/New_York", cfg.Location().String())
}

func TestServerAddress(t *testing.T) {
	require.Equal(t, "0.0.0.0:8080", Default().Server.Address())
}
