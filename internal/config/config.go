// Package config loads bot configuration from defaults, an optional YAML
// file, a .env file and CORKBOARD_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CORKBOARD"

// Store drivers.
const (
	DriverREST   = "rest"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config defines bot configuration.
type Config struct {
	Discord  DiscordConfig  `yaml:"discord" envconfig:"DISCORD"`
	Store    StoreConfig    `yaml:"store" envconfig:"STORE"`
	Luckymon LuckymonConfig `yaml:"luckymon" envconfig:"LUCKYMON"`
	Sessions SessionsConfig `yaml:"sessions" envconfig:"SESSIONS"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
}

// Leaf fields use split_words so keys read CORKBOARD_<SECTION>_<FIELD>
// without envconfig falling back to unprefixed names like PATH or PORT.

type DiscordConfig struct {
	Token     string `yaml:"token" split_words:"true"`
	Prefix    string `yaml:"prefix" split_words:"true"`
	AdminRole string `yaml:"admin_role" split_words:"true"`
}

type StoreConfig struct {
	Driver  string        `yaml:"driver" split_words:"true"`
	BaseURL string        `yaml:"base_url" split_words:"true"`
	DSN     string        `yaml:"dsn" split_words:"true"`
	Timeout time.Duration `yaml:"timeout" split_words:"true"`
}

type LuckymonConfig struct {
	ItemSpace         int           `yaml:"item_space" split_words:"true"`
	RarityDenominator int           `yaml:"rarity_denominator" split_words:"true"`
	Timezone          string        `yaml:"timezone" split_words:"true"`
	CatalogURL        string        `yaml:"catalog_url" split_words:"true"`
	CatalogTimeout    time.Duration `yaml:"catalog_timeout" split_words:"true"`
}

type SessionsConfig struct {
	PaginationTTL    time.Duration `yaml:"pagination_ttl" split_words:"true"`
	TradeTTL         time.Duration `yaml:"trade_ttl" split_words:"true"`
	LuckydexPageSize int           `yaml:"luckydex_page_size" split_words:"true"`
	BoardPageSize    int           `yaml:"board_page_size" split_words:"true"`
}

type RedisConfig struct {
	Enabled   bool   `yaml:"enabled" split_words:"true"`
	Addr      string `yaml:"addr" split_words:"true"`
	Password  string `yaml:"password" split_words:"true"`
	DB        int    `yaml:"db" split_words:"true"`
	KeyPrefix string `yaml:"key_prefix" split_words:"true"`
}

type ServerConfig struct {
	Enabled        bool     `yaml:"enabled" split_words:"true"`
	Host           string   `yaml:"host" split_words:"true"`
	Port           int      `yaml:"port" split_words:"true"`
	MCPEnabled     bool     `yaml:"mcp_enabled" split_words:"true"`
	APIToken       string   `yaml:"api_token" split_words:"true"`
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
	Path  string `yaml:"path" split_words:"true"`
}

// Address returns the ops server address in host:port format.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Discord: DiscordConfig{
			Prefix:    ".",
			AdminRole: "corkboard",
		},
		Store: StoreConfig{
			Driver:  DriverREST,
			BaseURL: "http://localhost:8000/api/v1",
			DSN:     "corkboard.db",
			Timeout: 10 * time.Second,
		},
		Luckymon: LuckymonConfig{
			ItemSpace:         905,
			RarityDenominator: 128,
			Timezone:          "UTC",
			CatalogURL:        "https://pokeapi.co/api/v2",
			CatalogTimeout:    5 * time.Second,
		},
		Sessions: SessionsConfig{
			PaginationTTL:    2 * time.Minute,
			TradeTTL:         20 * time.Minute,
			LuckydexPageSize: 25,
			BoardPageSize:    10,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "corkboard",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load applies, in order: defaults, the YAML file at path (or
// CORKBOARD_CONFIG_PATH when path is empty), a .env file in the working
// directory, and environment overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.Discord.Token == "" {
		cfg.Discord.Token = os.Getenv("DISCORD_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate reports the first setting the bot cannot start with.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Discord.Token) == "" {
		problems = append(problems, "discord.token is required (or DISCORD_TOKEN)")
	}
	if c.Discord.Prefix == "" || strings.ContainsAny(c.Discord.Prefix, " \t\n") {
		problems = append(problems, "discord.prefix must be non-empty without whitespace")
	}
	switch c.Store.Driver {
	case DriverREST:
		if c.Store.BaseURL == "" {
			problems = append(problems, "store.base_url is required for the rest driver")
		}
	case DriverSQLite, DriverMySQL:
		if c.Store.DSN == "" {
			problems = append(problems, "store.dsn is required for sql drivers")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not one of rest, sqlite, mysql", c.Store.Driver))
	}
	if c.Luckymon.ItemSpace <= 0 {
		problems = append(problems, "luckymon.item_space must be positive")
	}
	if c.Luckymon.RarityDenominator <= 0 {
		problems = append(problems, "luckymon.rarity_denominator must be positive")
	}
	if _, err := time.LoadLocation(c.Luckymon.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("luckymon.timezone: %v", err))
	}
	if c.Sessions.PaginationTTL <= 0 || c.Sessions.TradeTTL <= 0 {
		problems = append(problems, "sessions ttls must be positive")
	}
	if c.Sessions.LuckydexPageSize <= 0 || c.Sessions.BoardPageSize <= 0 {
		problems = append(problems, "sessions page sizes must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the luckymon timezone. Validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Luckymon.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
