// Package sqlstore implements the inventory and board repositories on
// database/sql, for running the bot without the corkboard backend.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DB wraps a database connection and remembers its driver.
type DB struct {
	*sql.DB
	driver string
}

// New opens a SQLite database.
func New(dataSourceName string) (*DB, error) {
	return Open(DriverSQLite, dataSourceName)
}

// Open opens a database with the given driver.
func Open(driver, dataSourceName string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		db, err := sql.Open("sqlite", dataSourceName)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// :memory: databases are per connection.
		if dataSourceName == ":memory:" {
			db.SetMaxOpenConns(1)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
		return &DB{DB: db, driver: driver}, nil
	case DriverMySQL:
		dsn, err := mysqlDSN(dataSourceName)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return &DB{DB: db, driver: driver}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// mysqlDSN normalizes a MySQL DSN for this package's queries.
func mysqlDSN(dataSourceName string) (string, error) {
	cfg, err := mysql.ParseDSN(dataSourceName)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

var lastStamp atomic.Int64

// nextStamp returns a creation stamp that is strictly increasing within
// the process, so rows inserted in one tick keep their order.
func nextStamp() int64 {
	for {
		prev := lastStamp.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if lastStamp.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// Driver returns the driver name the database was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", db.driver, err)
	}
	return nil
}

// RunMigrations creates the schema if it doesn't exist. Statements run one
// at a time since the MySQL driver rejects multi-statement queries.
func (db *DB) RunMigrations(ctx context.Context) error {
	stmts := sqliteSchema
	if db.driver == DriverMySQL {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_records (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    item_id INTEGER NOT NULL,
    item_name TEXT NOT NULL,
    rare INTEGER NOT NULL DEFAULT 0,
    acquired_on TEXT NOT NULL,
    traded INTEGER NOT NULL DEFAULT 0,
    via_trade INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_owner ON inventory_records(owner_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_inventory_daily ON inventory_records(owner_id, acquired_on) WHERE via_trade = 0`,
	`CREATE TABLE IF NOT EXISTS pins (
    id TEXT PRIMARY KEY,
    guild_id TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_pins_guild ON pins(guild_id)`,
	`CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    guild_id TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    description TEXT NOT NULL,
    start_date INTEGER NOT NULL,
    end_date INTEGER NOT NULL,
    last_modified INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_events_guild ON events(guild_id)`,
	`CREATE TABLE IF NOT EXISTS faqs (
    id TEXT PRIMARY KEY,
    guild_id TEXT NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    last_modified INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_faqs_guild ON faqs(guild_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS inventory_records (
    id VARCHAR(36) PRIMARY KEY,
    owner_id VARCHAR(32) NOT NULL,
    item_id INT NOT NULL,
    item_name VARCHAR(128) NOT NULL,
    rare BOOLEAN NOT NULL DEFAULT FALSE,
    acquired_on CHAR(10) NOT NULL,
    traded BOOLEAN NOT NULL DEFAULT FALSE,
    via_trade BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    daily_key VARCHAR(43) AS (IF(via_trade, NULL, CONCAT(owner_id, ':', acquired_on))) STORED,
    INDEX idx_inventory_owner (owner_id),
    UNIQUE KEY uq_inventory_daily (daily_key)
)`,
	`CREATE TABLE IF NOT EXISTS pins (
    id VARCHAR(36) PRIMARY KEY,
    guild_id VARCHAR(32) NOT NULL,
    title VARCHAR(256) NOT NULL,
    url TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    INDEX idx_pins_guild (guild_id)
)`,
	`CREATE TABLE IF NOT EXISTS events (
    id VARCHAR(36) PRIMARY KEY,
    guild_id VARCHAR(32) NOT NULL,
    title VARCHAR(256) NOT NULL,
    url TEXT NOT NULL,
    description TEXT NOT NULL,
    start_date BIGINT NOT NULL,
    end_date BIGINT NOT NULL,
    last_modified BIGINT NOT NULL,
    INDEX idx_events_guild (guild_id)
)`,
	`CREATE TABLE IF NOT EXISTS faqs (
    id VARCHAR(36) PRIMARY KEY,
    guild_id VARCHAR(32) NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    last_modified BIGINT NOT NULL,
    INDEX idx_faqs_guild (guild_id)
)`,
}
