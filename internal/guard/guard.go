// Package guard holds the Redis-backed coordination shared by bot
// processes: once-per-day claim markers and short-lived record locks.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
	"github.com/borfus/corkboard-bot/internal/domain/trade"
)

const (
	// DefaultKeyPrefix namespaces every key the guard writes.
	DefaultKeyPrefix = "corkboard"
	// claimTTL outlives the day in every time zone.
	claimTTL = 48 * time.Hour
)

// lockAllScript sets every key to ARGV[1] or none of them.
var lockAllScript = redis.NewScript(`
for _, key in ipairs(KEYS) do
	if redis.call("EXISTS", key) == 1 then
		return 0
	end
end
for _, key in ipairs(KEYS) do
	redis.call("SET", key, ARGV[1], "PX", ARGV[2])
end
return 1
`)

// unlockScript deletes only the keys still holding ARGV[1].
var unlockScript = redis.NewScript(`
local released = 0
for _, key in ipairs(KEYS) do
	if redis.call("GET", key) == ARGV[1] then
		redis.call("DEL", key)
		released = released + 1
	end
end
return released
`)

var (
	_ luckymon.ClaimGuard = (*Guard)(nil)
	_ trade.RecordLocker  = (*Guard)(nil)
)

// Config holds the Redis connection settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Guard implements luckymon.ClaimGuard and trade.RecordLocker.
type Guard struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Guard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	g := New(client, cfg.KeyPrefix, logger)
	g.logger.Info("connected to redis", "addr", cfg.Addr, "db", cfg.DB, "prefix", g.prefix)
	return g, nil
}

// New wraps an existing client.
func New(client *redis.Client, keyPrefix string, logger *slog.Logger) *Guard {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{client: client, prefix: keyPrefix, logger: logger}
}

// Close closes the Redis client.
func (g *Guard) Close() error {
	return g.client.Close()
}

// Ping checks the connection.
func (g *Guard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *Guard) claimKey(userID string, day time.Time) string {
	return fmt.Sprintf("%s:claim:%s:%s", g.prefix, userID, day.Format(inventory.DateLayout))
}

func (g *Guard) recordKey(id string) string {
	return fmt.Sprintf("%s:lock:record:%s", g.prefix, id)
}

// AcquireDaily marks userID's claim for day. It reports false when the
// claim was already marked.
func (g *Guard) AcquireDaily(ctx context.Context, userID string, day time.Time) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.claimKey(userID, day), 1, claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("marking daily claim: %w", err)
	}
	return ok, nil
}

// ReleaseDaily clears the claim marker so a failed claim can be retried.
func (g *Guard) ReleaseDaily(ctx context.Context, userID string, day time.Time) error {
	if err := g.client.Del(ctx, g.claimKey(userID, day)).Err(); err != nil {
		return fmt.Errorf("clearing daily claim: %w", err)
	}
	return nil
}

// LockRecords locks every id for ttl, or none of them. acquired is false
// when any id is held by another settlement.
func (g *Guard) LockRecords(ctx context.Context, ids []string, ttl time.Duration) (unlock func(context.Context), acquired bool, err error) {
	if len(ids) == 0 {
		return func(context.Context) {}, true, nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	keys := make([]string, len(sorted))
	for i, id := range sorted {
		keys[i] = g.recordKey(id)
	}
	token := uuid.NewString()

	ok, err := lockAllScript.Run(ctx, g.client, keys, token, ttl.Milliseconds()).Int()
	if err != nil {
		return nil, false, fmt.Errorf("locking records: %w", err)
	}
	if ok != 1 {
		return nil, false, nil
	}

	unlock = func(ctx context.Context) {
		released, err := unlockScript.Run(ctx, g.client, keys, token).Int()
		if err != nil {
			g.logger.Warn("releasing record locks failed", "records", sorted, "error", err)
			return
		}
		if released != len(keys) {
			g.logger.Warn("record locks expired before release", "records", sorted, "released", released)
		}
	}
	return unlock, true, nil
}
