// Package transport serves the bot's operational HTTP surface: health
// probes, a read-only JSON API and, optionally, the MCP endpoint.
package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/borfus/corkboard-bot/internal/domain/inventory"
	"github.com/borfus/corkboard-bot/internal/domain/luckymon"
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

// Pinger is a readiness dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires the server. Auth, MCP and Checks are optional.
type Config struct {
	Luckymon       DailyPeeker
	Inventory      InventoryLister
	Checks         map[string]Pinger
	Auth           func(http.Handler) http.Handler
	MCP            http.Handler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server holds the handler dependencies.
type Server struct {
	luckymon  DailyPeeker
	inventory InventoryLister
	checks    map[string]Pinger
	logger    *slog.Logger
}

// NewServer creates the HTTP router.
func NewServer(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	srv := &Server{luckymon: cfg.Luckymon, inventory: cfg.Inventory, checks: cfg.Checks, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"},
			ExposedHeaders: []string{"Mcp-Session-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", srv.handleHealth)
	r.Get("/ready", srv.handleReady)

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/daily/{user_id}", srv.handleDaily)
			r.Get("/inventory/{user_id}", srv.handleInventory)
		})
		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
			r.Handle("/mcp/*", cfg.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "check", name, "error", err)
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	writeJSON(w, status, results)
}

type dailyResponse struct {
	UserID   string `json:"user_id"`
	Date     string `json:"date"`
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`
	Rare     bool   `json:"rare"`
	Sprite   string `json:"sprite_url,omitempty"`
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	day := s.luckymon.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(inventory.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	claim, err := s.luckymon.Peek(r.Context(), userID, day)
	if err != nil {
		if errors.Is(err, luckymon.ErrInvalidUser) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("daily lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dailyResponse{
		UserID:   claim.UserID,
		Date:     claim.Day.Format(inventory.DateLayout),
		ItemID:   claim.ItemID,
		ItemName: claim.Item.Name,
		Rare:     claim.Rare,
		Sprite:   claim.Item.Sprite(claim.Rare),
	})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	recs, err := s.inventory.Available(r.Context(), userID)
	if err != nil {
		s.logger.Error("inventory lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusBadGateway, "inventory store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
