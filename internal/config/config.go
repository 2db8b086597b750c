// Package config defines the simulation's configuration shape and loads
// it from an injected key/value lookup function — deliberately decoupled
// from os.Getenv, since the actual configuration mechanism (env files,
// flags, secrets managers) is an external collaborator this module
// doesn't need to own. Error wrapping follows the fmt.Errorf("...: %w")
// convention used throughout this codebase.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/szobov/agent-joggler/internal/apperrors"
)

// Config holds every tunable the simulation reads at startup.
type Config struct {
	GridWidth, GridHeight int

	NumAgents, NumStacks, NumPickups, NumObstacles int

	PlanningWindow     int // W_plan, ticks
	ReservationHorizon int // W_res, ticks; must be >= PlanningWindow
	PlanAnchorK        int // k, "plan in the past" anchor offset, ticks

	TickPeriod time.Duration

	RandomSeed int64

	RenderTransportURL string
}

// Lookup resolves a configuration key to a string value, reporting
// whether it was set. os.LookupEnv plugs in directly at the
// process boundary; tests use a plain map.
type Lookup func(key string) (string, bool)

// defaults holds the fallback values for optional keys.
var defaults = map[string]string{
	"NUM_OBSTACLES":       "0",
	"PLANNING_WINDOW":     "16",
	"RESERVATION_HORIZON": "32",
	"PLAN_ANCHOR_K":       "1",
	"TICK_PERIOD_MS":      "1000",
	"RANDOM_SEED":         "1",
	"RENDER_TRANSPORT_URL": "",
}

// FromEnv loads and validates a Config via lookup, returning an error
// wrapping apperrors.ErrConfig on any missing required key, malformed
// value, or invariant violation.
func FromEnv(lookup Lookup) (Config, error) {
	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return defaults[key]
	}

	requiredInt := func(key string) (int, error) {
		raw, ok := lookup(key)
		if !ok {
			return 0, fmt.Errorf("%s: missing: %w", key, apperrors.ErrConfig)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: not an integer (%q): %w", key, raw, apperrors.ErrConfig)
		}
		return n, nil
	}

	positiveInt := func(key string) (int, error) {
		n, err := requiredInt(key)
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			return 0, fmt.Errorf("%s: must be positive, got %d: %w", key, n, apperrors.ErrConfig)
		}
		return n, nil
	}

	optionalInt := func(key string) (int, error) {
		raw := get(key)
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: not an integer (%q): %w", key, raw, apperrors.ErrConfig)
		}
		return n, nil
	}

	var cfg Config
	var err error

	if cfg.GridWidth, err = positiveInt("GRID_WIDTH"); err != nil {
		return Config{}, err
	}
	if cfg.GridHeight, err = positiveInt("GRID_HEIGHT"); err != nil {
		return Config{}, err
	}
	if cfg.NumAgents, err = positiveInt("NUM_AGENTS"); err != nil {
		return Config{}, err
	}
	if cfg.NumStacks, err = positiveInt("NUM_STACKS"); err != nil {
		return Config{}, err
	}
	if cfg.NumPickups, err = positiveInt("NUM_PICKUPS"); err != nil {
		return Config{}, err
	}
	if cfg.NumObstacles, err = optionalInt("NUM_OBSTACLES"); err != nil {
		return Config{}, err
	}
	if cfg.PlanningWindow, err = optionalInt("PLANNING_WINDOW"); err != nil {
		return Config{}, err
	}
	if cfg.ReservationHorizon, err = optionalInt("RESERVATION_HORIZON"); err != nil {
		return Config{}, err
	}
	if cfg.ReservationHorizon < cfg.PlanningWindow {
		return Config{}, fmt.Errorf(
			"RESERVATION_HORIZON (%d) must be >= PLANNING_WINDOW (%d): %w",
			cfg.ReservationHorizon, cfg.PlanningWindow, apperrors.ErrConfig)
	}
	if cfg.PlanAnchorK, err = optionalInt("PLAN_ANCHOR_K"); err != nil {
		return Config{}, err
	}
	if cfg.PlanAnchorK < 0 {
		return Config{}, fmt.Errorf("PLAN_ANCHOR_K: must be non-negative, got %d: %w", cfg.PlanAnchorK, apperrors.ErrConfig)
	}

	tickMs, err := optionalInt("TICK_PERIOD_MS")
	if err != nil {
		return Config{}, err
	}
	if tickMs <= 0 {
		return Config{}, fmt.Errorf("TICK_PERIOD_MS: must be positive, got %d: %w", tickMs, apperrors.ErrConfig)
	}
	cfg.TickPeriod = time.Duration(tickMs) * time.Millisecond

	seed, err := optionalInt("RANDOM_SEED")
	if err != nil {
		return Config{}, err
	}
	cfg.RandomSeed = int64(seed)

	cfg.RenderTransportURL = get("RENDER_TRANSPORT_URL")

	if cfg.NumAgents > cfg.GridWidth*cfg.GridHeight {
		return Config{}, fmt.Errorf(
			"NUM_AGENTS (%d) exceeds grid capacity %dx%d: %w",
			cfg.NumAgents, cfg.GridWidth, cfg.GridHeight, apperrors.ErrConfig)
	}

	return cfg, nil
}
