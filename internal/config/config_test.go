package config

import (
	"errors"
	"testing"
	"time"

	"github.com/szobov/agent-joggler/internal/apperrors"
)

func mapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestFromEnvLoadsRequiredAndDefaults(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":  "20",
		"GRID_HEIGHT": "20",
		"NUM_AGENTS":  "4",
		"NUM_STACKS":  "6",
		"NUM_PICKUPS": "2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GridWidth != 20 || cfg.GridHeight != 20 {
		t.Errorf("grid = %dx%d", cfg.GridWidth, cfg.GridHeight)
	}
	if cfg.PlanningWindow != 16 {
		t.Errorf("PlanningWindow = %d, want default 16", cfg.PlanningWindow)
	}
	if cfg.ReservationHorizon != 32 {
		t.Errorf("ReservationHorizon = %d, want default 32", cfg.ReservationHorizon)
	}
	if cfg.TickPeriod != time.Second {
		t.Errorf("TickPeriod = %v, want 1s default", cfg.TickPeriod)
	}
	if cfg.PlanAnchorK != 1 {
		t.Errorf("PlanAnchorK = %d, want default 1", cfg.PlanAnchorK)
	}
}

func TestFromEnvPlanAnchorKIsConfigurable(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":    "20",
		"GRID_HEIGHT":   "20",
		"NUM_AGENTS":    "4",
		"NUM_STACKS":    "6",
		"NUM_PICKUPS":   "2",
		"PLAN_ANCHOR_K": "3",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PlanAnchorK != 3 {
		t.Errorf("PlanAnchorK = %d, want 3", cfg.PlanAnchorK)
	}
}

func TestFromEnvRejectsNegativePlanAnchorK(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":    "20",
		"GRID_HEIGHT":   "20",
		"NUM_AGENTS":    "4",
		"NUM_STACKS":    "6",
		"NUM_PICKUPS":   "2",
		"PLAN_ANCHOR_K": "-1",
	}))
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestFromEnvMissingRequiredKeyIsConfigError(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH": "20",
	}))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Errorf("err = %v, want wrapped ErrConfig", err)
	}
}

func TestFromEnvRejectsNonPositiveGrid(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":  "0",
		"GRID_HEIGHT": "10",
		"NUM_AGENTS":  "1",
		"NUM_STACKS":  "1",
		"NUM_PICKUPS": "1",
	}))
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Fatalf("err = %v, want wrapped ErrConfig", err)
	}
}

func TestFromEnvRejectsReservationHorizonBelowPlanningWindow(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":          "20",
		"GRID_HEIGHT":         "20",
		"NUM_AGENTS":          "1",
		"NUM_STACKS":          "1",
		"NUM_PICKUPS":         "1",
		"PLANNING_WINDOW":     "16",
		"RESERVATION_HORIZON": "8",
	}))
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Fatalf("err = %v, want wrapped ErrConfig", err)
	}
}

func TestFromEnvRejectsTooManyAgentsForGrid(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":  "2",
		"GRID_HEIGHT": "2",
		"NUM_AGENTS":  "5",
		"NUM_STACKS":  "1",
		"NUM_PICKUPS": "1",
	}))
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Fatalf("err = %v, want wrapped ErrConfig", err)
	}
}

func TestFromEnvMalformedIntegerIsConfigError(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"GRID_WIDTH":  "not-a-number",
		"GRID_HEIGHT": "20",
		"NUM_AGENTS":  "1",
		"NUM_STACKS":  "1",
		"NUM_PICKUPS": "1",
	}))
	if !errors.Is(err, apperrors.ErrConfig) {
		t.Fatalf("err = %v, want wrapped ErrConfig", err)
	}
}
