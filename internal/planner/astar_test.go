package planner

import (
	"testing"

	"github.com/szobov/agent-joggler/internal/core"
	"github.com/szobov/agent-joggler/internal/heuristic"
	"github.com/szobov/agent-joggler/internal/reservation"
)

func TestPlanReachesGoalAndPadsTail(t *testing.T) {
	g := core.NewGrid(8, 8)
	tbl := reservation.New()
	goal := core.Cell{3, 0}
	rra := heuristic.New(g, goal)

	path, err := Plan(g, tbl, rra, 1, core.TimedCell{C: core.Cell{0, 0}, T: 0}, goal, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 11 {
		t.Fatalf("len(path) = %d, want 11 (padded to window)", len(path))
	}
	if path[0] != (core.TimedCell{C: core.Cell{0, 0}, T: 0}) {
		t.Errorf("path[0] = %v, want start", path[0])
	}
	// Goal reached at t=3 (Manhattan distance), then padded with waits.
	for i, step := range path {
		if step.T != i {
			t.Fatalf("path[%d].T = %d, want %d", i, step.T, i)
		}
	}
	if path[3].C != goal {
		t.Errorf("path[3].C = %v, want goal %v reached at t=3", path[3].C, goal)
	}
	for i := 3; i < len(path); i++ {
		if path[i].C != goal {
			t.Errorf("path[%d].C = %v, want goal held for remainder of window", i, path[i].C)
		}
	}
}

func TestPlanWindowExhaustedReturnsBestPartial(t *testing.T) {
	g := core.NewGrid(20, 20)
	tbl := reservation.New()
	goal := core.Cell{19, 19}
	rra := heuristic.New(g, goal)

	path, err := Plan(g, tbl, rra, 1, core.TimedCell{C: core.Cell{0, 0}, T: 0}, goal, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 6 {
		t.Fatalf("len(path) = %d, want 6", len(path))
	}
	last := path[len(path)-1]
	if last.T != 5 {
		t.Fatalf("last.T = %d, want 5", last.T)
	}
	gotH := core.ManhattanDistance(last.C, goal)
	wantH := core.ManhattanDistance(core.Cell{0, 0}, goal) - 5
	if gotH != wantH {
		t.Errorf("partial path ends %d from goal, want %d (full progress toward goal)", gotH, wantH)
	}
}

func TestPlanUnreachableBehindWall(t *testing.T) {
	g := core.NewGrid(5, 5)
	for y := 0; y < 5; y++ {
		g.Set(core.Cell{2, y}, core.CellInfo{Kind: core.Obstacle})
	}
	tbl := reservation.New()
	goal := core.Cell{4, 4}
	rra := heuristic.New(g, goal)

	_, err := Plan(g, tbl, rra, 1, core.TimedCell{C: core.Cell{0, 0}, T: 0}, goal, 20)
	if err == nil {
		t.Fatal("expected Unreachable error")
	}
	if _, ok := err.(*Unreachable); !ok {
		t.Fatalf("got %T, want *Unreachable", err)
	}
}

func TestPlanRoutesAroundReservedCell(t *testing.T) {
	g := core.NewGrid(5, 1)
	tbl := reservation.New()
	// Agent 2 occupies (2,0) at ticks 0 through 10, blocking the
	// straight line from (0,0) to (4,0) on this 1-row grid... but a
	// 1-row grid has no detour, so agent 1 must wait it out instead.
	var blocked core.Path
	for ttick := 0; ttick <= 10; ttick++ {
		blocked = append(blocked, core.TimedCell{C: core.Cell{2, 0}, T: ttick})
	}
	if err := tbl.Reserve(2, blocked); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}

	goal := core.Cell{4, 0}
	rra := heuristic.New(g, goal)
	path, err := Plan(g, tbl, rra, 1, core.TimedCell{C: core.Cell{0, 0}, T: 0}, goal, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, step := range path {
		if step.C == (core.Cell{2, 0}) && step.T <= 10 {
			t.Fatalf("path enters reserved cell at t=%d", step.T)
		}
	}
	last := path[len(path)-1]
	if last.C != goal {
		t.Errorf("final cell = %v, want goal %v", last.C, goal)
	}
}

func TestPlanRejectsEdgeSwap(t *testing.T) {
	g := core.NewGrid(3, 1)
	tbl := reservation.New()
	// Agent 2 moves (2,0)->(1,0) between t=0 and t=1.
	if err := tbl.Reserve(2, reservation.Path{
		{C: core.Cell{2, 0}, T: 0},
		{C: core.Cell{1, 0}, T: 1},
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}

	goal := core.Cell{2, 0}
	rra := heuristic.New(g, goal)
	// Agent 1 wants to move (1,0)->(2,0) at the same tick: a swap.
	path, err := Plan(g, tbl, rra, 1, core.TimedCell{C: core.Cell{1, 0}, T: 0}, goal, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) < 2 || path[1].T != 1 {
		t.Fatalf("malformed path: %v", path)
	}
	if path[1].C == goal {
		t.Error("agent swapped into the reserved edge instead of waiting it out")
	}
}
