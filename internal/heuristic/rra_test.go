package heuristic

import (
	"testing"

	"github.com/szobov/agent-joggler/internal/core"
)

func TestRRAMatchesManhattanOnOpenGrid(t *testing.T) {
	g := core.NewGrid(10, 10)
	goal := core.Cell{5, 5}
	r := New(g, goal)

	for _, c := range []core.Cell{{0, 0}, {9, 9}, {5, 5}, {5, 0}, {0, 5}} {
		got, ok := r.Resume(c)
		if !ok {
			t.Fatalf("Resume(%v) unreachable on open grid", c)
		}
		want := core.ManhattanDistance(c, goal)
		if got != want {
			t.Errorf("Resume(%v) = %d, want %d", c, got, want)
		}
	}
}

func TestRRAResumeIsIncremental(t *testing.T) {
	g := core.NewGrid(5, 5)
	r := New(g, core.Cell{0, 0})

	first, ok := r.Resume(core.Cell{4, 4})
	if !ok || first != 8 {
		t.Fatalf("Resume(4,4) = %d,%v want 8,true", first, ok)
	}
	// Querying an already-closed cell should return the cached value
	// without expanding further.
	second, ok := r.Resume(core.Cell{2, 2})
	if !ok || second != 4 {
		t.Fatalf("Resume(2,2) = %d,%v want 4,true", second, ok)
	}
}

func TestRRAUnreachableBehindWalls(t *testing.T) {
	g := core.NewGrid(3, 3)
	// Wall off column x=1 entirely, splitting the grid in two.
	for y := 0; y < 3; y++ {
		g.Set(core.Cell{1, y}, core.CellInfo{Kind: core.Obstacle})
	}
	r := New(g, core.Cell{0, 0})
	if _, ok := r.Resume(core.Cell{2, 2}); ok {
		t.Error("cell behind a wall should be unreachable")
	}
}

func TestRRAAdmissibleAgainstBFS(t *testing.T) {
	g := core.NewGrid(8, 8)
	g.Set(core.Cell{3, 0}, core.CellInfo{Kind: core.Obstacle})
	g.Set(core.Cell{3, 1}, core.CellInfo{Kind: core.Obstacle})
	g.Set(core.Cell{3, 2}, core.CellInfo{Kind: core.Obstacle})
	g.Set(core.Cell{3, 3}, core.CellInfo{Kind: core.Obstacle})
	g.Set(core.Cell{3, 4}, core.CellInfo{Kind: core.Obstacle})
	g.Set(core.Cell{3, 5}, core.CellInfo{Kind: core.Obstacle})
	g.Set(core.Cell{3, 6}, core.CellInfo{Kind: core.Obstacle})
	// leave (3,7) open as the only passage

	goal := core.Cell{7, 7}
	r := New(g, goal)
	got, ok := r.Resume(core.Cell{0, 0})
	if !ok {
		t.Fatal("should be reachable through the single passage")
	}
	bfsDist := bfs(g, core.Cell{0, 0}, goal)
	if got != bfsDist {
		t.Errorf("RRA distance = %d, BFS distance = %d", got, bfsDist)
	}
}

// bfs computes the true shortest-path distance via breadth-first
// search, used as an independent oracle for the admissibility test.
func bfs(g *core.Grid, start, goal core.Cell) int {
	type item struct {
		c core.Cell
		d int
	}
	visited := map[core.Cell]bool{start: true}
	queue := []item{{start, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.c == goal {
			return cur.d
		}
		for _, n := range g.Neighbors(cur.c) {
			if n == cur.c || visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, item{n, cur.d + 1})
		}
	}
	return -1
}
