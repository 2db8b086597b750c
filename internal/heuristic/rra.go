// Package heuristic implements the reverse resumable A* (RRA*) true-
// distance heuristic used by the windowed space-time planner.
//
// A backward search rooted at the goal, resumed incrementally per
// query, built on a container/heap-based open set. Go has no generator
// coroutines, so the resumable search is expressed as a struct owning
// its open/closed sets and g-scores across calls, paused between
// Resume calls instead of between yields.
package heuristic

import (
	"container/heap"

	"github.com/szobov/agent-joggler/internal/core"
)

type node struct {
	c     core.Cell
	g     int
	f     int
	index int
}

type openHeap []*node

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x any)         { n := x.(*node); n.index = len(*h); *h = append(*h, n) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// RRA is a backward search rooted at a single goal cell, ignoring time
// and other agents, resumed incrementally as the forward space-time
// search queries new cells. Invalidated (rebuilt) whenever the goal
// changes.
type RRA struct {
	grid *core.Grid
	goal core.Cell

	open   *openHeap
	inOpen map[core.Cell]*node
	closed map[core.Cell]int // cell -> g (true distance to goal)
}

// New creates a fresh RRA* search rooted at goal.
func New(grid *core.Grid, goal core.Cell) *RRA {
	start := &node{c: goal, g: 0, f: 0}
	oh := &openHeap{start}
	heap.Init(oh)
	return &RRA{
		grid:   grid,
		goal:   goal,
		open:   oh,
		inOpen: map[core.Cell]*node{goal: start},
		closed: make(map[core.Cell]int),
	}
}

// Goal returns the cell this search is rooted at.
func (r *RRA) Goal() core.Cell {
	return r.goal
}

// Resume expands the backward search until c is closed (or the open
// set is exhausted), then returns the true shortest-path distance from
// c to the goal, and whether c is reachable from the goal at all.
func (r *RRA) Resume(c core.Cell) (int, bool) {
	if g, ok := r.closed[c]; ok {
		return g, true
	}

	for r.open.Len() > 0 {
		cur := heap.Pop(r.open).(*node)
		delete(r.inOpen, cur.c)
		if _, already := r.closed[cur.c]; already {
			continue
		}
		r.closed[cur.c] = cur.g

		// Backward search walks the same undirected 4-connected grid,
		// so expanding neighbors of cur (ignoring "wait") finds every
		// cell cur is reachable from, which is exactly what we want
		// for a reverse search on a symmetric grid.
		for _, n := range r.grid.Neighbors(cur.c) {
			if n == cur.c {
				continue // skip "wait"
			}
			if _, done := r.closed[n]; done {
				continue
			}
			tentativeG := cur.g + 1
			if existing, ok := r.inOpen[n]; ok {
				if tentativeG < existing.g {
					existing.g = tentativeG
					existing.f = tentativeG
					heap.Fix(r.open, existing.index)
				}
				continue
			}
			nn := &node{c: n, g: tentativeG, f: tentativeG}
			heap.Push(r.open, nn)
			r.inOpen[n] = nn
		}

		// Expand cur before returning so a later Resume continues from
		// the full frontier.
		if cur.c == c {
			return cur.g, true
		}
	}
	return 0, false
}
