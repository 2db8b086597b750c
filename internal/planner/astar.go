// Package planner implements the windowed, reservation-aware
// space-time A* search that produces each agent's per-replan path.
//
// A container/heap priority queue over (cell,time) states, generalized
// to a discrete-tick, reservation-table-backed search with three
// termination modes, a wait action, and tail-padding on top of plain
// space-time A*.
package planner

import (
	"container/heap"
	"fmt"

	"github.com/szobov/agent-joggler/internal/core"
	"github.com/szobov/agent-joggler/internal/heuristic"
	"github.com/szobov/agent-joggler/internal/reservation"
)

// Unreachable is returned when the open set is exhausted before the
// goal or the window horizon is reached.
type Unreachable struct {
	Agent reservation.AgentID
	Start core.Cell
	Goal  core.Cell
}

func (u *Unreachable) Error() string {
	return fmt.Sprintf("agent %d: no path from %v to %v", u.Agent, u.Start, u.Goal)
}

type stateNode struct {
	c      core.Cell
	t      int
	g      int
	f      int
	parent *stateNode
	index  int
}

type openHeap []*stateNode

func (h openHeap) Len() int  { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Deterministic tie-break: prefer more progress, then lower cell id.
	if h[i].g != h[j].g {
		return h[i].g > h[j].g
	}
	return cellLess(h[i].c, h[j].c)
}
func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x any)   { n := x.(*stateNode); n.index = len(*h); *h = append(*h, n) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

func cellLess(a, b core.Cell) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// Plan runs the windowed space-time A* search for one agent.
//
// start is the (cell,tick) to search from; goal is the cell to reach;
// window bounds the search to ticks [start.T, start.T+window]. The
// reservation table must reflect every higher-priority agent's current
// reservations; this agent's own entries (if any) should already be
// released by the caller before calling Plan.
//
// On success the returned path starts at `start` and is padded with
// wait steps at its final cell up to start.T+window, so the caller's
// new reservations cover the full window.
func Plan(grid *core.Grid, tbl *reservation.Table, rra *heuristic.RRA, agent reservation.AgentID, start core.TimedCell, goal core.Cell, window int) ([]core.TimedCell, error) {
	horizon := start.T + window

	open := &openHeap{}
	heap.Init(open)

	h0, _ := rra.Resume(start.C)
	startNode := &stateNode{c: start.C, t: start.T, g: 0, f: h0}
	heap.Push(open, startNode)

	visited := make(map[core.TimedCell]bool)

	var bestHorizon *stateNode

	considerHorizon := func(n *stateNode) {
		if n.t != horizon {
			return
		}
		if bestHorizon == nil {
			bestHorizon = n
			return
		}
		hBest, _ := rra.Resume(bestHorizon.c)
		hCur, _ := rra.Resume(n.c)
		switch {
		case hCur < hBest:
			bestHorizon = n
		case hCur == hBest && n.g > bestHorizon.g:
			bestHorizon = n
		case hCur == hBest && n.g == bestHorizon.g && cellLess(n.c, bestHorizon.c):
			bestHorizon = n
		}
	}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*stateNode)
		key := core.TimedCell{C: cur.c, T: cur.t}
		if visited[key] {
			continue
		}
		visited[key] = true

		if cur.c == goal {
			return padTail(reconstruct(cur), horizon), nil
		}

		considerHorizon(cur)
		if cur.t >= horizon {
			continue
		}

		for _, n := range grid.Neighbors(cur.c) {
			nt := cur.t + 1
			if n == cur.c {
				if !tbl.IsFree(agent, n, nt) {
					continue
				}
			} else {
				if !tbl.IsFree(agent, n, nt) || !tbl.EdgeFree(agent, cur.c, n, nt) {
					continue
				}
			}
			nk := core.TimedCell{C: n, T: nt}
			if visited[nk] {
				continue
			}
			hN, reachable := rra.Resume(n)
			if !reachable {
				continue
			}
			node := &stateNode{c: n, t: nt, g: cur.g + 1, f: cur.g + 1 + hN, parent: cur}
			heap.Push(open, node)
		}
	}

	if bestHorizon != nil {
		return padTail(reconstruct(bestHorizon), horizon), nil
	}
	return nil, &Unreachable{Agent: agent, Start: start.C, Goal: goal}
}

func reconstruct(n *stateNode) []core.TimedCell {
	var path []core.TimedCell
	for cur := n; cur != nil; cur = cur.parent {
		path = append([]core.TimedCell{{C: cur.c, T: cur.t}}, path...)
	}
	return path
}

// padTail extends path with wait steps at its final cell up to and
// including horizon, so every agent owns reservations covering the
// full planning window.
func padTail(path []core.TimedCell, horizon int) []core.TimedCell {
	if len(path) == 0 {
		return path
	}
	last := path[len(path)-1]
	for t := last.T + 1; t <= horizon; t++ {
		path = append(path, core.TimedCell{C: last.C, T: t})
	}
	return path
}
