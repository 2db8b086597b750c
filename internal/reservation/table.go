// Package reservation implements the space-time occupancy index that
// coordinates agents' planned paths: entries are owned by exactly one
// agent, conflicting reserves fail atomically, and explicit edge
// reservations catch head-on swaps that a vertex-only table would
// miss.
package reservation

import (
	"fmt"

	"github.com/szobov/agent-joggler/internal/core"
)

// AgentID is re-exported here only to keep this package's public API
// self-describing; it is core.AgentID underneath.
type AgentID = core.AgentID

type vertexKey struct {
	c core.Cell
	t int
}

type edgeKey struct {
	from, to core.Cell
	t        int // the tick at which the move from->to completes (t-1 -> t)
}

// Conflict reports that a reservation attempt collided with an
// existing entry owned by a different agent.
type Conflict struct {
	Owner AgentID
	Cell  core.Cell
	T     int
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("reservation conflict: cell %v at t=%d already owned by agent %d", c.Cell, c.T, c.Owner)
}

// Table is the reservation table. It is not safe for concurrent use;
// the tick loop is its sole mutator.
type Table struct {
	vertices map[vertexKey]AgentID
	edges    map[edgeKey]AgentID
	// ownedBy and edgesBy index every (cell,t) and (edge,t) entry an
	// agent holds, so Release(agent) doesn't need a full table scan.
	// Advance scans the whole table and keeps these indexes in step.
	ownedBy map[AgentID]map[vertexKey]struct{}
	edgesBy map[AgentID]map[edgeKey]struct{}
}

// New creates an empty reservation table.
func New() *Table {
	return &Table{
		vertices: make(map[vertexKey]AgentID),
		edges:    make(map[edgeKey]AgentID),
		ownedBy:  make(map[AgentID]map[vertexKey]struct{}),
		edgesBy:  make(map[AgentID]map[edgeKey]struct{}),
	}
}

// IsFree reports whether (cell,t) is unowned or owned by agent.
func (tbl *Table) IsFree(agent AgentID, cell core.Cell, t int) bool {
	owner, ok := tbl.vertices[vertexKey{cell, t}]
	return !ok || owner == agent
}

// EdgeFree reports whether the directed move from->to at tick t (i.e.
// occupying "to" at t, having left "from" at t-1) is free of both a
// forward-edge conflict and a reciprocal swap conflict.
func (tbl *Table) EdgeFree(agent AgentID, from, to core.Cell, t int) bool {
	if owner, ok := tbl.edges[edgeKey{from, to, t}]; ok && owner != agent {
		return false
	}
	// Reciprocal: somebody moving to->from at the same tick would swap
	// positions with us mid-step.
	if owner, ok := tbl.edges[edgeKey{to, from, t}]; ok && owner != agent {
		return false
	}
	return true
}

// Path is the ordered list of space-time steps a Reserve call installs.
type Path = []core.TimedCell

// Reserve atomically installs every (cell,t) and, between consecutive
// non-wait steps, (edge,t) entry for path under agent. On conflict, no
// partial state is written and a *Conflict is returned.
func (tbl *Table) Reserve(agent AgentID, path Path) error {
	if len(path) == 0 {
		return nil
	}

	// Validate first (no writes) so a failed reserve never leaves
	// partial state.
	for _, step := range path {
		if owner, ok := tbl.vertices[vertexKey{step.C, step.T}]; ok && owner != agent {
			return &Conflict{Owner: owner, Cell: step.C, T: step.T}
		}
	}
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		if prev.C == cur.C {
			continue // wait, no edge reservation needed
		}
		if owner, ok := tbl.edges[edgeKey{prev.C, cur.C, cur.T}]; ok && owner != agent {
			return &Conflict{Owner: owner, Cell: cur.C, T: cur.T}
		}
		if owner, ok := tbl.edges[edgeKey{cur.C, prev.C, cur.T}]; ok && owner != agent {
			return &Conflict{Owner: owner, Cell: prev.C, T: cur.T}
		}
	}

	if tbl.ownedBy[agent] == nil {
		tbl.ownedBy[agent] = make(map[vertexKey]struct{})
	}
	if tbl.edgesBy[agent] == nil {
		tbl.edgesBy[agent] = make(map[edgeKey]struct{})
	}

	for _, step := range path {
		vk := vertexKey{step.C, step.T}
		tbl.vertices[vk] = agent
		tbl.ownedBy[agent][vk] = struct{}{}
	}
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		if prev.C == cur.C {
			continue
		}
		ek := edgeKey{prev.C, cur.C, cur.T}
		tbl.edges[ek] = agent
		tbl.edgesBy[agent][ek] = struct{}{}
	}
	return nil
}

// Release removes every entry owned by agent.
func (tbl *Table) Release(agent AgentID) {
	for vk := range tbl.ownedBy[agent] {
		delete(tbl.vertices, vk)
	}
	for ek := range tbl.edgesBy[agent] {
		delete(tbl.edges, ek)
	}
	delete(tbl.ownedBy, agent)
	delete(tbl.edgesBy, agent)
}

// Advance drops every entry with t < now, bounding the table's size to
// O(agents * reservation horizon) regardless of how long the
// simulation has run.
func (tbl *Table) Advance(now int) {
	for vk, owner := range tbl.vertices {
		if vk.t < now {
			delete(tbl.vertices, vk)
			delete(tbl.ownedBy[owner], vk)
		}
	}
	for ek, owner := range tbl.edges {
		if ek.t < now {
			delete(tbl.edges, ek)
			delete(tbl.edgesBy[owner], ek)
		}
	}
}

// OwnerAt returns the agent owning (cell,t), if any — used by property
// tests to verify reservation soundness.
func (tbl *Table) OwnerAt(cell core.Cell, t int) (AgentID, bool) {
	owner, ok := tbl.vertices[vertexKey{cell, t}]
	return owner, ok
}

// Size returns the total number of live vertex+edge entries, used by
// the reservation-GC bound test.
func (tbl *Table) Size() int {
	return len(tbl.vertices) + len(tbl.edges)
}

// LastReservedTick returns the latest t for which agent holds a vertex
// reservation, and whether it holds any.
func (tbl *Table) LastReservedTick(agent AgentID) (int, bool) {
	last := 0
	found := false
	for vk := range tbl.ownedBy[agent] {
		if !found || vk.t > last {
			last, found = vk.t, true
		}
	}
	return last, found
}
