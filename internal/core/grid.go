// Package core defines the domain model for the warehouse grid
// simulation: cells, stacks, pallets, agents and tasks.
package core

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// CellKind classifies a grid cell.
type CellKind int

const (
	Free CellKind = iota
	Obstacle
	MaintenanceSlot
	StackCell
	PickupZone
)

func (k CellKind) String() string {
	switch k {
	case Free:
		return "Free"
	case Obstacle:
		return "Obstacle"
	case MaintenanceSlot:
		return "MaintenanceSlot"
	case StackCell:
		return "Stack"
	case PickupZone:
		return "PickupZone"
	default:
		return "Unknown"
	}
}

// CellInfo is the static content of a grid cell: its kind plus, for
// Stack and PickupZone cells, the id of the stack/pickup zone they host.
type CellInfo struct {
	Kind CellKind
	ID   int // StackID or PickupZoneID; unused for Free/Obstacle/MaintenanceSlot
}

// Grid is the static map. It never changes after construction; agents
// and reservations live outside of it.
type Grid struct {
	Width, Height int
	cells         []CellInfo
}

// NewGrid creates a Width x Height grid, all cells Free.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]CellInfo, width*height),
	}
}

func (g *Grid) inBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.Width + c.X
}

// At returns the static content of a cell. Cells outside the grid
// report Obstacle.
func (g *Grid) At(c Cell) CellInfo {
	if !g.inBounds(c) {
		return CellInfo{Kind: Obstacle}
	}
	return g.cells[g.index(c)]
}

// Set assigns the static content of a cell. Used only at init time by
// the layout builder.
func (g *Grid) Set(c Cell, info CellInfo) {
	if !g.inBounds(c) {
		return
	}
	g.cells[g.index(c)] = info
}

// Passable reports whether an agent's body can ever occupy this cell.
// Obstacle cells are permanently impassable. Stack and PickupZone
// cells are impassable to agents too: both are point-objects worked
// from an adjacent cell, not cells an agent's body ever stands on.
func (g *Grid) Passable(c Cell) bool {
	if !g.inBounds(c) {
		return false
	}
	switch g.cells[g.index(c)].Kind {
	case Obstacle, StackCell, PickupZone:
		return false
	default:
		return true
	}
}

// neighborDeltas is ordered N, E, S, W, Wait so ties in search break
// reproducibly.
var neighborDeltas = [5]Cell{
	{X: 0, Y: -1}, // N
	{X: 1, Y: 0},  // E
	{X: 0, Y: 1},  // S
	{X: -1, Y: 0}, // W
	{X: 0, Y: 0},  // Wait
}

// Neighbors returns up to 5 candidate cells reachable from c in one
// tick: the 4-connected neighbors in N,E,S,W order followed by "wait
// in place". Only passable cells are returned.
func (g *Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 5)
	for _, d := range neighborDeltas {
		n := Cell{X: c.X + d.X, Y: c.Y + d.Y}
		if g.Passable(n) {
			out = append(out, n)
		}
	}
	return out
}

// AdjacentFree returns the passable cells 4-connected to c (excluding
// wait), in N,E,S,W order. Used to find the cell an agent should stand
// on to interact with a Stack/PickupZone cell it cannot enter.
func (g *Grid) AdjacentFree(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range neighborDeltas[:4] {
		n := Cell{X: c.X + d.X, Y: c.Y + d.Y}
		if g.Passable(n) {
			out = append(out, n)
		}
	}
	return out
}

// ManhattanDistance is the admissible, consistent distance estimate
// used outside of the true-distance heuristic (e.g. for order/agent
// matching, where a grid-shortest-path computation for every candidate
// pair would be wasteful).
func ManhattanDistance(a, b Cell) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
