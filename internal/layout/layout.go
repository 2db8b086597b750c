// Package layout builds a random warehouse World (grid, stacks,
// pickup zones, obstacles, agent starts) from a Config, deterministic
// given a seed.
//
// Places objects by repeatedly sampling random coordinates and
// rejecting overlaps: a rejection-sampling placement loop over
// single-cell objects on a 2D grid, uniform-random across the grid
// with no clustering (see DESIGN.md).
package layout

import (
	"fmt"
	"math/rand"

	"github.com/szobov/agent-joggler/internal/config"
	"github.com/szobov/agent-joggler/internal/core"
)

const defaultStackTargetDepth = 8

// Build constructs a World and its initial agents from cfg, using rng
// for every random placement and initial stack fill so the whole
// layout is reproducible given the same seed.
func Build(cfg config.Config, rng *rand.Rand) (*core.World, []*core.Agent, error) {
	grid := core.NewGrid(cfg.GridWidth, cfg.GridHeight)
	world := core.NewWorld(grid)

	place := func(label string) (core.Cell, error) {
		const maxAttempts = 4096
		for i := 0; i < maxAttempts; i++ {
			c := core.Cell{X: rng.Intn(cfg.GridWidth), Y: rng.Intn(cfg.GridHeight)}
			if grid.At(c).Kind == core.Free {
				return c, nil
			}
		}
		return core.Cell{}, fmt.Errorf("layout: no free cell left to place %s", label)
	}

	for i := 0; i < cfg.NumObstacles; i++ {
		c, err := place("an obstacle")
		if err != nil {
			return nil, nil, err
		}
		grid.Set(c, core.CellInfo{Kind: core.Obstacle})
	}

	for i := 0; i < cfg.NumStacks; i++ {
		c, err := place("a stack")
		if err != nil {
			return nil, nil, err
		}
		id := core.StackID(i + 1)
		stack := core.NewStack(id, c, defaultStackTargetDepth)
		n := 1 + rng.Intn(defaultStackTargetDepth/2)
		for p := 0; p < n; p++ {
			stack.Push(core.Pallet{ID: core.NewPalletID()})
		}
		world.AddStack(stack)
	}

	for i := 0; i < cfg.NumPickups; i++ {
		c, err := place("a pickup zone")
		if err != nil {
			return nil, nil, err
		}
		world.AddPickup(core.PickupZoneID(i+1), c)
	}

	agents := make([]*core.Agent, 0, cfg.NumAgents)
	for i := 0; i < cfg.NumAgents; i++ {
		c, err := place("an agent")
		if err != nil {
			return nil, nil, err
		}
		// Agent start cells double as maintenance slots: marking them
		// keeps the placement loop from giving the same cell to a later
		// agent, and gives "return to maintenance" a concrete
		// destination.
		grid.Set(c, core.CellInfo{Kind: core.MaintenanceSlot})
		agents = append(agents, core.NewAgent(core.AgentID(i+1), c))
	}

	return world, agents, nil
}
