// Package orders implements order generation, task assignment, and
// stack refill.
//
// GenerateOrder picks a random pallet, uncovers it with FreeUp tasks,
// then issues Pickup and Delivery, all bound to one agent as a single
// Task queue built up front rather than handed out incrementally.
package orders

import (
	"math/rand"

	"github.com/szobov/agent-joggler/internal/core"
)

// Config bounds the order generator's behavior.
type Config struct {
	// PPick is the probability a delivery's destination is a pickup
	// zone rather than another stack.
	PPick float64
	// OMax caps the number of open (unassigned or in-flight) orders;
	// generation pauses once this many are outstanding.
	OMax int
}

// Generator produces orders against a World's current stack contents.
type Generator struct {
	world *core.World
	cfg   Config
	rng   *rand.Rand
}

// New creates an order generator over world, seeded by rng.
func New(world *core.World, cfg Config, rng *rand.Rand) *Generator {
	return &Generator{world: world, cfg: cfg, rng: rng}
}

// GenerateOrder produces one new order, or (nil, false) if backpressure
// (open >= OMax) applies or there is no non-empty stack to draw from.
func (g *Generator) GenerateOrder(open int, createdAt int) (*core.Order, bool) {
	if open >= g.cfg.OMax {
		return nil, false
	}

	candidates := g.world.NonEmptyStacks()
	if len(candidates) == 0 {
		return nil, false
	}
	fromID := candidates[g.rng.Intn(len(candidates))]
	from := g.world.Stacks[fromID]

	depth := g.rng.Intn(from.Len())
	pallet, ok := from.At(depth)
	if !ok {
		return nil, false
	}

	blocking := from.Blocking(depth) // top-first
	tasks := make([]core.Task, 0, len(blocking)+2)
	for _, blockerID := range blocking {
		destID, ok := g.world.LeastLoadedStack(fromID)
		if !ok {
			destID = fromID
		}
		tasks = append(tasks, core.Task{
			Kind:      core.TaskFreeUp,
			Pallet:    blockerID,
			FromStack: fromID,
			ToStack:   destID,
		})
	}

	tasks = append(tasks, core.Task{
		Kind:      core.TaskPickup,
		Pallet:    pallet.ID,
		FromStack: fromID,
	})

	tasks = append(tasks, g.deliveryTask(pallet.ID, fromID))

	return &core.Order{
		ID:        core.NewOrderID(),
		Tasks:     tasks,
		CreatedAt: createdAt,
	}, true
}

// deliveryTask picks the delivery destination: a pickup zone with
// probability PPick, otherwise a different stack than source.
func (g *Generator) deliveryTask(pallet core.PalletID, sourceStack core.StackID) core.Task {
	if len(g.world.Pickups) > 0 && g.rng.Float64() < g.cfg.PPick {
		ids := make([]core.PickupZoneID, 0, len(g.world.Pickups))
		for id := range g.world.Pickups {
			ids = append(ids, id)
		}
		sortPickupIDs(ids)
		return core.Task{Kind: core.TaskDelivery, Pallet: pallet, ToPickup: ids[g.rng.Intn(len(ids))]}
	}

	destID, ok := g.world.LeastLoadedStack(sourceStack)
	if !ok {
		destID = sourceStack
	}
	return core.Task{Kind: core.TaskDelivery, Pallet: pallet, ToStack: destID}
}

func sortPickupIDs(ids []core.PickupZoneID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// RefillStacks tops up any stack that has dropped below half its
// target depth, drawing 1-2 fresh pallets at a time.
func (g *Generator) RefillStacks() {
	for _, id := range g.world.AllStackIDs() {
		s := g.world.Stacks[id]
		if s.Len() >= s.TargetDepth/2 {
			continue
		}
		n := 1 + g.rng.Intn(2)
		for i := 0; i < n; i++ {
			s.Push(core.Pallet{ID: core.NewPalletID()})
		}
	}
}
