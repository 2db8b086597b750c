package orders

import "github.com/szobov/agent-joggler/internal/core"

// AssignNearestOrder picks whichever of the given open orders has the
// Manhattan-nearest first-task start cell to agent's current position,
// ties broken by earlier order CreatedAt. Returns false if orders is
// empty.
func AssignNearestOrder(agent *core.Agent, orders []*core.Order, world *core.World) (*core.Order, bool) {
	if len(orders) == 0 {
		return nil, false
	}

	best := orders[0]
	bestDist := core.ManhattanDistance(agent.Pos, best.StartCell(world.StackCell, world.PickupCell))
	for _, o := range orders[1:] {
		d := core.ManhattanDistance(agent.Pos, o.StartCell(world.StackCell, world.PickupCell))
		if d < bestDist || (d == bestDist && o.CreatedAt < best.CreatedAt) {
			best, bestDist = o, d
		}
	}
	return best, true
}

// AssignOpenOrders binds as many of the given idle agents to open
// orders as possible, one order per agent. For each agent it picks the
// Manhattan-nearest open order (ties broken by order creation time),
// not the oldest order available: distance to the agent is the primary
// key, order age only breaks ties. Orders are consumed from the slice
// in place; the returned slice is the remainder left unassigned.
// Order-to-agent binding is atomic: an order is removed from the pool
// the instant it is handed to an agent.
func AssignOpenOrders(openOrders []*core.Order, idleAgents []*core.Agent, world *core.World) []*core.Order {
	for _, agent := range idleAgents {
		if len(openOrders) == 0 {
			break
		}
		order, ok := AssignNearestOrder(agent, openOrders, world)
		if !ok {
			break
		}
		agent.AssignOrder(order)
		openOrders = removeOrder(openOrders, order)
	}
	return openOrders
}

func removeOrder(orders []*core.Order, target *core.Order) []*core.Order {
	out := make([]*core.Order, 0, len(orders)-1)
	for _, o := range orders {
		if o != target {
			out = append(out, o)
		}
	}
	return out
}
