// Package agentfsm drives one agent's task-lifecycle state machine:
// Idle -> MovingToSource -> Grabbing -> MovingToTarget -> Dropping ->
// Idle, with the pallet mutations Grab/Drop perform.
//
// Interleaves "has the agent arrived" checks with stack top-pop/push
// side effects, expressed as an explicit Go state enum plus a single
// Step function rather than inline dispatch scattered across callers.
package agentfsm

import "github.com/szobov/agent-joggler/internal/core"

// Outcome reports what the tick loop should do after a Step.
type Outcome struct {
	// Replan is true if the agent's destination changed this step and
	// the tick loop must invoke the planner before the next move.
	Replan bool
	// NeedsOrder is true if the agent is Idle with no task and should
	// be handed a new order by the order assignment policy.
	NeedsOrder bool
}

// sourceCell returns the cell an agent must stand adjacent to before
// it can Grab for task (FreeUp and Pickup both grab from FromStack;
// Delivery has no source leg, since the pallet is already carried).
func sourceCell(task core.Task, world *core.World) core.Cell {
	switch task.Kind {
	case core.TaskFreeUp, core.TaskPickup:
		return world.StackCell(task.FromStack)
	default:
		return core.Cell{}
	}
}

func targetCell(task core.Task, world *core.World) core.Cell {
	return task.TargetCell(world.StackCell, world.PickupCell)
}

func arrived(pos, target core.Cell) bool {
	return core.ManhattanDistance(pos, target) <= 1
}

// Step advances agent's state machine by one tick. It must be called
// after the tick loop has moved the agent along its planned path and
// before the next replan, so position-equality checks see this tick's
// true position.
func Step(agent *core.Agent, world *core.World) Outcome {
	switch agent.State {
	case core.StateIdle:
		return stepIdle(agent)
	case core.StateMovingToSource:
		return stepMovingToSource(agent, world)
	case core.StateGrabbing:
		return stepGrabbing(agent, world)
	case core.StateMovingToTarget:
		return stepMovingToTarget(agent, world)
	case core.StateDropping:
		return stepDropping(agent, world)
	default:
		// StateStuck: the tick loop owns recovery; the state machine
		// itself takes no action.
		return Outcome{}
	}
}

func stepIdle(agent *core.Agent) Outcome {
	task, ok := agent.CurrentTask()
	if !ok {
		return Outcome{NeedsOrder: true}
	}
	if task.Kind == core.TaskDelivery || task.Kind == core.TaskIdle {
		// Neither leg has a source to visit: Delivery already carries its
		// pallet, Idle carries nothing at all.
		agent.State = core.StateMovingToTarget
	} else {
		agent.State = core.StateMovingToSource
	}
	return Outcome{Replan: true}
}

func stepMovingToSource(agent *core.Agent, world *core.World) Outcome {
	task, ok := agent.CurrentTask()
	if !ok {
		agent.State = core.StateIdle
		return Outcome{NeedsOrder: true}
	}
	if arrived(agent.Pos, sourceCell(task, world)) {
		agent.State = core.StateGrabbing
	}
	return Outcome{}
}

func stepGrabbing(agent *core.Agent, world *core.World) Outcome {
	task, ok := agent.CurrentTask()
	if !ok {
		agent.State = core.StateIdle
		return Outcome{NeedsOrder: true}
	}

	stack := world.Stacks[task.FromStack]
	top, hasTop := stack.Top()
	if !hasTop || top.ID != task.Pallet {
		// Not yet uncovered (or another agent mutated the stack out from
		// under us); stay put and ask for a fresh plan next tick.
		return Outcome{Replan: true}
	}
	agent.PickUp(stack.RemoveTop().ID)

	if task.Kind == core.TaskPickup {
		// Pickup has no drop leg of its own; the pallet rides along to
		// whatever task follows (always a Delivery, per order shape).
		return advanceTask(agent)
	}
	agent.State = core.StateMovingToTarget
	return Outcome{Replan: true}
}

func stepMovingToTarget(agent *core.Agent, world *core.World) Outcome {
	task, ok := agent.CurrentTask()
	if !ok {
		agent.State = core.StateIdle
		return Outcome{NeedsOrder: true}
	}
	if arrived(agent.Pos, targetCell(task, world)) {
		agent.State = core.StateDropping
	}
	return Outcome{}
}

func stepDropping(agent *core.Agent, world *core.World) Outcome {
	task, ok := agent.CurrentTask()
	if !ok {
		agent.State = core.StateIdle
		return Outcome{NeedsOrder: true}
	}

	pallet := agent.Drop()
	if task.Kind == core.TaskFreeUp {
		world.Stacks[task.ToStack].Push(core.Pallet{ID: pallet})
	}
	// Delivery drops at a pickup zone: the pallet leaves the simulated
	// stack system entirely.

	return advanceTask(agent)
}

// advanceTask pops the completed task and transitions into the next
// one (or Idle, requesting a new order).
func advanceTask(agent *core.Agent) Outcome {
	if !agent.AdvanceTask() {
		agent.ClearOrder()
		agent.State = core.StateIdle
		return Outcome{NeedsOrder: true}
	}
	next, _ := agent.CurrentTask()
	if next.Kind == core.TaskDelivery {
		agent.State = core.StateMovingToTarget
	} else {
		agent.State = core.StateMovingToSource
	}
	return Outcome{Replan: true}
}
