package agentfsm

import (
	"testing"

	"github.com/szobov/agent-joggler/internal/core"
)

func buildWorld() (*core.World, core.StackID, core.StackID, core.PickupZoneID) {
	g := core.NewGrid(10, 10)
	w := core.NewWorld(g)
	from := core.NewStack(1, core.Cell{3, 3}, 8)
	from.Push(core.Pallet{ID: "p0"})
	from.Push(core.Pallet{ID: "p1"}) // blocks p0
	w.AddStack(from)
	w.AddStack(core.NewStack(2, core.Cell{5, 3}, 8))
	w.AddPickup(1, core.Cell{0, 0})
	return w, 1, 2, 1
}

func TestFullDeliveryLifecycleWithFreeUp(t *testing.T) {
	w, fromID, toID, pickupID := buildWorld()
	agent := core.NewAgent(1, core.Cell{3, 2}) // adjacent to stack 1
	order := &core.Order{
		ID: "o1",
		Tasks: []core.Task{
			{Kind: core.TaskFreeUp, Pallet: "p1", FromStack: fromID, ToStack: toID},
			{Kind: core.TaskPickup, Pallet: "p0", FromStack: fromID},
			{Kind: core.TaskDelivery, Pallet: "p0", ToPickup: pickupID},
		},
	}
	agent.AssignOrder(order)

	out := Step(agent, w)
	if agent.State != core.StateMovingToSource || !out.Replan {
		t.Fatalf("from Idle expected MovingToSource+Replan, got state=%v out=%v", agent.State, out)
	}

	// Agent is already adjacent to the source stack.
	out = Step(agent, w)
	if agent.State != core.StateGrabbing {
		t.Fatalf("expected MovingToSource -> Grabbing once arrived, got %v", agent.State)
	}

	out = Step(agent, w)
	if !agent.IsCarrying() || agent.Carried != "p1" {
		t.Fatalf("expected to have grabbed p1, got carrying=%v id=%q", agent.IsCarrying(), agent.Carried)
	}
	if agent.State != core.StateMovingToTarget || !out.Replan {
		t.Fatalf("expected MovingToTarget after FreeUp grab, got %v", agent.State)
	}

	// Move agent next to the destination stack.
	agent.Pos = core.Cell{5, 2}
	out = Step(agent, w)
	if agent.State != core.StateDropping {
		t.Fatalf("expected Dropping once arrived at target, got %v", agent.State)
	}

	out = Step(agent, w)
	if agent.IsCarrying() {
		t.Fatal("expected pallet dropped")
	}
	if w.Stacks[toID].Len() != 1 {
		t.Fatalf("destination stack len = %d, want 1", w.Stacks[toID].Len())
	}
	if agent.State != core.StateMovingToSource || !out.Replan {
		t.Fatalf("expected to move on to Pickup task, got state=%v", agent.State)
	}

	// Pickup leg: agent returns to the (now uncovered) source stack.
	agent.Pos = core.Cell{3, 2}
	out = Step(agent, w)
	if agent.State != core.StateGrabbing {
		t.Fatalf("expected Grabbing for pickup leg, got %v", agent.State)
	}
	out = Step(agent, w)
	if !agent.IsCarrying() || agent.Carried != "p0" {
		t.Fatalf("expected to have grabbed p0, got carrying=%v id=%q", agent.IsCarrying(), agent.Carried)
	}
	// Pickup has no drop leg: it advances straight to Delivery's MovingToTarget.
	if agent.State != core.StateMovingToTarget || !out.Replan {
		t.Fatalf("expected MovingToTarget after Pickup grab (straight into Delivery), got %v", agent.State)
	}

	agent.Pos = core.Cell{0, 1}
	out = Step(agent, w)
	if agent.State != core.StateDropping {
		t.Fatalf("expected Dropping at pickup zone, got %v", agent.State)
	}
	out = Step(agent, w)
	if agent.IsCarrying() {
		t.Fatal("expected delivery to release the pallet")
	}
	if agent.State != core.StateIdle || !out.NeedsOrder {
		t.Fatalf("expected Idle+NeedsOrder after final task, got state=%v out=%v", agent.State, out)
	}
	if agent.Order != nil {
		t.Error("expected order cleared after completion")
	}
}

func TestGrabbingWaitsUntilPalletOnTop(t *testing.T) {
	w, fromID, _, _ := buildWorld()
	agent := core.NewAgent(1, core.Cell{3, 2})
	order := &core.Order{
		Tasks: []core.Task{
			{Kind: core.TaskPickup, Pallet: "p0", FromStack: fromID}, // p0 is NOT on top (p1 is)
		},
	}
	agent.AssignOrder(order)
	agent.State = core.StateGrabbing

	out := Step(agent, w)
	if agent.IsCarrying() {
		t.Fatal("should not grab a pallet that isn't on top")
	}
	if !out.Replan {
		t.Error("expected a replan request while blocked")
	}
	if w.Stacks[fromID].Len() != 2 {
		t.Errorf("stack should be untouched, len = %d", w.Stacks[fromID].Len())
	}
}
