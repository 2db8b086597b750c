// Package sim implements the simulation tick loop: advance
// reservations, replan agents in priority order, move agents one step,
// emit a render frame. This package is the sole mutator of the grid,
// reservation table, and agents; it owns no timers itself, so its Step
// is unit-testable without wall-clock sleeps.
//
// A config-driven Simulation type with a single Step entrypoint,
// running a fixed windowed-A*-plus-reservation-table loop rather than
// a pluggable-solver one.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/szobov/agent-joggler/internal/agentfsm"
	"github.com/szobov/agent-joggler/internal/apperrors"
	"github.com/szobov/agent-joggler/internal/core"
	"github.com/szobov/agent-joggler/internal/heuristic"
	"github.com/szobov/agent-joggler/internal/logging"
	"github.com/szobov/agent-joggler/internal/orders"
	"github.com/szobov/agent-joggler/internal/planner"
	"github.com/szobov/agent-joggler/internal/render"
	"github.com/szobov/agent-joggler/internal/reservation"
)

// Config bounds the tick loop's planning and order-generation behavior.
type Config struct {
	PlanningWindow     int // W_plan
	ReservationHorizon int // W_res (informational; Reservations.Advance bounds table size regardless)
	PlanAnchorK        int // k, "plan in the past" offset
	MaxFailures         int // R_max consecutive planner failures before reassignment
	OrderBacklogMax    int // O_max
	PickupProbability  float64
}

// agentRuntime tracks the per-agent heuristic cache and last-planned
// goal, used to detect "task changed" replan triggers.
type agentRuntime struct {
	rra      *heuristic.RRA
	lastGoal core.Cell
	hasGoal  bool
}

// Simulation is one warehouse instance's mutable state plus the
// services (reservation table, order generator, render queue) the
// tick loop drives.
type Simulation struct {
	World        *core.World
	Agents       []*core.Agent
	Reservations *reservation.Table
	Orders       *orders.Generator
	OpenOrders   []*core.Order
	RenderQueue  *render.Queue

	cfg     Config
	rng     *rand.Rand
	log     *slog.Logger
	runtime map[core.AgentID]*agentRuntime

	Tick int
}

// New builds a Simulation over world with agents, wired to cfg.
func New(world *core.World, agents []*core.Agent, cfg Config, seed int64, log *slog.Logger) *Simulation {
	rng := rand.New(rand.NewSource(seed))
	s := &Simulation{
		World:        world,
		Agents:       agents,
		Reservations: reservation.New(),
		Orders: orders.New(world, orders.Config{
			PPick: cfg.PickupProbability,
			OMax:  cfg.OrderBacklogMax,
		}, rng),
		RenderQueue: render.NewQueue(256),
		cfg:         cfg,
		rng:         rng,
		log:         log,
		runtime:     make(map[core.AgentID]*agentRuntime, len(agents)),
	}
	for _, a := range agents {
		s.runtime[a.ID] = &agentRuntime{}
	}
	return s
}

// Step advances the simulation by exactly one tick.
func (s *Simulation) Step() error {
	tick := s.Tick

	s.Reservations.Advance(tick)
	s.generateAndAssignOrders(tick)

	for _, agent := range s.replanOrder(tick) {
		s.replanAgent(agent, tick)
	}

	s.advanceAgents(tick)
	s.emitFrame(tick)

	s.Tick++
	return nil
}

// generateAndAssignOrders produces new orders (subject to backpressure),
// refills thinning stacks, and binds any idle agent to the
// Manhattan-nearest open order.
func (s *Simulation) generateAndAssignOrders(tick int) {
	outstanding := len(s.OpenOrders)
	for _, a := range s.Agents {
		if a.Order != nil {
			outstanding++
		}
	}
	if order, ok := s.Orders.GenerateOrder(outstanding, tick); ok {
		logging.ForTick(s.log, tick).Debug("order generated", "order", order.ID, "tasks", len(order.Tasks))
		s.OpenOrders = append(s.OpenOrders, order)
	}
	s.Orders.RefillStacks()

	var idle []*core.Agent
	for _, a := range s.Agents {
		if a.State == core.StateIdle && a.Order == nil {
			idle = append(idle, a)
		}
	}
	if len(idle) == 0 || len(s.OpenOrders) == 0 {
		return
	}
	s.OpenOrders = orders.AssignOpenOrders(s.OpenOrders, idle, s.World)
	for _, a := range idle {
		if a.Order != nil && a.State == core.StateIdle {
			logging.ForAgent(logging.ForTick(s.log, tick), int(a.ID)).Debug("order assigned", "order", a.Order.ID)
			// Newly bound: drive the state machine's Idle->Moving
			// transition so this agent is eligible to plan this tick.
			agentfsm.Step(a, s.World)
		}
	}
}

// replanOrder returns the agents that need to replan this tick,
// expired-plan agents first, then ascending agent id.
func (s *Simulation) replanOrder(tick int) []*core.Agent {
	var candidates []*core.Agent
	for _, a := range s.Agents {
		if s.needsReplan(a, tick) {
			candidates = append(candidates, a)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		ae, be := s.isExpired(a, tick), s.isExpired(b, tick)
		if ae != be {
			return ae // expired sorts first
		}
		return a.ID < b.ID
	})
	return candidates
}

func (s *Simulation) isExpired(a *core.Agent, tick int) bool {
	if a.State == core.StateStuck {
		return true
	}
	last, ok := s.Reservations.LastReservedTick(a.ID)
	return !ok || last < tick
}

func (s *Simulation) needsReplan(a *core.Agent, tick int) bool {
	if a.State == core.StateStuck {
		return true
	}
	rt := s.runtime[a.ID]
	goal, ok := s.resolveGoal(a)
	if !ok {
		return false // no task, nothing to plan toward
	}
	if !rt.hasGoal || rt.lastGoal != goal {
		return true // task changed
	}
	last, ok := s.Reservations.LastReservedTick(a.ID)
	if !ok {
		return true
	}
	if last-tick < s.cfg.PlanningWindow/2 {
		return true
	}
	return false
}

// resolveGoal returns the cell the agent's planner should currently
// target, based on its FSM state and current task, and whether it has
// one at all (an Idle agent with no task does not plan).
func (s *Simulation) resolveGoal(a *core.Agent) (core.Cell, bool) {
	task, ok := a.CurrentTask()
	if !ok {
		return core.Cell{}, false
	}

	var stackOrPickupCell core.Cell
	switch a.State {
	case core.StateMovingToSource, core.StateGrabbing:
		stackOrPickupCell = core.Cell{}
		switch task.Kind {
		case core.TaskFreeUp, core.TaskPickup:
			stackOrPickupCell = s.World.StackCell(task.FromStack)
		}
	default: // MovingToTarget, Dropping, Idle (just-assigned Delivery or TaskIdle)
		stackOrPickupCell = task.TargetCell(s.World.StackCell, s.World.PickupCell)
	}

	return s.nearestAdjacent(a.Pos, stackOrPickupCell), true
}

// nearestAdjacent picks the passable cell adjacent to target closest
// to from (ties broken by N,E,S,W order). Stack/PickupZone targets are
// impassable so this is always a strict neighbor; a TaskIdle target
// (a passable maintenance slot) still resolves the same way, so the
// agent parks one cell short of Home rather than exactly on it.
func (s *Simulation) nearestAdjacent(from, target core.Cell) core.Cell {
	candidates := s.World.Grid.AdjacentFree(target)
	if len(candidates) == 0 {
		return target
	}
	best := candidates[0]
	bestDist := core.ManhattanDistance(from, best)
	for _, c := range candidates[1:] {
		if d := core.ManhattanDistance(from, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// replanAgent runs the windowed planner for one agent and commits its
// reservations, handling the "plan in the past" anchor/fallback and
// the R_max retry-then-reassign policy.
func (s *Simulation) replanAgent(agent *core.Agent, tick int) {
	goal, ok := s.resolveGoal(agent)
	if !ok {
		return
	}

	rt := s.runtime[agent.ID]
	if !rt.hasGoal || rt.lastGoal != goal {
		rt.rra = heuristic.New(s.World.Grid, goal)
		rt.lastGoal = goal
		rt.hasGoal = true
	}

	s.Reservations.Release(agent.ID)

	path, err := s.planWithAnchor(agent, rt.rra, goal, tick)
	if err != nil {
		agent.State = core.StateStuck
		agent.ConsecutiveFailures++
		logging.ForAgent(logging.ForTick(s.log, tick), int(agent.ID)).Warn("replan failed, agent stuck",
			"goal", goal, "consecutive_failures", agent.ConsecutiveFailures, "err", err)
		if agent.ConsecutiveFailures > s.cfg.MaxFailures {
			s.abandonTask(agent, tick)
		}
		return
	}

	if err := s.Reservations.Reserve(agent.ID, path); err != nil {
		// Should not happen: path was searched against the live table.
		// Fail safe by marking the agent stuck for a retry next tick.
		agent.State = core.StateStuck
		agent.ConsecutiveFailures++
		return
	}

	agent.Path = path
	agent.ConsecutiveFailures = 0
	if agent.State == core.StateStuck {
		agent.State = core.StateMovingToSource
		if task, ok := agent.CurrentTask(); ok && (task.Kind == core.TaskDelivery || task.Kind == core.TaskIdle) {
			agent.State = core.StateMovingToTarget
		}
	}
}

// planWithAnchor implements "plan in the past": anchor at now-k,
// validate the prefix against the agent's recorded history, and fall
// back to anchoring at now if another agent preempted a cell.
func (s *Simulation) planWithAnchor(agent *core.Agent, rra *heuristic.RRA, goal core.Cell, tick int) ([]core.TimedCell, error) {
	k := s.cfg.PlanAnchorK
	anchor := tick - k
	if anchor < 0 {
		anchor = tick
	}
	startCell, ok := agent.PositionAt(anchor)
	if !ok {
		anchor = tick
		startCell = agent.Pos
	}

	path, err := planner.Plan(s.World.Grid, s.Reservations, rra, agent.ID,
		core.TimedCell{C: startCell, T: anchor}, goal, s.cfg.PlanningWindow)
	if err != nil {
		return nil, err
	}

	if anchor == tick {
		return path, nil
	}
	for _, step := range path {
		if step.T > tick {
			break
		}
		want, ok := agent.PositionAt(step.T)
		if ok && want != step.C {
			// History diverged from the planned past: someone preempted a
			// cell. Fall back to anchoring at now.
			return planner.Plan(s.World.Grid, s.Reservations, rra, agent.ID,
				core.TimedCell{C: agent.Pos, T: tick}, goal, s.cfg.PlanningWindow)
		}
	}
	return path, nil
}

// abandonTask returns the agent's current task to the order pool as a
// fresh one-task order for another agent to pick up, then routes this
// agent back to its maintenance slot instead of leaving it idle
// wherever it got stuck. Tasks queued behind the current one are not
// returned to the pool.
func (s *Simulation) abandonTask(agent *core.Agent, tick int) {
	if task, ok := agent.CurrentTask(); ok {
		s.OpenOrders = append(s.OpenOrders, &core.Order{
			ID:        core.NewOrderID(),
			Tasks:     []core.Task{task},
			CreatedAt: tick,
		})
	}
	logging.ForAgent(logging.ForTick(s.log, tick), int(agent.ID)).Warn(
		"agent exceeded max consecutive planner failures, returning to maintenance slot",
		"failures", agent.ConsecutiveFailures, "home", agent.Home)

	agent.AssignOrder(&core.Order{
		ID:    core.NewOrderID(),
		Tasks: []core.Task{{Kind: core.TaskIdle, Home: agent.Home}},
	})
	agent.ConsecutiveFailures = 0
	agent.State = core.StateIdle
	agentfsm.Step(agent, s.World)
}

// advanceAgents moves each agent one step along its committed path and
// runs its state-machine transitions.
func (s *Simulation) advanceAgents(tick int) {
	next := tick + 1
	for _, a := range s.Agents {
		if a.State == core.StateStuck {
			continue
		}
		if step, ok := findStep(a.Path, next); ok {
			a.Pos = step.C
		}
		a.RecordHistory(next, s.cfg.PlanAnchorK)
		agentfsm.Step(a, s.World)
	}
}

func findStep(path []core.TimedCell, t int) (core.TimedCell, bool) {
	for _, step := range path {
		if step.T == t {
			return step, true
		}
	}
	return core.TimedCell{}, false
}

// emitFrame builds and enqueues this tick's render messages.
func (s *Simulation) emitFrame(tick int) {
	s.RenderQueue.Push(render.ClearScreen())
	for _, a := range s.Agents {
		color := render.Color{R: 80, G: 140, B: 220, A: 1}
		if a.State == core.StateStuck {
			color = render.Color{R: 220, G: 60, B: 60, A: 1}
		}
		s.RenderQueue.Push(render.DrawObject(
			fmt.Sprintf("agent-%d", a.ID),
			render.Point{X: float64(a.Pos.X), Y: float64(a.Pos.Y)},
			render.Point{X: 1, Y: 1},
			color,
			nil,
		))
	}
	for _, id := range s.World.AllStackIDs() {
		st := s.World.Stacks[id]
		label := fmt.Sprintf("%d", st.Len())
		s.RenderQueue.Push(render.DrawObject(
			fmt.Sprintf("stack-%d", id),
			render.Point{X: float64(st.Cell.X), Y: float64(st.Cell.Y)},
			render.Point{X: 1, Y: 1},
			render.Color{R: 160, G: 120, B: 60, A: 1},
			&label,
		))
	}
}

// ErrUnrecoverable wraps apperrors.ErrPlannerUnreachable for the
// (practically unreachable) case every agent is permanently Stuck
// with no order pool to draw from.
func ErrUnrecoverable(agentID core.AgentID) error {
	return fmt.Errorf("agent %d: %w", agentID, apperrors.ErrPlannerUnreachable)
}
