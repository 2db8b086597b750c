package core

// AgentState is the agent's position in the task-lifecycle state
// machine.
type AgentState int

const (
	StateIdle AgentState = iota
	StateMovingToSource
	StateGrabbing
	StateMovingToTarget
	StateDropping
	StateStuck
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateMovingToSource:
		return "MovingToSource"
	case StateGrabbing:
		return "Grabbing"
	case StateMovingToTarget:
		return "MovingToTarget"
	case StateDropping:
		return "Dropping"
	case StateStuck:
		return "Stuck"
	default:
		return "Unknown"
	}
}

// TimedCell is a space-time step in a planned path: cell c at tick T.
type TimedCell struct {
	C Cell
	T int
}

// Path is a sequence of space-time steps.
type Path = []TimedCell

// Agent is a mobile warehouse robot: a position, an optional carried
// pallet, a task queue, and the state-machine/planning bookkeeping the
// tick loop needs.
type Agent struct {
	ID    AgentID
	Pos   Cell
	Home  Cell // maintenance slot returned to on R_max abandonment
	State AgentState

	Carried   PalletID // "" if not carrying anything
	carrying  bool

	Order *Order // current order, nil if none assigned
	tasks []Task // remaining tasks of Order, front is current

	Path []TimedCell // planned space-time path, current tail at Path[0]

	// History is a small ring buffer of the agent's actual recent
	// positions, used to validate "plan in the past" anchors. History[0]
	// is the most recent.
	History []TimedCell

	ConsecutiveFailures int // bumped on planner Unreachable, reset on success
}

// NewAgent creates an idle agent at start. start also becomes the
// agent's Home: the maintenance slot it is routed back to after
// repeated planning failures.
func NewAgent(id AgentID, start Cell) *Agent {
	return &Agent{ID: id, Pos: start, Home: start, State: StateIdle}
}

// IsCarrying reports whether the agent currently holds a pallet.
func (a *Agent) IsCarrying() bool {
	return a.carrying
}

// PickUp attaches pallet id as the agent's carried pallet.
func (a *Agent) PickUp(id PalletID) {
	a.Carried = id
	a.carrying = true
}

// Drop clears the agent's carried pallet and returns its id.
func (a *Agent) Drop() PalletID {
	id := a.Carried
	a.Carried = ""
	a.carrying = false
	return id
}

// CurrentTask returns the task at the front of the agent's queue, and
// whether one exists.
func (a *Agent) CurrentTask() (Task, bool) {
	if len(a.tasks) == 0 {
		return Task{}, false
	}
	return a.tasks[0], true
}

// AdvanceTask pops the completed task at the front of the queue.
// Returns true if tasks remain.
func (a *Agent) AdvanceTask() bool {
	if len(a.tasks) > 0 {
		a.tasks = a.tasks[1:]
	}
	return len(a.tasks) > 0
}

// AssignOrder binds a fresh order to the agent, replacing any prior
// (completed) one.
func (a *Agent) AssignOrder(o *Order) {
	a.Order = o
	a.tasks = append([]Task(nil), o.Tasks...)
}

// ClearOrder drops the agent's order once fully completed or abandoned.
func (a *Agent) ClearOrder() {
	a.Order = nil
	a.tasks = nil
}

// RecordHistory pushes the agent's current (Pos, tick) onto the front
// of its history ring buffer, trimming to length k+1.
func (a *Agent) RecordHistory(tick, k int) {
	a.History = append([]TimedCell{{C: a.Pos, T: tick}}, a.History...)
	if len(a.History) > k+1 {
		a.History = a.History[:k+1]
	}
}

// PositionAt returns the agent's actual recorded position at tick t,
// if still in history, and whether it was found.
func (a *Agent) PositionAt(t int) (Cell, bool) {
	for _, h := range a.History {
		if h.T == t {
			return h.C, true
		}
	}
	return Cell{}, false
}
