package core

// TaskKind tags the Task variant.
type TaskKind int

const (
	TaskIdle TaskKind = iota
	TaskFreeUp
	TaskPickup
	TaskDelivery
)

func (k TaskKind) String() string {
	switch k {
	case TaskIdle:
		return "Idle"
	case TaskFreeUp:
		return "FreeUp"
	case TaskPickup:
		return "Pickup"
	case TaskDelivery:
		return "Delivery"
	default:
		return "Unknown"
	}
}

// Task is a tagged variant over the four task kinds an order can
// carry. Exactly the fields relevant to Kind are populated; callers
// switch exhaustively on Kind rather than infer it from field
// presence.
type Task struct {
	Kind TaskKind

	Pallet PalletID

	// FreeUp: move Pallet off FromStack onto ToStack.
	// Pickup: grab Pallet, which must be at the top of FromStack.
	FromStack StackID
	ToStack   StackID

	// Delivery: carry the agent's held pallet to ToPickup.
	ToPickup PickupZoneID

	// Idle: return to Home, the agent's maintenance slot.
	Home Cell
}

// StackCellFunc resolves a stack id to its grid cell.
type StackCellFunc func(StackID) Cell

// PickupCellFunc resolves a pickup zone id to its grid cell.
type PickupCellFunc func(PickupZoneID) Cell

// TargetCell returns the grid cell the task's endpoint sits at. For
// FreeUp/Pickup/Delivery that's a Stack or PickupZone cell, itself
// impassable — the caller is expected to navigate to an adjacent free
// cell. For Idle it's Home, an ordinary passable maintenance slot.
func (t Task) TargetCell(stackCell StackCellFunc, pickupCell PickupCellFunc) Cell {
	switch t.Kind {
	case TaskFreeUp:
		return stackCell(t.ToStack)
	case TaskPickup:
		return stackCell(t.FromStack)
	case TaskDelivery:
		return pickupCell(t.ToPickup)
	case TaskIdle:
		return t.Home
	default:
		return Cell{}
	}
}

// Order is a unit of work handed atomically to a single agent. It
// expands into a (possibly empty) prefix of FreeUp tasks, one Pickup
// and one Delivery, consumed in order.
type Order struct {
	ID        OrderID
	Tasks     []Task
	CreatedAt int // tick the order was generated, for assignment tie-breaking
}

// StartCell returns the cell of the order's first task, used by the
// assignment policy to find the nearest idle agent.
func (o Order) StartCell(stackCell StackCellFunc, pickupCell PickupCellFunc) Cell {
	if len(o.Tasks) == 0 {
		return Cell{}
	}
	return o.Tasks[0].TargetCell(stackCell, pickupCell)
}
