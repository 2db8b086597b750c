package core

import "github.com/google/uuid"

// AgentID identifies an agent for the lifetime of the simulation.
type AgentID int

// StackID identifies a stack cell.
type StackID int

// PickupZoneID identifies a pickup-zone cell.
type PickupZoneID int

// PalletID is a stable, globally-unique pallet identifier. Pallets can
// move between stacks and be carried, so unlike AgentID/StackID (which
// index fixed-size arenas) they are minted with a short UUID rather
// than a monotonic counter.
type PalletID string

// OrderID is a stable, globally-unique order identifier, minted the
// same way as PalletID.
type OrderID string

// NewPalletID mints a fresh pallet id.
func NewPalletID() PalletID {
	return PalletID(uuid.New().String()[:8])
}

// NewOrderID mints a fresh order id.
func NewOrderID() OrderID {
	return OrderID(uuid.New().String()[:8])
}
