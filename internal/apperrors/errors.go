// Package apperrors defines the sentinel error kinds the simulation's
// components wrap with context, following the fmt.Errorf("...: %w", err)
// convention used throughout this codebase rather than a third-party
// errors package.
package apperrors

import "errors"

var (
	// ErrConfig marks a malformed or missing configuration value.
	ErrConfig = errors.New("configuration error")

	// ErrPlannerUnreachable marks a windowed search that never reached
	// its goal nor made any progress, distinct from a window-exhausted
	// partial path (which is not an error).
	ErrPlannerUnreachable = errors.New("planner: goal unreachable")

	// ErrReservationConflict marks a reservation that collided with an
	// existing entry held by another agent.
	ErrReservationConflict = errors.New("reservation conflict")

	// ErrRenderTransport marks a failure delivering a render message to
	// a Sink; the transport itself is an external collaborator, out of
	// scope, but the error kind is part of this module's surface.
	ErrRenderTransport = errors.New("render transport error")

	// ErrTaskInfeasible marks a task that cannot be completed given the
	// current world state (e.g. its target stack is permanently full).
	ErrTaskInfeasible = errors.New("task infeasible")
)
