package apperrors

import "fmt"

// ValidationError reports malformed input. The UI re-prompts; nothing is
// retried server side.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError is returned when a borrow would take quantity
// below zero at commit time.
type InsufficientStockError struct {
	ItemID    int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d", e.ItemID, e.Requested)
}

// InvalidStateTransitionError indicates an operation attempted from a state
// that does not permit it, usually a stale client view.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition from %q to %q", e.From, e.To)
}

// AuthorizationError means the actor's role does not allow the action.
type AuthorizationError struct {
	Role   string
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q is not allowed to perform %q", e.Role, e.Action)
}

type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError covers resource-level conflicts that are neither stock nor
// state machine violations, e.g. deleting an item with open borrowings.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Reason)
}
