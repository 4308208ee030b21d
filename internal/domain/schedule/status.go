package schedule

import "github.com/BruksfildServices01/petcare-scheduler/internal/httperr"

// ===============================
// Schedule Status
// ===============================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"

	// StatusDeleted is logical: the record is removed instead of stored.
	StatusDeleted Status = "deleted"
)

type Action string

const (
	ActionActivate Action = "activate"
	ActionCancel   Action = "cancel"
	ActionDelete   Action = "delete"
	ActionUpdate   Action = "update"
)

// Cycle tracks how far session materialization has progressed.
type Cycle string

const (
	CycleInitial   Cycle = "initial"
	CycleActive    Cycle = "active"
	CycleCompleted Cycle = "completed"
)

var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionActivate: StatusActive,
		ActionDelete:   StatusDeleted,
		ActionUpdate:   StatusDraft,
	},
	StatusActive: {
		ActionCancel: StatusCancelled,
	},
}

// ===============================
// Validations
// ===============================

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusActive, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.Validation("invalid_status", "unknown schedule status ["+s+"]")
}

// Next returns the status reached by applying action to current.
func Next(current Status, action Action) (Status, error) {
	if to, ok := transitions[current][action]; ok {
		return to, nil
	}
	return "", httperr.InvalidTransition("schedule", string(action), string(current))
}

func InitialStatus() Status {
	return StatusDraft
}
