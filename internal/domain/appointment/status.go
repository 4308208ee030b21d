package appointment

import "github.com/BruksfildServices01/petcare-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "booked"
	StatusArrived   Status = "arrived"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

type Action string

const (
	ActionAttend   Action = "attend"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

var transitions = map[Status]map[Action]Status{
	StatusBooked: {
		ActionAttend: StatusArrived,
		ActionCancel: StatusCancelled,
	},
	StatusArrived: {
		ActionComplete: StatusFulfilled,
	},
}

// Actions that only make sense while the professional is seeing patients.
var needsStartedSession = map[Action]bool{
	ActionAttend:   true,
	ActionComplete: true,
}

// ===============================
// Validations
// ===============================

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusBooked, StatusArrived, StatusFulfilled, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.Validation("invalid_status", "unknown appointment status ["+s+"]")
}

func Next(current Status, action Action) (Status, error) {
	if to, ok := transitions[current][action]; ok {
		return to, nil
	}
	return "", httperr.InvalidTransition("appointment", string(action), string(current))
}

// Holds reports whether an appointment in this status occupies a slot.
func Holds(s Status) bool {
	return s != StatusCancelled
}

func InitialStatus() Status {
	return StatusBooked
}
