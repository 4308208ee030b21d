package session

import "github.com/BruksfildServices01/petcare-scheduler/internal/httperr"

// ===============================
// Session Status
// ===============================

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusStarted   Status = "Started"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

type Action string

const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Reopening a completed session is a start from Completed.
var transitions = map[Status]map[Action]Status{
	StatusScheduled: {
		ActionStart:  StatusStarted,
		ActionCancel: StatusCancelled,
	},
	StatusStarted: {
		ActionComplete: StatusCompleted,
	},
	StatusCompleted: {
		ActionStart: StatusStarted,
	},
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusStarted, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.Validation("invalid_status", "unknown session status ["+s+"]")
}

func Next(current Status, action Action) (Status, error) {
	if to, ok := transitions[current][action]; ok {
		return to, nil
	}
	return "", httperr.InvalidTransition("session", string(action), string(current))
}

func InitialStatus() Status {
	return StatusScheduled
}
