package httperr

import (
	"errors"
	"fmt"
)

// ===============================
// Error kinds
// ===============================

type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindInvalidTransition      Kind = "invalid_state_transition"
	KindCapacityExceeded       Kind = "capacity_exceeded"
	KindSessionNotBookable     Kind = "session_not_bookable"
	KindNotFound               Kind = "not_found"
	KindConcurrentModification Kind = "concurrent_modification"
)

// Sentinels match any error of the same kind through errors.Is.
var (
	ErrValidation             = BusinessError{Kind: KindValidation}
	ErrInvalidTransition      = BusinessError{Kind: KindInvalidTransition}
	ErrCapacityExceeded       = BusinessError{Kind: KindCapacityExceeded}
	ErrSessionNotBookable     = BusinessError{Kind: KindSessionNotBookable}
	ErrNotFound               = BusinessError{Kind: KindNotFound}
	ErrConcurrentModification = BusinessError{Kind: KindConcurrentModification}
)

// ===============================
// BusinessError
// ===============================

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e BusinessError) Is(target error) bool {
	t, ok := target.(BusinessError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

func Validation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(entity string, id uint) error {
	return BusinessError{
		Kind:    KindNotFound,
		Code:    entity + "_not_found",
		Message: fmt.Sprintf("%s not found for id [%d]", entity, id),
	}
}

func CapacityExceeded(sessionID uint) error {
	return BusinessError{
		Kind:    KindCapacityExceeded,
		Code:    "session_full",
		Message: fmt.Sprintf("session [%d] is full", sessionID),
	}
}

func SessionNotBookable(sessionID uint, status string) error {
	return BusinessError{
		Kind:    KindSessionNotBookable,
		Code:    "session_not_bookable",
		Message: fmt.Sprintf("session [%d] is %s", sessionID, status),
	}
}

func ConcurrentModification(entity string, cause error) error {
	msg := entity + " was modified concurrently, retry the operation"
	if cause != nil {
		msg += " (" + cause.Error() + ")"
	}
	return BusinessError{
		Kind:    KindConcurrentModification,
		Code:    "concurrent_modification",
		Message: msg,
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ===============================
// TransitionError
// ===============================

// TransitionError reports an action that is not legal from the entity's
// current status.
type TransitionError struct {
	Entity string
	Action string
	From   string
}

func (e TransitionError) Error() string {
	return fmt.Sprintf(
		"invalid_state_transition: cannot %s %s in status [%s]",
		e.Action, e.Entity, e.From,
	)
}

func (e TransitionError) Is(target error) bool {
	t, ok := target.(BusinessError)
	return ok && t.Kind == KindInvalidTransition && t.Code == ""
}

func InvalidTransition(entity, action, from string) error {
	return TransitionError{Entity: entity, Action: action, From: from}
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var te TransitionError
	if errors.As(err, &te) {
		return KindInvalidTransition
	}
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
