package rules

import (
	"errors"
	"fmt"
)

// Violation classifies why an action was rejected.
type Violation string

const (
	ViolationTurn     Violation = "turn"
	ViolationPhase    Violation = "phase"
	ViolationQuantity Violation = "quantity"
	ViolationResource Violation = "resource"
	ViolationCapacity Violation = "capacity"
	ViolationNotFound Violation = "not_found"
	ViolationInvalid  Violation = "invalid"
)

// RuleError is returned when an action breaks a game rule. The message is
// meant for the acting player and is surfaced verbatim.
type RuleError struct {
	Kind    Violation
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// Is matches any RuleError of the same kind, so errors.Is(err, ErrTurn) works
// regardless of the message.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrTurn     = &RuleError{Kind: ViolationTurn, Message: "not your turn"}
	ErrPhase    = &RuleError{Kind: ViolationPhase, Message: "action not allowed in this phase"}
	ErrQuantity = &RuleError{Kind: ViolationQuantity, Message: "wrong quantity"}
	ErrResource = &RuleError{Kind: ViolationResource, Message: "insufficient resources"}
	ErrCapacity = &RuleError{Kind: ViolationCapacity, Message: "capacity reached"}
	ErrNotFound = &RuleError{Kind: ViolationNotFound, Message: "not found"}
	ErrInvalid  = &RuleError{Kind: ViolationInvalid, Message: "invalid request"}
)

func newf(kind Violation, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Turnf(format string, args ...any) error     { return newf(ViolationTurn, format, args...) }
func Phasef(format string, args ...any) error    { return newf(ViolationPhase, format, args...) }
func Quantityf(format string, args ...any) error { return newf(ViolationQuantity, format, args...) }
func Resourcef(format string, args ...any) error { return newf(ViolationResource, format, args...) }
func Capacityf(format string, args ...any) error { return newf(ViolationCapacity, format, args...) }
func NotFoundf(format string, args ...any) error { return newf(ViolationNotFound, format, args...) }
func Invalidf(format string, args ...any) error  { return newf(ViolationInvalid, format, args...) }

// KindOf returns the violation kind of err, or "" when err is not a RuleError.
func KindOf(err error) Violation {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
