package booking

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidTransition   = "invalidTransition"
	CodePrematureCompletion = "prematureCompletion"
	CodeConflict            = "conflict"
)

// TransitionError reports a booking command that could not be applied. The
// booking is left unchanged whenever one is returned.
type TransitionError struct {
	Code    string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidTransition(msg string) error {
	return &TransitionError{Code: CodeInvalidTransition, Message: msg}
}

func NewPrematureCompletion(msg string) error {
	return &TransitionError{Code: CodePrematureCompletion, Message: msg}
}

func NewConflict(msg string) error {
	return &TransitionError{Code: CodeConflict, Message: msg}
}

// ErrCode extracts the transition error code, or "" for other errors.
func ErrCode(err error) string {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
