package payment

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a single client-fixable input problem. All fields are
// checked before returning so the UI can show every error at once.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates every field error found in a request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into ValidationErrors if it is one.
func AsValidation(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Provider failure modes. Timeouts and unavailability are retryable and must
// never settle a payment; a decline is terminal.
var (
	ErrProviderTimeout     = errors.New("payment provider timed out")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrDuplicatePayment    = errors.New("a payment for this booking is already in flight")
	ErrUnknownMethod       = errors.New("unsupported payment method")
)

// DeclinedError reports an explicit provider rejection.
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string {
	return "payment declined: " + e.Reason
}

// IsDeclined reports whether err is an explicit provider rejection.
func IsDeclined(err error) bool {
	var de *DeclinedError
	return errors.As(err, &de)
}
