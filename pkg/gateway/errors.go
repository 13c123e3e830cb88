package gateway

import "fmt"

// ErrorType categorizes submission failures.
type ErrorType string

const (
	// ErrorTypeValidation is a blank prompt, rejected before any network call.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNetwork is a rejected request or an unparsable response body.
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeBackend is a non-2xx status from the scraper backend.
	ErrorTypeBackend ErrorType = "backend"
	// ErrorTypeContract is a 2xx payload missing the required plan/items keys.
	ErrorTypeContract ErrorType = "contract"
)

// SubmitError is a structured error from the submission path. When any
// SubmitError is returned, no job response is produced; callers must not
// assume a partially valid result exists.
type SubmitError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SubmitError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the single human-readable message surfaced in the
// error banner.
func (e *SubmitError) UserMessage() string {
	return e.Message
}

func newValidationError(message string) *SubmitError {
	return &SubmitError{Type: ErrorTypeValidation, Message: message}
}

func newNetworkError(message string, cause error) *SubmitError {
	return &SubmitError{Type: ErrorTypeNetwork, Message: message, Cause: cause}
}

func newBackendError(message string) *SubmitError {
	return &SubmitError{Type: ErrorTypeBackend, Message: message}
}

func newContractError(message string) *SubmitError {
	return &SubmitError{Type: ErrorTypeContract, Message: message}
}
