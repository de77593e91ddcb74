package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Editing session errors
var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrRowNotFound     = errors.New("row not found")
	ErrUnknownField    = errors.New("unknown field")
	ErrLastRow         = errors.New("at least one row must remain")
	ErrStudentNotSaved = errors.New("student has not been saved yet")
)

// Backend errors
var (
	// ErrBackendRejected wraps non-success responses from the school backend.
	ErrBackendRejected = errors.New("backend rejected the request")
	// ErrBackendUnavailable wraps transport failures (connection refused, timeouts, ...).
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Messages shown to the user verbatim.
const (
	MsgStudentNotSaved    = "Please save Student Details first to create a student, then save Case Record."
	MsgLoginFieldsMissing = "Please fill out both fields."
	MsgBackendUnavailable = "Could not reach the school server. Please try again."
	MsgUnexpected         = "Something went wrong. Please try again."
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message.
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewPreconditionError is returned before any request is attempted.
func NewPreconditionError(err error, message string) error {
	return &CustomError{
		Err:     err,
		Message: message,
		Code:    "PRECONDITION",
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// userMessager is implemented by errors that compose their own user-facing
// text, such as backend rejections.
type userMessager interface {
	UserMessage() string
}

// UserMessage returns the text that should be shown to the person who
// triggered err. Custom errors carry their own message; anything else falls
// back to a generic one so internal details never reach the page.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	if errors.Is(err, ErrBackendUnavailable) {
		return MsgBackendUnavailable
	}
	return MsgUnexpected
}
