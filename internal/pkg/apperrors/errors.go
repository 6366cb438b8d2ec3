package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrRecordNotFound        = errors.New("record not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrUnauthorizedAction = errors.New("unauthorized action")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidEmail     = errors.New("invalid email")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// Club errors
var (
	ErrClubNotFound         = errors.New("club not found")
	ErrClubAlreadyExists    = errors.New("club with this name already exists")
	ErrClubLimitExceeded    = errors.New("user has already joined the maximum number of clubs")
	ErrClubCapacityExceeded = errors.New("club is full, no available slots")
	ErrUndefinedUserClub    = errors.New("user does not belong to the club")
)

// Club request errors
var (
	ErrRequestAlreadyExists = errors.New("request already exists")
)

// Q&A errors
var (
	ErrQuestionNotFound = errors.New("question not found")
)

// NewRecordNotFoundError creates a custom error for a missing record with a message
func NewRecordNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrRecordNotFound,
		Message: message,
	}
}

// NewInvalidRequestError creates a custom error for a malformed or disallowed request
func NewInvalidRequestError(message string) error {
	return &CustomError{
		Err:     ErrInvalidRequest,
		Message: message,
	}
}

// NewUnauthorizedActionError creates a custom error for a forbidden action with a message
func NewUnauthorizedActionError(message string) error {
	return &CustomError{
		Err:     ErrUnauthorizedAction,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// MessageOf returns the user-facing message of err: the CustomError message when one is
// present in the chain, otherwise err.Error().
func MessageOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return err.Error()
}
