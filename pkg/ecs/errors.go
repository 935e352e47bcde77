package ecs

import "fmt"

// ==============================================
// Error Codes
// ==============================================

const (
	// ErrBadHandle is returned when dereferencing a handle whose referent
	// was destroyed or never set.
	ErrBadHandle = "BAD_HANDLE"

	// ErrEntityAlreadyRegistered signals an internal invariant violation:
	// two live entities sharing an identifier.
	ErrEntityAlreadyRegistered = "ENTITY_ALREADY_REGISTERED"

	// ErrSystemAlreadyExisting is returned when adding a system whose type
	// is already registered.
	ErrSystemAlreadyExisting = "SYSTEM_ALREADY_EXISTING"

	// ErrSystemNotFound is returned by lookups and transitions targeting an
	// absent system type.
	ErrSystemNotFound = "SYSTEM_NOT_FOUND"

	// ErrSystemLogical is returned when a transition is requested from an
	// incompatible system state.
	ErrSystemLogical = "SYSTEM_LOGICAL"

	// ErrSystemPanic wraps a panic recovered from a system lifecycle
	// callback.
	ErrSystemPanic = "SYSTEM_PANIC"
)

// ==============================================
// ECSError
// ==============================================

// ECSError is the error type used throughout the runtime. The Code field
// allows programmatic handling; Entity and System carry optional context.
type ECSError struct {
	Code    string
	Message string
	Entity  ID
	System  string
}

// Error implements the error interface.
func (e *ECSError) Error() string {
	switch {
	case e.Entity.IsValid():
		return fmt.Sprintf("[%s] %s (entity %d)", e.Code, e.Message, e.Entity)
	case e.System != "":
		return fmt.Sprintf("[%s] %s (system %s)", e.Code, e.Message, e.System)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// NewECSError creates an error with the given code and message.
func NewECSError(code, message string) *ECSError {
	return &ECSError{Code: code, Message: message}
}

// NewEntityError creates an entity-scoped error.
func NewEntityError(code, message string, entity ID) *ECSError {
	return &ECSError{Code: code, Message: message, Entity: entity}
}

// NewSystemError creates a system-scoped error.
func NewSystemError(code, message string, system TypeKey) *ECSError {
	return &ECSError{Code: code, Message: message, System: system.String()}
}

// ==============================================
// Predicates
// ==============================================

func hasCode(err error, code string) bool {
	if e, ok := err.(*ECSError); ok {
		return e.Code == code
	}
	return false
}

// IsBadHandle reports whether err is an invalid-handle dereference.
func IsBadHandle(err error) bool { return hasCode(err, ErrBadHandle) }

// IsSystemNotFound reports whether err targets an absent system type.
func IsSystemNotFound(err error) bool { return hasCode(err, ErrSystemNotFound) }

// IsSystemAlreadyExisting reports whether err is a duplicate registration.
func IsSystemAlreadyExisting(err error) bool { return hasCode(err, ErrSystemAlreadyExisting) }

// IsSystemLogical reports whether err is an illegal state transition.
func IsSystemLogical(err error) bool { return hasCode(err, ErrSystemLogical) }
