package service

import "fmt"

// ============================================
// Business Error Taxonomy
// ============================================

// NotFoundError means the target entity does not exist
type NotFoundError struct {
	EntityType string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id: %s not found!", e.EntityType, e.ID)
}

// NewNotFound builds a NotFoundError for the given entity type and identifier
func NewNotFound(entityType, id string) error {
	return &NotFoundError{EntityType: entityType, ID: id}
}

// DeletedError means the entity exists but has been soft-deleted;
// no further mutation is permitted.
type DeletedError struct {
	EntityType string
	ID         string
}

func (e *DeletedError) Error() string {
	return fmt.Sprintf("this %s has been deleted!", e.EntityType)
}

// NewDeleted builds a DeletedError for the given entity type and identifier
func NewDeleted(entityType, id string) error {
	return &DeletedError{EntityType: entityType, ID: id}
}

// AccessDeniedError means the actor's role or relationship to the entity is
// insufficient for the requested action
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + e.Reason
}

// NewAccessDenied builds an AccessDeniedError with the given reason
func NewAccessDenied(reason string) error {
	return &AccessDeniedError{Reason: reason}
}

// ValidationError means a business invariant was violated
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation builds a ValidationError with the given message
func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DownstreamError wraps a collaborator (storage, notification, email)
// failure. It is distinct from the business errors above and never causes a
// committed persistence write to roll back.
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

// NewDownstream wraps a collaborator failure
func NewDownstream(op string, err error) error {
	return &DownstreamError{Op: op, Err: err}
}
