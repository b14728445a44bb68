package gamedata

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. The concrete types below wrap them.
var (
	ErrNotFound    = errors.New("not found")
	ErrProtected   = errors.New("protected entity")
	ErrOutOfBounds = errors.New("out of bounds")
)

// IOError reports a missing, unreadable or unwritable data file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("Failed to %s JSON file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a data file that is not valid JSON of the expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse JSON file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError reports an absent entity, event or page.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProtectedEntityError reports an attempt to delete a built-in entity.
type ProtectedEntityError struct {
	Message string
}

func (e *ProtectedEntityError) Error() string { return e.Message }

func (e *ProtectedEntityError) Is(target error) bool { return target == ErrProtected }

// OutOfBoundsError reports a position or index outside the addressed array.
type OutOfBoundsError struct {
	Message string
}

func (e *OutOfBoundsError) Error() string { return e.Message }

func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }

// NotFound builds a NotFoundError with a formatted message.
func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// Protected builds a ProtectedEntityError with a formatted message.
func Protected(format string, args ...any) error {
	return &ProtectedEntityError{Message: fmt.Sprintf(format, args...)}
}

// OutOfBounds builds an OutOfBoundsError with a formatted message.
func OutOfBounds(format string, args ...any) error {
	return &OutOfBoundsError{Message: fmt.Sprintf(format, args...)}
}
