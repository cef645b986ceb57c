// Package apperror defines the error kinds shared by the stores, the HTTP
// API and the client session. Kinds are compared with errors.Is.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error carries an operation, the entity id involved and a human readable
// message on top of one of the sentinel kinds.
type Error struct {
	Op      string
	Kind    error
	ID      string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op == "" {
		return msg
	}
	if e.ID != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Op, e.ID, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(op, entity, id string) error {
	return &Error{Op: op, Kind: ErrNotFound, ID: id, Message: entity + " not found"}
}

func Conflict(op, id, message string) error {
	return &Error{Op: op, Kind: ErrConflict, ID: id, Message: message}
}

func Validation(op, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(op, message string) error {
	return &Error{Op: op, Kind: ErrUnauthenticated, Message: message}
}

func InvalidTransition(op, id, from, to string) error {
	return &Error{
		Op:      op,
		Kind:    ErrInvalidTransition,
		ID:      id,
		Message: fmt.Sprintf("cannot move order from %s to %s", from, to),
	}
}

// InsufficientStockError names the first product whose stock could not
// cover the requested quantity.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName == "" {
		return "insufficient stock"
	}
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Codes travel in the API envelope so clients can rebuild the kind.
const (
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeValidation        = "validation"
	CodeUnauthenticated   = "unauthenticated"
	CodeInsufficientStock = "insufficient_stock"
	CodeInvalidTransition = "invalid_transition"
	CodeInternal          = "internal"
)

// Code returns the wire code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	default:
		return CodeInternal
	}
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInsufficientStock, CodeInvalidTransition:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromCode rebuilds an error of the right kind from an API error reply.
func FromCode(code, message string) error {
	var kind error
	switch code {
	case CodeInsufficientStock:
		return &InsufficientStockError{ProductName: productNameFrom(message)}
	case CodeInvalidTransition:
		kind = ErrInvalidTransition
	case CodeNotFound:
		kind = ErrNotFound
	case CodeConflict:
		kind = ErrConflict
	case CodeValidation:
		kind = ErrValidation
	case CodeUnauthenticated:
		kind = ErrUnauthenticated
	default:
		return errors.New(message)
	}
	return &Error{Kind: kind, Message: message}
}

func productNameFrom(message string) string {
	const prefix = "insufficient stock for "
	if len(message) > len(prefix) && message[:len(prefix)] == prefix {
		return message[len(prefix):]
	}
	return ""
}

// Message returns the client facing text of err without operation prefixes.
func Message(err error) string {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
