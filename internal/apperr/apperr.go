// Package apperr defines the error taxonomy shared by services and handlers.
// Every business-rule violation is one of these kinds; the HTTP layer maps
// kinds to status codes in a single place.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	Validation
	InsufficientStock
	Unavailable
	Conflict
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func E(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf classifies any error; unrecognized errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// Status maps an error kind to its HTTP status. InsufficientStock and
// Unavailable surface as 400 like any other business-rule rejection.
func Status(err error) int {
	switch KindOf(err) {
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case Forbidden:
		return fiber.StatusForbidden
	case NotFound:
		return fiber.StatusNotFound
	case Validation, InsufficientStock, Unavailable:
		return fiber.StatusBadRequest
	case Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
