package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Kind is the machine-readable category of a request failure. Handlers
// return *Error values and the app-level error handler maps the kind to an
// HTTP status, so callers can branch on kind instead of parsing messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Extra fields are merged into the JSON error body, e.g. the existing
	// attempt id on a duplicate-attempt conflict.
	Extra map[string]interface{}
	// Err carries the underlying cause for internal errors. It is logged
	// server-side and never rendered to the client.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string, extra map[string]interface{}) *Error {
	return &Error{Kind: KindConflict, Message: message, Extra: extra}
}

func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Handler is the fiber ErrorHandler shared by both apps. Internal detail is
// logged and replaced with the generic message before rendering.
func Handler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			log.Printf("[ERROR] %v | Path: %s | Method: %s", appErr.Err, c.Path(), c.Method())
		}
		body := fiber.Map{
			"error": appErr.Message,
			"kind":  string(appErr.Kind),
		}
		for k, v := range appErr.Extra {
			body[k] = v
		}
		return c.Status(appErr.Kind.Status()).JSON(body)
	}

	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  string(kindForStatus(code)),
	})
}

func kindForStatus(code int) Kind {
	switch code {
	case fiber.StatusBadRequest:
		return KindValidation
	case fiber.StatusUnauthorized:
		return KindUnauthorized
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
