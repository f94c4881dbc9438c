package apperr

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindStatusMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, fiber.StatusBadRequest},
		{KindUnauthorized, fiber.StatusUnauthorized},
		{KindForbidden, fiber.StatusForbidden},
		{KindNotFound, fiber.StatusNotFound},
		{KindConflict, fiber.StatusConflict},
		{KindInternal, fiber.StatusInternalServerError},
		{Kind("unknown"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.kind.Status(), "kind %s", tc.kind)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "Database error")

	assert.Equal(t, "Database error", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestConflictCarriesExtra(t *testing.T) {
	err := Conflict("already exists", map[string]interface{}{"resultId": "abc"})
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, "abc", err.Extra["resultId"])
}
