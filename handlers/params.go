package handlers

import (
	"github.com/edverse/campus-backend/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseIDParam parses a uuid route parameter. A malformed id is a
// validation failure, not a database error.
func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid " + name)
	}
	return id, nil
}
