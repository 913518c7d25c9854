package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"trekmandu_backend/internals/middlewares/auth"
)

// GetOperatorID reads the authenticated operator's id set by the auth middleware.
func GetOperatorID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(auth.LocalsOperatorID).(string)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing operator identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid operator identity")
	}
	return id, nil
}
