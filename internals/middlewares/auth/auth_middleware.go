package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"trekmandu_backend/internals/configs"
	"trekmandu_backend/internals/constants"
)

const (
	LocalsOperatorID   = "operator_id"
	LocalsOperatorRole = "operator_role"
)

type claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthJWT validates the Bearer token and stores the caller's identity in Locals.
// Identity here is only used for audit fields (verified_by / released_by);
// account management itself lives in a separate service.
func AuthJWT() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		if raw == "" {
			// cookie fallback for the admin SPA
			raw = c.Cookies("access_token")
		}
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing access token")
		}

		var cl claims
		tok, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(configs.JWTSecret), nil
		})
		if err != nil || !tok.Valid || cl.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(LocalsOperatorID, cl.UserID)
		c.Locals(LocalsOperatorRole, cl.Role)
		return c.Next()
	}
}

// RequireOperator gates the settlement endpoints to back-office roles.
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalsOperatorRole).(string)
		if !constants.IsOperatorRole(role) {
			return fiber.NewError(fiber.StatusForbidden, "operator role required")
		}
		return c.Next()
	}
}
