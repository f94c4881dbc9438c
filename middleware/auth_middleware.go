package middleware

import (
	"github.com/edverse/campus-backend/apperr"
	config "github.com/edverse/campus-backend/configs"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

// Protected rejects requests without a valid bearer token. Expired,
// malformed and missing tokens all collapse to the same unauthorized
// signal; callers never learn which.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return apperr.New(apperr.KindUnauthorized, "Invalid or missing token")
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		role, _ := claims["role"].(string)

		if role != "admin" {
			return apperr.New(apperr.KindForbidden, "Admin access required")
		}
		return c.Next()
	}
}
