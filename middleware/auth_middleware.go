package middleware

import (
	config "github.com/anjiri1684/studio_manager/configs"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "Invalid or expired JWT"})
}

func tokenClaims(c *fiber.Ctx) jwt.MapClaims {
	token := c.Locals("user").(*jwt.Token)
	return token.Claims.(jwt.MapClaims)
}

// AdminRequired gates platform-level endpoints.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := tokenClaims(c)
		principalType, _ := claims["principal_type"].(string)

		if principalType != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

// StudioRequired rejects principals without a studio association and makes the
// studio id available to handlers. The id always comes from the token, never
// from client input.
func StudioRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := tokenClaims(c)
		principalType, _ := claims["principal_type"].(string)
		studioClaim, _ := claims["studio_id"].(string)

		if principalType != "user" || studioClaim == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Studio membership required",
			})
		}

		studioID, err := uuid.Parse(studioClaim)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Studio membership required",
			})
		}

		c.Locals("studio_id", studioID)
		return c.Next()
	}
}

// OwnerRequired gates destructive studio operations to the OWNER role.
func OwnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := tokenClaims(c)
		role, _ := claims["role"].(string)

		if role != "OWNER" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Owner access required",
			})
		}
		return c.Next()
	}
}

// StudioID returns the studio id placed in locals by StudioRequired.
func StudioID(c *fiber.Ctx) uuid.UUID {
	return c.Locals("studio_id").(uuid.UUID)
}

// SubjectID returns the authenticated principal's id from the token claims.
func SubjectID(c *fiber.Ctx) (uuid.UUID, error) {
	claims := tokenClaims(c)
	subject, _ := claims["sub"].(string)
	return uuid.Parse(subject)
}
