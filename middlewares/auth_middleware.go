package middlewares

import (
	"strings"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/responses"
	"github.com/aryanwebd35/food-factory/services"
	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID = "userId"
	LocalRole   = "role"
)

// TokenParser turns a bearer token into the caller's identity.
type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// AuthMiddleware accepts "Authorization: Bearer <jwt>" or the storefront's
// "token" header and stores the user id and role in Locals.
func AuthMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("token")
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("Invalid authorization header format"))
			}
			tokenString = bearerToken[1]
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("Not Authorized Login Again"))
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("Token verification failed, access denied"))
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(c *fiber.Ctx) error {
	if role, _ := c.Locals(LocalRole).(string); role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(responses.Fail("Admin access required"))
	}
	return c.Next()
}

// UserID returns the id AuthMiddleware stored, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
