package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/type/response"
	"github.com/sunthewhat/multisign-api/type/shared"
)

func Jwt() fiber.Handler {
	conf := jwtware.Config{
		SigningKey:  []byte(*common.Config.JWTSecret),
		TokenLookup: "header:Authorization",
		AuthScheme:  "Bearer",
		ContextKey:  "auth",
		Claims:      new(shared.UserClaims),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Warn("JWT validation failure", "error", err, "path", c.Path(), "method", c.Method())
			return response.SendUnauthorized(c, "JWT validation failure")
		},
	}
	return jwtware.New(conf)
}

// LoadUser copies the authenticated user id out of the parsed JWT into the
// request context. Runs after Jwt().
func LoadUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("auth").(*jwt.Token)
		if !ok {
			return response.SendUnauthorized(c, "Missing authentication token")
		}

		claims, ok := token.Claims.(*shared.UserClaims)
		if !ok || claims.UserId == nil || *claims.UserId == "" {
			return response.SendUnauthorized(c, "Invalid authentication claims")
		}

		c.Locals("user_id", *claims.UserId)

		return c.Next()
	}
}

// GetUserFromContext - Helper function to extract user ID from request context
func GetUserFromContext(c *fiber.Ctx) (string, bool) {
	if userID := c.Locals("user_id"); userID != nil {
		if id, ok := userID.(string); ok {
			return id, true
		}
	}
	return "", false
}
