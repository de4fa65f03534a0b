// Package middleware holds the HTTP cross-cutting layers: service-to-service
// authentication and per-handle rate limiting.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ServiceToken guards machine-to-machine endpoints (the scheduler's batch
// notify, the payment webhook) with an HS256 bearer token. User traffic
// never carries one; these routes are not reachable from the bot surface.
func ServiceToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing service token",
			})
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !parsed.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid service token",
			})
		}

		return c.Next()
	}
}

func extractBearer(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
