package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	helper "spectra_backend/internals/helpers"
)

const expirySkew = 30 * time.Second

// RequireUpstreamToken makes sure the request carries an upstream token and,
// when the token is a JWT, that it has not already expired. Opaque tokens
// pass through; the upstream is the authority on them.
func RequireUpstreamToken(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := helper.GetRawAccessToken(c)
		if token == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - No token provided")
		}

		if claims, ok := unverifiedClaims(token); ok {
			if err := validateTokenExpiry(claims, expirySkew, time.Now()); err != nil {
				log.Debug("token rejected", zap.Error(err), zap.String("path", c.Path()))
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token expired")
			}
		}

		helper.SetRawAccessToken(c, token)
		return c.Next()
	}
}
