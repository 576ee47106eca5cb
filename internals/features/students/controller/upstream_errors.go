package controller

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"spectra_backend/internals/features/students/upstream"
	helper "spectra_backend/internals/helpers"
)

// ProfileSource is the read side of the student-information API.
type ProfileSource interface {
	FetchProfile(ctx context.Context, token, id string) (map[string]any, error)
	FetchAttendance(ctx context.Context, token string) (map[string]any, error)
}

// writeUpstreamError maps upstream failures onto gateway statuses.
func writeUpstreamError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return helper.JsonError(c, fiber.StatusGatewayTimeout, "Upstream API timed out")
	case errors.Is(err, upstream.ErrAuth):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Upstream rejected the token")
	case errors.Is(err, upstream.ErrFormat):
		return helper.JsonError(c, fiber.StatusBadGateway, "Invalid response from external API")
	default:
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to reach external API")
	}
}

// forwardStatusError passes a non-2xx upstream answer through with its
// status and body.
func forwardStatusError(c *fiber.Ctx, err error) (bool, error) {
	var se *upstream.StatusError
	if !errors.As(err, &se) {
		return false, nil
	}
	var details any
	if sonic.Unmarshal(se.Body, &details) != nil {
		details = string(se.Body)
	}
	return true, helper.JsonErrorDetails(c, se.Code, "Upstream API error", details)
}
