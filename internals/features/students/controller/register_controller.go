package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/service"
	"spectra_backend/internals/features/students/upstream"
	helper "spectra_backend/internals/helpers"
)

type RegisterController struct {
	Service   *service.RegistrationService
	Validator *validator.Validate
	Log       *zap.Logger
}

func NewRegisterController(svc *service.RegistrationService, log *zap.Logger) *RegisterController {
	return &RegisterController{Service: svc, Validator: validator.New(), Log: log.Named("register")}
}

// POST /api/def-token-register
func (ctl *RegisterController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	out, err := ctl.Service.Register(c.UserContext(), req.Phone, req.Password)
	if err != nil {
		ctl.Log.Error("registration failed", zap.Error(err))
		if code, msg := helper.MapPGError(err); code != fiber.StatusInternalServerError {
			return helper.JsonError(c, code, msg)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error saving student")
	}

	resp := dto.RegisterResponse{Name: out.Name, Outcome: string(out.Kind)}
	switch out.Kind {
	case service.OutcomeCreated:
		return helper.JsonCreated(c, fmt.Sprintf("Welcome %s", out.Name), resp)
	case service.OutcomeAlreadyExists:
		return helper.JsonOK(c, fmt.Sprintf("Student %q is already part of spectra", out.Name), resp)
	case service.OutcomeDuplicateHallTicket:
		return helper.JsonError(c, fiber.StatusConflict, "Already Registered")
	case service.OutcomeAuthFailed:
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid phone number or password")
	default:
		if errors.Is(out.Err, upstream.ErrAuth) {
			return helper.JsonError(c, fiber.StatusBadGateway, "External API rejected the profile request")
		}
		return writeUpstreamError(c, out.Err)
	}
}
