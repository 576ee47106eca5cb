package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"spectra_backend/internals/features/students/cache"
	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/service"
	helper "spectra_backend/internals/helpers"
)

type ProfileController struct {
	Upstream         ProfileSource
	Cache            cache.Cache
	Validator        *validator.Validate
	DefaultProfileID string
	Log              *zap.Logger
}

func NewProfileController(up ProfileSource, c cache.Cache, defaultProfileID string, log *zap.Logger) *ProfileController {
	return &ProfileController{
		Upstream:         up,
		Cache:            c,
		Validator:        validator.New(),
		DefaultProfileID: defaultProfileID,
		Log:              log.Named("profile"),
	}
}

// POST /api/profile
func (ctl *ProfileController) GetProfile(c *fiber.Ctx) error {
	var req dto.ProfileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = ctl.DefaultProfileID
	}

	token := helper.GetRawAccessToken(c)
	ctx := c.UserContext()
	key := cache.TokenKey("profile:"+id, token)

	var profile dto.StudentProfile
	if hit, err := ctl.Cache.Get(ctx, key, &profile); err != nil {
		ctl.Log.Warn("cache get failed", zap.Error(err))
	} else if hit {
		return helper.JsonOK(c, "ok", profile)
	}

	raw, err := ctl.Upstream.FetchProfile(ctx, token, id)
	if err != nil {
		ctl.Log.Warn("fetch profile failed", zap.String("id", id), zap.Error(err))
		return writeUpstreamError(c, err)
	}

	profile = service.NormalizeProfile(raw)
	if profile.HallTicketNumber == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid response from external API")
	}

	if err := ctl.Cache.Set(ctx, key, profile); err != nil {
		ctl.Log.Warn("cache set failed", zap.Error(err))
	}
	return helper.JsonOK(c, "ok", profile)
}

// POST /api/userinfo
func (ctl *ProfileController) GetUserInfo(c *fiber.Ctx) error {
	var req dto.UserInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.ID = strings.TrimSpace(req.ID)
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	raw, err := ctl.Upstream.FetchProfile(c.UserContext(), helper.GetRawAccessToken(c), req.ID)
	if err != nil {
		if ok, werr := forwardStatusError(c, err); ok {
			return werr
		}
		ctl.Log.Warn("fetch user info failed", zap.String("id", req.ID), zap.Error(err))
		return writeUpstreamError(c, err)
	}
	return helper.JsonOK(c, "ok", service.NormalizeProfile(raw))
}
