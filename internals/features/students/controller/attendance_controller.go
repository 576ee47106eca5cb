package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"spectra_backend/internals/features/students/cache"
	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/service"
	helper "spectra_backend/internals/helpers"
)

type AttendanceController struct {
	Upstream ProfileSource
	Cache    cache.Cache
	Log      *zap.Logger
}

func NewAttendanceController(up ProfileSource, c cache.Cache, log *zap.Logger) *AttendanceController {
	return &AttendanceController{Upstream: up, Cache: c, Log: log.Named("attendance")}
}

// POST /api/attendance
func (ctl *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	token := helper.GetRawAccessToken(c)
	ctx := c.UserContext()
	key := cache.TokenKey("attendance", token)

	var summary dto.AttendanceSummary
	if hit, err := ctl.Cache.Get(ctx, key, &summary); err != nil {
		ctl.Log.Warn("cache get failed", zap.Error(err))
	} else if hit {
		return helper.JsonOK(c, "ok", summary)
	}

	raw, err := ctl.Upstream.FetchAttendance(ctx, token)
	if err != nil {
		ctl.Log.Warn("fetch attendance failed", zap.Error(err))
		return writeUpstreamError(c, err)
	}

	summary = service.NormalizeAttendance(raw)
	if err := ctl.Cache.Set(ctx, key, summary); err != nil {
		ctl.Log.Warn("cache set failed", zap.Error(err))
	}
	return helper.JsonOK(c, "ok", summary)
}
