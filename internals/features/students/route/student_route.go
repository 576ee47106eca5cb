package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"spectra_backend/internals/features/students/cache"
	"spectra_backend/internals/features/students/controller"
	"spectra_backend/internals/features/students/repository"
	"spectra_backend/internals/features/students/service"
	"spectra_backend/internals/features/students/upstream"
	"spectra_backend/internals/middlewares"
	"spectra_backend/internals/middlewares/auth"
)

type StudentDeps struct {
	DB               *gorm.DB
	Upstream         *upstream.Client
	Cache            cache.Cache
	Pictures         service.PictureArchiver // nil when object storage is not configured
	DefaultProfileID string
	Log              *zap.Logger
}

func StudentRoutes(api fiber.Router, d StudentDeps) {
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	repo := repository.NewStudentRepository(d.DB)

	regSvc := service.NewRegistrationService(repo, d.Upstream, d.DefaultProfileID, d.Log)
	if d.Pictures != nil {
		regSvc.Pictures = d.Pictures
	}

	profileCtl := controller.NewProfileController(d.Upstream, d.Cache, d.DefaultProfileID, d.Log)
	attendanceCtl := controller.NewAttendanceController(d.Upstream, d.Cache, d.Log)
	registerCtl := controller.NewRegisterController(regSvc, d.Log)
	searchCtl := controller.NewSearchController(service.NewSearchService(repo), d.Log)

	requireToken := auth.RequireUpstreamToken(d.Log)

	api.Post("/profile", requireToken, profileCtl.GetProfile)
	api.Post("/userinfo", requireToken, profileCtl.GetUserInfo)
	api.Post("/attendance", requireToken, attendanceCtl.GetAttendance)
	api.Post("/def-token-register", middlewares.RegisterRateLimiter(), registerCtl.Register)
	api.Post("/search", middlewares.SearchRateLimiter(), searchCtl.Search)
}
