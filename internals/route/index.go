package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"spectra_backend/internals/configs"
	"spectra_backend/internals/features/students/cache"
	studentRoute "spectra_backend/internals/features/students/route"
	"spectra_backend/internals/features/students/service"
	"spectra_backend/internals/features/students/upstream"
	"spectra_backend/internals/middlewares"
)

var startTime time.Time

type Deps struct {
	Config   *configs.Config
	DB       *gorm.DB
	Upstream *upstream.Client
	Cache    cache.Cache
	Pictures service.PictureArchiver
	Log      *zap.Logger
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB, d.Config)

	d.Log.Info("mounting student routes")
	api := app.Group("/api", middlewares.GlobalRateLimiter())
	studentRoute.StudentRoutes(api, studentRoute.StudentDeps{
		DB:               d.DB,
		Upstream:         d.Upstream,
		Cache:            d.Cache,
		Pictures:         d.Pictures,
		DefaultProfileID: d.Config.Upstream.DefaultProfileID,
		Log:              d.Log,
	})
}
