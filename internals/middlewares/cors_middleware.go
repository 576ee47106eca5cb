package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"spectra_backend/internals/configs"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
}

// CorsMiddleware allows the frontend origins; CORS_ALLOW_ORIGINS overrides
// the defaults with a comma separated list.
func CorsMiddleware() fiber.Handler {
	origins := defaultOrigins
	if v := configs.GetEnv("CORS_ALLOW_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	})
}
