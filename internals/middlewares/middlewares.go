package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"trekmandu_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware chain for every route.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
