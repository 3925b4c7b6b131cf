package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger логирует запросы с тегом сервиса, как это делают обработчики ([PLANS] и т.д.).
// Запросы проб и метрик не логируются.
func Logger(tag string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] [" + tag + "] ${status} - ${latency} ${method} ${path} ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
		Next: func(c fiber.Ctx) bool {
			p := c.Path()
			return p == "/metrics" || p == "/health/live" || p == "/health/ready"
		},
	})
}
