package api

import (
	"sliplens/docs"
	"sliplens/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupRouter builds the fiber application with the service middleware
// stack and routes.
func SetupRouter(slipHandler *handlers.SlipHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		// Slip archives arrive as one multipart upload.
		BodyLimit: 64 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // importing docs registers the spec via init()
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hello World"})
	})

	api := app.Group("/api/v1")
	slips := api.Group("/slips")
	slips.Post("/extract", slipHandler.ExtractSlips)

	return app
}
