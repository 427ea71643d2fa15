package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "resumeflow/ingest-gateway/docs"
	"resumeflow/ingest-gateway/middleware"
	"resumeflow/ingest-gateway/utils"
)

// WebhookPath is where the SNS subscription delivers.
const WebhookPath = "/api/v1/webhooks/sns"

// AppConfig tunes the fiber application.
type AppConfig struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CORSOrigins is passed to the cors middleware; empty disables it.
	CORSOrigins string
}

// NewApp builds the fiber application with every route registered.
func NewApp(h *ApplicationHandler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(h.Logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(h.Logger))
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: "GET,POST",
			AllowHeaders: "Origin, Content-Type, Accept",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Ingest gateway is healthy",
		})
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/webhooks/sns", h.WebhookStatus)
	apiV1.Post("/webhooks/sns", h.SNSWebhook)
	apiV1.Get("/jobs/:jobId", h.GetJobStatus)

	return app
}

// ErrorHandler renders errors that escape a handler in the standard error
// shape.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.WithField("request_id", middleware.RequestID(c)).WithError(err).Error("Unhandled error")
		}
		return utils.RespondWithError(c, code, message)
	}
}
