package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/config"
	"portfolio/internal/uploads"
)

type uploadGrantParams struct {
	ContentType string `json:"content_type"`
}

// UploadGrantAction issues a signed, short-lived upload slot for a project
// image. The client then PUTs the bytes to the public upload endpoint with
// the returned key and token.
func UploadGrantAction(ctx *cartridge.Context) error {
	var params uploadGrantParams
	if err := ctx.BodyParser(&params); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}

	cfg := config.GetConfig()
	ttl := time.Duration(cfg.UploadTokenTTLSeconds) * time.Second

	grant, err := uploads.IssueGrant(cfg.GetSessionSecret(), params.ContentType, ttl)
	if err != nil {
		ctx.Logger.Debug("Rejected upload grant request",
			slog.String("contentType", params.ContentType),
			slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(grant)
}
