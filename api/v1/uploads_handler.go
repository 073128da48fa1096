package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/config"
	"portfolio/internal/uploads"
)

// PutUploadPublicAPIHandler receives the bytes for a previously issued
// upload grant. The endpoint is public but useless without a live token
// bound to the key in the path.
func PutUploadPublicAPIHandler(ctx *cartridge.Context) error {
	cfg := config.GetConfig()
	key := ctx.Params("key")
	token := ctx.Query("token")

	if err := uploads.ValidateToken(cfg.GetSessionSecret(), key, token); err != nil {
		ctx.Logger.Debug("Rejected upload token", slog.String("key", key))
		return ctx.Status(http.StatusForbidden).JSON(fiber.Map{
			"error": "Invalid or expired upload token",
		})
	}

	if err := uploads.Save(cfg.UploadsDirectory, key, ctx.Body()); err != nil {
		if errors.Is(err, uploads.ErrInvalidKey) {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid upload key",
			})
		}
		ctx.Logger.Error("Failed to store upload",
			slog.String("key", key),
			slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store upload",
		})
	}

	return ctx.Status(http.StatusCreated).JSON(fiber.Map{"key": key})
}
