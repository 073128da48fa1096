package v1

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/projects"
)

// ListProjectsPublicAPIHandler serves the catalog in display order for the
// public site to render.
func ListProjectsPublicAPIHandler(ctx *cartridge.Context) error {
	catalog, err := projects.GetAllProjects(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to fetch projects", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch projects",
		})
	}

	return ctx.JSON(fiber.Map{"projects": catalog})
}
