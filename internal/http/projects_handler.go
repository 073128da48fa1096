package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/projects"
)

type projectParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LiveURL     string `json:"live_url"`
	RepoURL     string `json:"repo_url"`
	ImageKey    string `json:"image_key"`
	Tags        string `json:"tags"`
	Position    int    `json:"position"`
}

// ProjectsIndexAction lists the catalog for the admin editor.
func ProjectsIndexAction(ctx *cartridge.Context) error {
	catalog, err := projects.GetAllProjects(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to fetch projects", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch projects",
		})
	}
	return ctx.JSON(fiber.Map{"projects": catalog})
}

// ProjectsCreateAction adds a catalog entry.
func ProjectsCreateAction(ctx *cartridge.Context) error {
	var params projectParams
	if err := ctx.BodyParser(&params); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}

	project := &projects.Project{
		Title:       params.Title,
		Description: params.Description,
		LiveURL:     params.LiveURL,
		RepoURL:     params.RepoURL,
		ImageKey:    params.ImageKey,
		Tags:        params.Tags,
		Position:    params.Position,
	}

	if err := projects.CreateProject(ctx.DB(), ctx.Logger, project); err != nil {
		ctx.Logger.Error("Failed to create project", slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(project)
}

// ProjectsUpdateAction edits a catalog entry in place.
func ProjectsUpdateAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")

	existing, err := projects.GetProjectByID(ctx.DB(), id)
	if err != nil {
		return projectError(ctx, id, err)
	}

	var params projectParams
	if err := ctx.BodyParser(&params); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request",
		})
	}

	existing.Title = params.Title
	existing.Description = params.Description
	existing.LiveURL = params.LiveURL
	existing.RepoURL = params.RepoURL
	existing.ImageKey = params.ImageKey
	existing.Tags = params.Tags
	if params.Position != 0 {
		existing.Position = params.Position
	}

	if err := projects.UpdateProject(ctx.DB(), ctx.Logger, existing); err != nil {
		ctx.Logger.Error("Failed to update project",
			slog.String("id", id),
			slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return ctx.JSON(existing)
}

// ProjectsDeleteAction removes a catalog entry. Its historical events keep
// their project_id and silently drop out of the per-project rollups.
func ProjectsDeleteAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")

	if err := projects.DeleteProject(ctx.DB(), ctx.Logger, id); err != nil {
		return projectError(ctx, id, err)
	}

	return ctx.JSON(fiber.Map{"deleted": id})
}

func projectError(ctx *cartridge.Context, id string, err error) error {
	var notFound *projects.ProjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	ctx.Logger.Error("Project operation failed",
		slog.String("id", id),
		slog.Any("error", err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Project operation failed",
	})
}
