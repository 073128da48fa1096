package http

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/events"
)

const eventsPerPage = 50

type PaginationData struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PerPage     int   `json:"per_page"`
}

type EventsResponse struct {
	Events     []events.Event `json:"events"`
	Pagination PaginationData `json:"pagination"`
}

// EventsIndexAction serves the raw event log, filtered and paginated, for
// the admin inspector.
func EventsIndexAction(ctx *cartridge.Context) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	result, err := events.GetFilteredEvents(ctx.DB(), events.EventFilters{
		TypeFilter:    ctx.Query("type", ""),
		PathFilter:    ctx.Query("path", ""),
		VisitorFilter: ctx.Query("visitor", ""),
		ProjectFilter: ctx.Query("project", ""),
		Limit:         eventsPerPage,
		Offset:        (page - 1) * eventsPerPage,
	})
	if err != nil {
		ctx.Logger.Error("Failed to fetch events", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch events",
		})
	}

	totalPages := (int(result.Total) + eventsPerPage - 1) / eventsPerPage

	return ctx.JSON(EventsResponse{
		Events: result.Events,
		Pagination: PaginationData{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  result.Total,
			PerPage:     eventsPerPage,
		},
	})
}

// ClearEventsAction erases the entire event log. Development mode always
// permits it; otherwise the caller must resolve to an identity that passes
// one of the admin predicates. Nothing is deleted on rejection.
func ClearEventsAction(ctx *cartridge.Context) error {
	cfg := config.GetConfig()
	identity := resolveIdentity(ctx)

	if err := newAuthorizer(cfg).AuthorizeAdmin(identity); err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}
		email := ""
		if identity != nil {
			email = identity.Email
		}
		ctx.Logger.Warn("Rejected event log clear", slog.String("email", email))
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "not admin",
		})
	}

	deleted, err := events.ClearAllEvents(ctx.DBManager, ctx.Logger)
	if err != nil {
		ctx.Logger.Error("Failed to clear events", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear events",
		})
	}

	email := ""
	if identity != nil {
		email = identity.Email
	}
	ctx.Logger.Info("Event log cleared",
		slog.Int64("deleted", deleted),
		slog.String("email", email),
		slog.Bool("development", cfg.IsDevelopment()))

	return ctx.JSON(fiber.Map{"deleted": deleted})
}
