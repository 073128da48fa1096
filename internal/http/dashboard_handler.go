package http

import (
	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/inertia"
	"github.com/karloscodes/cartridge/structs"

	"portfolio/internal/analytics"
	"portfolio/internal/messages"
)

// DashboardPageAction renders the admin dashboard shell with the composite
// stats payload as initial props; subsequent refreshes hit the JSON API.
func DashboardPageAction(ctx *cartridge.Context) error {
	summary, err := analytics.GetSummary(ctx.Context(), ctx.DB(), ctx.Logger)
	if err != nil {
		ctx.Logger.Error("Failed to compute dashboard summary", slog.Any("error", err))
		// Render with empty props; the page shows its loading/error state
		return inertia.RenderPage(ctx.Ctx, "Dashboard", inertia.Props{})
	}

	props := structs.Map(*summary)

	unread, err := messages.CountUnread(ctx.DB())
	if err != nil {
		ctx.Logger.Warn("Failed to count unread messages", slog.Any("error", err))
	} else {
		props["unread_messages"] = unread
	}

	return inertia.RenderPage(ctx.Ctx, "Dashboard", props)
}
