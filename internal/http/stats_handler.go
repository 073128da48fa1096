package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/analytics"
	"portfolio/internal/geo"
)

const topCountriesLimit = 50

func statsError(ctx *cartridge.Context, operation string, err error) error {
	ctx.Logger.Error("Stats query failed",
		slog.String("operation", operation),
		slog.Any("error", err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to compute " + operation,
	})
}

// StatsSummaryAction serves the composite dashboard payload.
func StatsSummaryAction(ctx *cartridge.Context) error {
	summary, err := analytics.GetSummary(ctx.Context(), ctx.DB(), ctx.Logger)
	if err != nil {
		return statsError(ctx, "summary", err)
	}
	return ctx.JSON(summary)
}

// SiteViewsAction serves the total pageview count and the per-path map.
func SiteViewsAction(ctx *cartridge.Context) error {
	views, err := analytics.GetSiteViews(ctx.DB())
	if err != nil {
		return statsError(ctx, "site views", err)
	}
	return ctx.JSON(views)
}

// ProjectViewsAction serves project_view counts per catalog project.
func ProjectViewsAction(ctx *cartridge.Context) error {
	views, err := analytics.GetViewsByProject(ctx.DB())
	if err != nil {
		return statsError(ctx, "project views", err)
	}
	return ctx.JSON(fiber.Map{"projects": views})
}

// LiveClicksAction serves live_click counts per catalog project.
func LiveClicksAction(ctx *cartridge.Context) error {
	clicks, err := analytics.GetLiveClicksByProject(ctx.DB())
	if err != nil {
		return statsError(ctx, "live clicks", err)
	}
	return ctx.JSON(fiber.Map{"projects": clicks})
}

// TrafficSourcesAction serves the referrer and UTM source breakdowns.
func TrafficSourcesAction(ctx *cartridge.Context) error {
	sources, err := analytics.GetTrafficSources(ctx.DB())
	if err != nil {
		return statsError(ctx, "traffic sources", err)
	}
	return ctx.JSON(sources)
}

// DevicesAction serves the four-bucket device breakdown.
func DevicesAction(ctx *cartridge.Context) error {
	breakdown, err := analytics.GetDeviceBreakdown(ctx.DB())
	if err != nil {
		return statsError(ctx, "device breakdown", err)
	}
	return ctx.JSON(breakdown)
}

type countryStat struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// CountriesAction serves pageview counts by country with display names
// resolved from the ISO codes stored at ingestion.
func CountriesAction(ctx *cartridge.Context) error {
	counts, err := analytics.GetTopCountries(ctx.DB(), topCountriesLimit)
	if err != nil {
		return statsError(ctx, "countries", err)
	}

	results := make([]countryStat, len(counts))
	for i, row := range counts {
		results[i] = countryStat{
			Code:  row.Name,
			Name:  geo.CountryName(row.Name),
			Count: row.Count,
		}
	}
	return ctx.JSON(fiber.Map{"countries": results})
}
