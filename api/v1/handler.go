// Package v1 is the public, unauthenticated API surface: event ingestion,
// the project catalog, contact-form submission, the tracker script, and the
// signed upload sink.
package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/events"
	"portfolio/internal/geo"
	"portfolio/internal/visitors"
)

const (
	msgEventAdded     = "Event added successfully"
	errInvalidRequest = "Invalid request"
)

// CreateEventParams mirrors the tracker payload. Beyond field presence there
// is no validation; unknown eventType or device values are stored as opaque
// strings and simply never match an aggregation bucket.
type CreateEventParams struct {
	EventType     string `json:"eventType"`
	Path          string `json:"path"`
	VisitorID     string `json:"visitorId"`
	ProjectID     string `json:"projectId"`
	Referrer      string `json:"referrer"`
	UTMSource     string `json:"utmSource"`
	UTMMedium     string `json:"utmMedium"`
	UTMCampaign   string `json:"utmCampaign"`
	Device        string `json:"device"`
	ViewportWidth int    `json:"viewportWidth"`
	URL           string `json:"url"`
}

// CreateEventPublicAPIHandler ingests a tracker event. The timestamp is
// always server-assigned; a same-day duplicate for the same visitor, type
// and path is suppressed and still answered with 202.
func CreateEventPublicAPIHandler(ctx *cartridge.Context) error {
	var params CreateEventParams
	if err := ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse event request", slog.Any("error", err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": errInvalidRequest,
		})
	}

	if params.EventType == "" || params.Path == "" {
		return ctx.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "eventType and path are required",
		})
	}

	// Old tracker versions send a viewport width instead of a device class.
	if params.Device == "" && params.ViewportWidth > 0 {
		params.Device = visitors.DeviceFromViewportWidth(params.ViewportWidth)
	}

	// Same fallback for campaign parameters left inside the landing URL.
	if params.UTMSource == "" && params.URL != "" {
		utm := visitors.ExtractUTM(params.URL)
		params.UTMSource = utm.Source
		if params.UTMMedium == "" {
			params.UTMMedium = utm.Medium
		}
		if params.UTMCampaign == "" {
			params.UTMCampaign = utm.Campaign
		}
	}

	input := &events.RecordEventInput{
		EventType:   params.EventType,
		Path:        params.Path,
		VisitorID:   params.VisitorID,
		ProjectID:   params.ProjectID,
		Referrer:    params.Referrer,
		UTMSource:   params.UTMSource,
		UTMMedium:   params.UTMMedium,
		UTMCampaign: params.UTMCampaign,
		Device:      params.Device,
		Country:     geo.CountryFromIP(getClientIP(ctx.Ctx)),
	}

	result, err := events.RecordEvent(ctx.DBManager, ctx.Logger, events.SystemClock, input)
	if err != nil {
		ctx.Logger.Error("Failed to record event", slog.Any("error", err))
		if strings.Contains(err.Error(), "database is locked") || strings.Contains(err.Error(), "busy") {
			return ctx.Status(599).JSON(fiber.Map{})
		}
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record event",
			"code":  "RECORD_ERROR",
		})
	}

	if result.Deduplicated {
		ctx.Logger.Debug("Suppressed duplicate event",
			slog.String("eventType", params.EventType),
			slog.String("path", params.Path))
		return ctx.Status(http.StatusAccepted).JSON(fiber.Map{
			"message":      "Duplicate suppressed",
			"status":       http.StatusAccepted,
			"id":           nil,
			"deduplicated": true,
		})
	}

	return ctx.Status(http.StatusAccepted).JSON(fiber.Map{
		"message":      msgEventAdded,
		"status":       http.StatusAccepted,
		"id":           result.EventID,
		"deduplicated": false,
	})
}
