package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"portfolio/internal/events"
	"portfolio/internal/pkg/async"
)

const (
	topPagesLimit     = 10
	topReferrersLimit = 5
	summaryWorkers    = 4
)

// Overview carries the headline totals for the dashboard.
type Overview struct {
	TotalPageViews    int64 `json:"totalPageViews"`
	TotalProjectViews int64 `json:"totalProjectViews"`
	TotalLiveClicks   int64 `json:"totalLiveClicks"`
	UniquePaths       int64 `json:"uniquePaths"`
}

// DeviceSummary is the three-bucket device shape the dashboard renders;
// unlike DeviceBreakdown it omits the Other catch-all.
type DeviceSummary struct {
	Desktop int64 `json:"desktop"`
	Tablet  int64 `json:"tablet"`
	Mobile  int64 `json:"mobile"`
}

// Summary is the composite single-round-trip dashboard payload.
type Summary struct {
	Overview     Overview      `json:"overview"`
	PopularPages []NameCount   `json:"popularPages"`
	ProjectStats []ProjectStat `json:"projectStats"`
	Devices      DeviceSummary `json:"devices"`
	TopReferrers []NameCount   `json:"topReferrers"`
}

// GetOverview computes the headline totals in two scans.
func GetOverview(db *gorm.DB) (Overview, error) {
	var overview Overview

	query := `
		SELECT
			COUNT(CASE WHEN event_type = ? THEN 1 END) AS total_page_views,
			COUNT(CASE WHEN event_type = ? THEN 1 END) AS total_project_views,
			COUNT(CASE WHEN event_type = ? THEN 1 END) AS total_live_clicks
		FROM events
	`

	err := db.Raw(query,
		events.EventTypePageView,
		events.EventTypeProjectView,
		events.EventTypeLiveClick,
	).Scan(&overview).Error
	if err != nil {
		return Overview{}, err
	}

	uniquePaths, err := CountUniquePaths(db)
	if err != nil {
		return Overview{}, err
	}
	overview.UniquePaths = uniquePaths

	return overview, nil
}

// GetSummary fans the dashboard rollups out over a small worker pool and
// composes the result. Concurrent ingestion during the scans may or may not
// be reflected; that is acceptable for a dashboard load.
func GetSummary(ctx context.Context, db *gorm.DB, logger *slog.Logger) (*Summary, error) {
	tasks := []async.Task{
		{
			Name: "overview",
			Execute: func() (interface{}, error) {
				return GetOverview(db)
			},
		},
		{
			Name: "popularPages",
			Execute: func() (interface{}, error) {
				return GetPopularPages(db, topPagesLimit)
			},
		},
		{
			Name: "projectStats",
			Execute: func() (interface{}, error) {
				return GetProjectStats(db)
			},
		},
		{
			Name: "devices",
			Execute: func() (interface{}, error) {
				return GetDeviceBreakdown(db)
			},
		},
		{
			Name: "topReferrers",
			Execute: func() (interface{}, error) {
				return GetTopReferrers(db, topReferrersLimit)
			},
		},
	}

	pool := async.NewPool(summaryWorkers)
	results := pool.Execute(ctx, tasks)

	for name, result := range results {
		if result.Err != nil {
			logger.Error("Summary rollup failed",
				slog.String("rollup", name),
				slog.Any("error", result.Err))
			return nil, fmt.Errorf("summary rollup %s: %w", name, result.Err)
		}
	}
	if len(results) != len(tasks) {
		return nil, ctx.Err()
	}

	summary := &Summary{}
	if overview, ok := results["overview"].Data.(Overview); ok {
		summary.Overview = overview
	}
	if pages, ok := results["popularPages"].Data.([]NameCount); ok {
		summary.PopularPages = pages
	}
	if stats, ok := results["projectStats"].Data.([]ProjectStat); ok {
		summary.ProjectStats = stats
	}
	if breakdown, ok := results["devices"].Data.(DeviceBreakdown); ok {
		summary.Devices = DeviceSummary{
			Desktop: breakdown.Desktop,
			Tablet:  breakdown.Tablet,
			Mobile:  breakdown.Mobile,
		}
	}
	if referrers, ok := results["topReferrers"].Data.([]NameCount); ok {
		summary.TopReferrers = referrers
	}

	return summary, nil
}
