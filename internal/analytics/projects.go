package analytics

import (
	"gorm.io/gorm"

	"portfolio/internal/events"
)

// GetViewsByProject counts project_view events per catalog project. Every
// known project appears exactly once, zero-view projects included. Ordered
// by views descending; ties keep catalog display order. Events whose
// project_id matches no catalog entry are excluded, not null-keyed.
func GetViewsByProject(db *gorm.DB) ([]ProjectViews, error) {
	var results []ProjectViews

	query := `
		SELECT
			p.id AS id,
			p.title AS title,
			COUNT(e.id) AS views
		FROM projects p
		LEFT JOIN events e ON e.project_id = p.id AND e.event_type = ?
		GROUP BY p.id, p.title, p.position, p.created_at
		ORDER BY views DESC, p.position ASC, p.created_at ASC
	`

	err := db.Raw(query, events.EventTypeProjectView).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetLiveClicksByProject counts live_click events per catalog project, with
// the same join and ordering semantics as GetViewsByProject.
func GetLiveClicksByProject(db *gorm.DB) ([]ProjectClicks, error) {
	var results []ProjectClicks

	query := `
		SELECT
			p.id AS id,
			p.title AS title,
			COUNT(e.id) AS clicks
		FROM projects p
		LEFT JOIN events e ON e.project_id = p.id AND e.event_type = ?
		GROUP BY p.id, p.title, p.position, p.created_at
		ORDER BY clicks DESC, p.position ASC, p.created_at ASC
	`

	err := db.Raw(query, events.EventTypeLiveClick).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// ProjectStat bundles both per-project metrics for the dashboard summary.
type ProjectStat struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Views  int64  `json:"views"`
	Clicks int64  `json:"clicks"`
}

// GetProjectStats returns views and clicks per project in one pass, sorted
// by views descending with catalog order as the tie-break.
func GetProjectStats(db *gorm.DB) ([]ProjectStat, error) {
	var results []ProjectStat

	query := `
		SELECT
			p.id AS id,
			p.title AS title,
			COUNT(CASE WHEN e.event_type = ? THEN 1 END) AS views,
			COUNT(CASE WHEN e.event_type = ? THEN 1 END) AS clicks
		FROM projects p
		LEFT JOIN events e ON e.project_id = p.id AND e.event_type IN (?, ?)
		GROUP BY p.id, p.title, p.position, p.created_at
		ORDER BY views DESC, p.position ASC, p.created_at ASC
	`

	err := db.Raw(query,
		events.EventTypeProjectView,
		events.EventTypeLiveClick,
		events.EventTypeProjectView,
		events.EventTypeLiveClick,
	).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}
