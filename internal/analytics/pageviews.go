package analytics

import (
	"gorm.io/gorm"

	"portfolio/internal/events"
)

// GetSiteViews tallies all pageview events, total and grouped by path.
// Map iteration order is undefined; consumers re-sort as needed.
func GetSiteViews(db *gorm.DB) (SiteViews, error) {
	var results []NameCount

	query := `
		SELECT
			path AS name,
			COUNT(*) AS count
		FROM events
		WHERE event_type = ?
		GROUP BY path
	`

	err := db.Raw(query, events.EventTypePageView).Scan(&results).Error
	if err != nil {
		return SiteViews{}, err
	}

	views := SiteViews{ByPath: make(map[string]int64, len(results))}
	for _, row := range results {
		views.ByPath[row.Name] = row.Count
		views.Total += row.Count
	}

	return views, nil
}

// GetPopularPages returns the top pageview paths by count, descending.
func GetPopularPages(db *gorm.DB, limit int) ([]NameCount, error) {
	var results []NameCount

	query := `
		SELECT
			path AS name,
			COUNT(*) AS count
		FROM events
		WHERE event_type = ?
		GROUP BY path
		ORDER BY count DESC
		LIMIT ?
	`

	err := db.Raw(query, events.EventTypePageView, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// CountUniquePaths counts distinct paths across pageview events.
func CountUniquePaths(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Raw(`SELECT COUNT(DISTINCT path) FROM events WHERE event_type = ?`,
		events.EventTypePageView).Scan(&count).Error
	return count, err
}
