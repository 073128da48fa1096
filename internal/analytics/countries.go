package analytics

import (
	"gorm.io/gorm"

	"portfolio/internal/events"
)

// GetTopCountries tallies pageviews by the country code attached at
// ingestion, descending. Events without a resolved country are excluded
// from the breakdown, consistent with the other optional-field groupings.
func GetTopCountries(db *gorm.DB, limit int) ([]NameCount, error) {
	var results []NameCount

	query := `
		SELECT
			country AS name,
			COUNT(*) AS count
		FROM events
		WHERE event_type = ?
		AND country IS NOT NULL
		AND country != ''
		GROUP BY country
		ORDER BY count DESC
		LIMIT ?
	`

	err := db.Raw(query, events.EventTypePageView, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}
