package analytics

import (
	"gorm.io/gorm"

	"portfolio/internal/events"
)

// GetTopReferrers returns pageview referrer tallies, descending. Pageviews
// with an empty referrer are filtered out of this breakdown entirely rather
// than bucketed as "direct"; the fallback below only catches values that are
// falsy without being the empty string, matching the tracker contract.
func GetTopReferrers(db *gorm.DB, limit int) ([]NameCount, error) {
	var results []NameCount

	query := `
		SELECT
			CASE WHEN referrer IS NULL OR referrer = '' THEN 'direct' ELSE referrer END AS name,
			COUNT(*) AS count
		FROM events
		WHERE event_type = ?
		AND referrer IS NOT NULL
		AND referrer != ''
		GROUP BY name
		ORDER BY count DESC
		LIMIT ?
	`

	err := db.Raw(query, events.EventTypePageView, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// GetTopUTMSources tallies utm_source across events of every type, since
// campaign parameters ride along on project views and clicks too.
func GetTopUTMSources(db *gorm.DB, limit int) ([]NameCount, error) {
	var results []NameCount

	query := `
		SELECT
			utm_source AS name,
			COUNT(*) AS count
		FROM events
		WHERE utm_source IS NOT NULL
		AND utm_source != ''
		GROUP BY utm_source
		ORDER BY count DESC
		LIMIT ?
	`

	err := db.Raw(query, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

const trafficSourcesLimit = 100

// GetTrafficSources composes the two acquisition breakdowns.
func GetTrafficSources(db *gorm.DB) (TrafficSources, error) {
	referrers, err := GetTopReferrers(db, trafficSourcesLimit)
	if err != nil {
		return TrafficSources{}, err
	}

	utmSources, err := GetTopUTMSources(db, trafficSourcesLimit)
	if err != nil {
		return TrafficSources{}, err
	}

	return TrafficSources{
		Referrers:  referrers,
		UTMSources: utmSources,
	}, nil
}
