package analytics

import (
	"gorm.io/gorm"

	"portfolio/internal/events"
)

// GetDeviceBreakdown counts pageview events into the four fixed device
// buckets. The grouping happens in SQL; the bucket mapping happens here so
// any malformed device string lands in Other instead of erroring.
func GetDeviceBreakdown(db *gorm.DB) (DeviceBreakdown, error) {
	var results []NameCount

	query := `
		SELECT
			device AS name,
			COUNT(*) AS count
		FROM events
		WHERE event_type = ?
		GROUP BY device
	`

	err := db.Raw(query, events.EventTypePageView).Scan(&results).Error
	if err != nil {
		return DeviceBreakdown{}, err
	}

	var breakdown DeviceBreakdown
	for _, row := range results {
		switch row.Name {
		case events.DeviceDesktop:
			breakdown.Desktop += row.Count
		case events.DeviceTablet:
			breakdown.Tablet += row.Count
		case events.DeviceMobile:
			breakdown.Mobile += row.Count
		default:
			breakdown.Other += row.Count
		}
	}

	return breakdown, nil
}
