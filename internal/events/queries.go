package events

import (
	"gorm.io/gorm"
)

// EventFilters represents filtering options for the admin event-log view
type EventFilters struct {
	TypeFilter    string // one of the event type constants, or "" for all
	PathFilter    string
	VisitorFilter string
	ProjectFilter string
	Limit         int
	Offset        int
}

// EventsResult represents a paginated events result
type EventsResult struct {
	Events []Event
	Total  int64
}

// GetFilteredEvents retrieves filtered and paginated events, newest first
func GetFilteredEvents(db *gorm.DB, filters EventFilters) (EventsResult, error) {
	query := db.Model(&Event{})

	// Type filter rides the event_type index
	if filters.TypeFilter != "" {
		query = query.Where("event_type = ?", filters.TypeFilter)
	}

	if filters.PathFilter != "" {
		query = query.Where("path LIKE ?", "%"+filters.PathFilter+"%")
	}

	if filters.VisitorFilter != "" {
		query = query.Where("visitor_id LIKE ?", "%"+filters.VisitorFilter+"%")
	}

	if filters.ProjectFilter != "" {
		query = query.Where("project_id = ?", filters.ProjectFilter)
	}

	// Get total count for pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return EventsResult{}, err
	}

	var events []Event
	if err := query.Order("timestamp DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&events).Error; err != nil {
		return EventsResult{}, err
	}

	return EventsResult{
		Events: events,
		Total:  total,
	}, nil
}

// CountEvents returns the total number of events in the log
func CountEvents(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Event{}).Count(&count).Error
	return count, err
}
