package events

import "time"

// Event types accepted by ingestion. Closed enumeration on the write path;
// unknown values are stored as opaque strings and simply match no rollup
// bucket downstream.
const (
	EventTypePageView    = "pageview"
	EventTypeProjectView = "project_view"
	EventTypeLiveClick   = "live_click"
)

// Device classes reported by the tracker (viewport-width based, not UA based).
const (
	DeviceDesktop = "desktop"
	DeviceTablet  = "tablet"
	DeviceMobile  = "mobile"
	DeviceOther   = "other"
)

// Event is a single recorded visitor interaction in the append-only log.
// Records are never updated; the only delete path is the administrative
// clear, which erases the whole log.
type Event struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	EventType   string `gorm:"index;index:idx_visitor_type_path,priority:2;not null"`
	Path        string `gorm:"index:idx_visitor_type_path,priority:3;not null"`
	VisitorID   string `gorm:"index:idx_visitor_type_path,priority:1"`
	ProjectID   string
	Referrer    string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	Device      string
	Country     string
	Timestamp   int64 `gorm:"not null"` // milliseconds since epoch, server-assigned at ingestion
	CreatedAt   time.Time
}

// KnownEventType reports whether t is one of the closed event-type values.
func KnownEventType(t string) bool {
	switch t {
	case EventTypePageView, EventTypeProjectView, EventTypeLiveClick:
		return true
	}
	return false
}
