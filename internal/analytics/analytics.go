// Package analytics computes read-only rollups over the event log. Every
// operation is an exact, all-time tally at query time: no sampling, no time
// windowing, no mutation.
package analytics

// NameCount is a generic grouped tally, used for paths, referrers, UTM
// sources and countries.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// SiteViews totals pageview events and breaks them down by path.
type SiteViews struct {
	Total  int64            `json:"total"`
	ByPath map[string]int64 `json:"byPath"`
}

// ProjectViews is the per-project project_view tally, joined against the
// catalog for the human-readable title.
type ProjectViews struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// ProjectClicks is the per-project live_click tally.
type ProjectClicks struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Clicks int64  `json:"clicks"`
}

// TrafficSources carries the two parallel acquisition breakdowns.
type TrafficSources struct {
	Referrers  []NameCount `json:"referrers"`
	UTMSources []NameCount `json:"utmSources"`
}

// DeviceBreakdown counts pageviews by device class. Other catches any event
// whose device value is absent or not one of the three known classes, so the
// four buckets always sum to the pageview total.
type DeviceBreakdown struct {
	Desktop int64 `json:"desktop"`
	Tablet  int64 `json:"tablet"`
	Mobile  int64 `json:"mobile"`
	Other   int64 `json:"other"`
}
