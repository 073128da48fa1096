// Package visitors holds the server-side halves of the tracker contract:
// the viewport device classifier and UTM extraction. Visitor identifiers
// are minted client-side only; submissions without one are accepted as-is
// and never deduplicated.
package visitors

import "net/url"

// Viewport width thresholds, in CSS pixels, mirrored in tracker.js.
const (
	mobileMaxWidth = 768
	tabletMaxWidth = 1024
)

// DeviceFromViewportWidth buckets a reported viewport width. Widths at or
// below 768 are mobile, at or below 1024 tablet, anything wider desktop.
// Non-positive widths classify as "other".
func DeviceFromViewportWidth(width int) string {
	switch {
	case width <= 0:
		return "other"
	case width <= mobileMaxWidth:
		return "mobile"
	case width <= tabletMaxWidth:
		return "tablet"
	default:
		return "desktop"
	}
}

// UTM carries the campaign parameters lifted from a landing URL.
type UTM struct {
	Source   string
	Medium   string
	Campaign string
}

// ExtractUTM pulls utm_source, utm_medium and utm_campaign out of a raw URL.
// An unparseable URL yields the zero value; tracking parameters are best
// effort, never an error.
func ExtractUTM(rawURL string) UTM {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return UTM{}
	}

	query := parsed.Query()
	return UTM{
		Source:   query.Get("utm_source"),
		Medium:   query.Get("utm_medium"),
		Campaign: query.Get("utm_campaign"),
	}
}
