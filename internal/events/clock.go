package events

import "time"

// Clock supplies the ingestion timestamp. The dedup check compares calendar
// days, so tests inject a fixed clock instead of depending on wall-clock
// midnight boundaries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall clock used outside tests.
var SystemClock Clock = systemClock{}

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

// ISODate truncates a ms-epoch timestamp to its UTC calendar date
// (e.g. "2026-08-31"). The same conversion is applied to the incoming event
// and to every historical timestamp it is compared against.
func ISODate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
