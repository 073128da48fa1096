package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/analytics"
	"portfolio/internal/events"
	"portfolio/internal/testsupport"
)

func TestGetOverview(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	seed := []struct {
		eventType string
		path      string
	}{
		{events.EventTypePageView, "/"},
		{events.EventTypePageView, "/"},
		{events.EventTypePageView, "/about"},
		{events.EventTypeProjectView, "/projects"},
		{events.EventTypeProjectView, "/projects"},
		{events.EventTypeLiveClick, "/projects"},
	}
	for i, s := range seed {
		testsupport.CreateTestEvent(t, db, events.Event{
			EventType: s.eventType,
			Path:      s.path,
			VisitorID: fmt.Sprintf("visitor-%d", i),
			Timestamp: seedTime.Add(time.Duration(i) * time.Minute).UnixMilli(),
		})
	}

	overview, err := analytics.GetOverview(db)
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.TotalPageViews)
	assert.Equal(t, int64(2), overview.TotalProjectViews)
	assert.Equal(t, int64(1), overview.TotalLiveClicks)
	assert.Equal(t, int64(2), overview.UniquePaths, "unique paths count pageviews only")
}

func TestGetSummary(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	testsupport.CreateTestProject(t, db, "project-a", "Terminal Dashboard", 1)

	// 12 distinct paths so the popular pages list has to truncate, and 6
	// distinct referrers so the referrer list does too.
	for i := 0; i < 12; i++ {
		testsupport.CreateTestEvent(t, db, events.Event{
			EventType: events.EventTypePageView,
			Path:      fmt.Sprintf("/page-%02d", i),
			VisitorID: fmt.Sprintf("visitor-%d", i),
			Referrer:  fmt.Sprintf("https://ref-%d.example.com/", i%6),
			Device:    events.DeviceDesktop,
			Timestamp: seedTime.Add(time.Duration(i) * time.Minute).UnixMilli(),
		})
	}
	testsupport.CreateTestEvent(t, db, events.Event{
		EventType: events.EventTypePageView,
		Path:      "/weird",
		VisitorID: "visitor-x",
		Device:    "fridge",
		Timestamp: seedTime.UnixMilli(),
	})
	testsupport.CreateTestEvent(t, db, events.Event{
		EventType: events.EventTypeProjectView,
		Path:      "/projects",
		VisitorID: "visitor-x",
		ProjectID: "project-a",
		Timestamp: seedTime.UnixMilli(),
	})

	summary, err := analytics.GetSummary(context.Background(), db, logger)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, int64(13), summary.Overview.TotalPageViews)
	assert.Equal(t, int64(1), summary.Overview.TotalProjectViews)
	assert.Len(t, summary.PopularPages, 10)
	assert.Len(t, summary.TopReferrers, 5)

	require.Len(t, summary.ProjectStats, 1)
	assert.Equal(t, int64(1), summary.ProjectStats[0].Views)

	// The summary device shape drops the Other bucket; the fridge pageview
	// still counts in the overview but not here.
	assert.Equal(t, analytics.DeviceSummary{Desktop: 12}, summary.Devices)
}

// Rollups are pure reads, so recomputing over an unchanged log must give
// identical results.
func TestGetSummaryIsIdempotent(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	testsupport.CreateTestProject(t, db, "project-a", "Terminal Dashboard", 1)
	for i := 0; i < 5; i++ {
		testsupport.CreateTestEvent(t, db, events.Event{
			EventType: events.EventTypePageView,
			Path:      "/",
			VisitorID: fmt.Sprintf("visitor-%d", i),
			Device:    events.DeviceMobile,
			Timestamp: seedTime.Add(time.Duration(i) * time.Minute).UnixMilli(),
		})
	}

	first, err := analytics.GetSummary(context.Background(), db, logger)
	require.NoError(t, err)
	second, err := analytics.GetSummary(context.Background(), db, logger)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetSummaryEmptyLog(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	summary, err := analytics.GetSummary(context.Background(), db, logger)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, analytics.Overview{}, summary.Overview)
	assert.Empty(t, summary.PopularPages)
	assert.Empty(t, summary.ProjectStats)
	assert.Equal(t, analytics.DeviceSummary{}, summary.Devices)
	assert.Empty(t, summary.TopReferrers)
}
