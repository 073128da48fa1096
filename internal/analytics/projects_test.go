package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio/internal/analytics"
	"portfolio/internal/events"
	"portfolio/internal/testsupport"
)

// seedCatalog creates three projects and a spread of interactions:
// project-a gets 3 views and 1 click, project-b 1 view and 2 clicks,
// project-c nothing at all.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	testsupport.CreateTestProject(t, db, "project-a", "Terminal Dashboard", 1)
	testsupport.CreateTestProject(t, db, "project-b", "Static Site Engine", 2)
	testsupport.CreateTestProject(t, db, "project-c", "Budget Tracker", 3)

	add := func(eventType, projectID string, n int) {
		for i := 0; i < n; i++ {
			testsupport.CreateTestEvent(t, db, events.Event{
				EventType: eventType,
				Path:      "/projects",
				VisitorID: "visitor-seed",
				ProjectID: projectID,
				Timestamp: seedTime.Add(time.Duration(i) * time.Minute).UnixMilli(),
			})
		}
	}

	add(events.EventTypeProjectView, "project-a", 3)
	add(events.EventTypeLiveClick, "project-a", 1)
	add(events.EventTypeProjectView, "project-b", 1)
	add(events.EventTypeLiveClick, "project-b", 2)

	// Events for a project that was later deleted from the catalog; these
	// must be excluded from every per-project rollup.
	add(events.EventTypeProjectView, "project-gone", 5)
}

func TestGetViewsByProject(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	seedCatalog(t, db)

	views, err := analytics.GetViewsByProject(db)
	require.NoError(t, err)

	// Every catalog project appears exactly once, zero-view ones included,
	// ordered by views descending with catalog position breaking ties.
	require.Len(t, views, 3)
	assert.Equal(t, analytics.ProjectViews{ID: "project-a", Title: "Terminal Dashboard", Views: 3}, views[0])
	assert.Equal(t, analytics.ProjectViews{ID: "project-b", Title: "Static Site Engine", Views: 1}, views[1])
	assert.Equal(t, analytics.ProjectViews{ID: "project-c", Title: "Budget Tracker", Views: 0}, views[2])
}

func TestGetLiveClicksByProject(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	seedCatalog(t, db)

	clicks, err := analytics.GetLiveClicksByProject(db)
	require.NoError(t, err)

	require.Len(t, clicks, 3)
	assert.Equal(t, analytics.ProjectClicks{ID: "project-b", Title: "Static Site Engine", Clicks: 2}, clicks[0])
	assert.Equal(t, analytics.ProjectClicks{ID: "project-a", Title: "Terminal Dashboard", Clicks: 1}, clicks[1])
	assert.Equal(t, analytics.ProjectClicks{ID: "project-c", Title: "Budget Tracker", Clicks: 0}, clicks[2])
}

func TestGetProjectStats(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	seedCatalog(t, db)

	stats, err := analytics.GetProjectStats(db)
	require.NoError(t, err)

	require.Len(t, stats, 3)
	assert.Equal(t, analytics.ProjectStat{ID: "project-a", Title: "Terminal Dashboard", Views: 3, Clicks: 1}, stats[0])
	assert.Equal(t, analytics.ProjectStat{ID: "project-b", Title: "Static Site Engine", Views: 1, Clicks: 2}, stats[1])
	assert.Equal(t, analytics.ProjectStat{ID: "project-c", Title: "Budget Tracker", Views: 0, Clicks: 0}, stats[2])
}

func TestProjectRollupsTieBreakOnCatalogOrder(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	// No events at all; every project ties at zero, so the output follows
	// the catalog display order.
	testsupport.CreateTestProject(t, db, "p-late", "Last", 3)
	testsupport.CreateTestProject(t, db, "p-first", "First", 1)
	testsupport.CreateTestProject(t, db, "p-mid", "Middle", 2)

	views, err := analytics.GetViewsByProject(db)
	require.NoError(t, err)

	require.Len(t, views, 3)
	assert.Equal(t, "p-first", views[0].ID)
	assert.Equal(t, "p-mid", views[1].ID)
	assert.Equal(t, "p-late", views[2].ID)
}
