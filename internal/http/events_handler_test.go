package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/events"
	"portfolio/internal/testsupport"
)

func seedEventLog(t *testing.T, db *gorm.DB, n int) {
	t.Helper()

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		testsupport.CreateTestEvent(t, db, events.Event{
			EventType: events.EventTypePageView,
			Path:      "/",
			VisitorID: "visitor-1",
			Timestamp: base.Add(time.Duration(i) * time.Minute).UnixMilli(),
		})
	}
}

func bearerToken(t *testing.T, identity auth.Identity) string {
	t.Helper()

	token, err := auth.IssueToken(config.GetConfig().GetSessionSecret(), identity, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestClearEventsActionAuthorization(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	app := testsupport.CreateMinimalTestApp(t, db)

	seedEventLog(t, db, 3)

	t.Run("anonymous caller gets 401 and deletes nothing", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/admin/api/events", nil)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "not authenticated", body["error"])

		count, err := events.CountEvents(db)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("forged bearer token gets 401", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/admin/api/events", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("authenticated non-admin gets 403 and deletes nothing", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/admin/api/events", nil)
		req.Header.Set("Authorization", bearerToken(t, auth.Identity{Email: "viewer@example.com"}))
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "not admin", body["error"])

		count, err := events.CountEvents(db)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count, "a rejected clear must leave the log unchanged")
	})

	t.Run("admin role claim clears the log and reports the count", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/admin/api/events", nil)
		req.Header.Set("Authorization", bearerToken(t, auth.Identity{
			Email: "owner@example.com",
			Roles: []string{"admin"},
		}))
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]int64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(3), body["deleted"])

		count, err := events.CountEvents(db)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("clearing the now-empty log reports zero", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/admin/api/events", nil)
		req.Header.Set("Authorization", bearerToken(t, auth.Identity{
			Email: "owner@example.com",
			Roles: []string{"admin"},
		}))
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]int64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Zero(t, body["deleted"])
	})
}

func TestClearEventsActionDevelopmentMode(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	app := testsupport.CreateDevelopmentTestApp(t, db)

	seedEventLog(t, db, 2)

	// Local development has no login flow; clearing from the dashboard
	// works without credentials.
	req := httptest.NewRequest("DELETE", "/admin/api/events", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	resp, err := app.Test(req, 30000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body["deleted"])

	count, err := events.CountEvents(db)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEventsIndexAction(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	app := testsupport.CreateMinimalTestApp(t, db)

	seedEventLog(t, db, 5)

	t.Run("requires authentication", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/api/events", nil)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("returns the paginated log for a bearer caller", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/api/events", nil)
		req.Header.Set("Authorization", bearerToken(t, auth.Identity{Email: "viewer@example.com"}))
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Events     []events.Event `json:"events"`
			Pagination struct {
				CurrentPage int   `json:"current_page"`
				TotalPages  int   `json:"total_pages"`
				TotalItems  int64 `json:"total_items"`
				PerPage     int   `json:"per_page"`
			} `json:"pagination"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		assert.Len(t, body.Events, 5)
		assert.Equal(t, int64(5), body.Pagination.TotalItems)
		assert.Equal(t, 1, body.Pagination.CurrentPage)
		assert.Equal(t, 50, body.Pagination.PerPage)
	})
}
