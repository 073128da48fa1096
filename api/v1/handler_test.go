// Package v1_test exercises the public API surface end to end through the
// mounted routes.
package v1_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/events"
	"portfolio/internal/testsupport"
)

func postEvent(t *testing.T, app *fiber.App, payload map[string]interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/x/api/v1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Test Agent)")
	req.Header.Set("X-Forwarded-For", "203.0.113.10")
	req.Header.Set("Sec-Fetch-Site", "cross-site") // Required for browser-only validation

	resp, err := app.Test(req, 30000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", string(raw))
	return body
}

func TestCreateEventPublicAPIHandler(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	app := testsupport.CreateMinimalTestApp(t, db)

	t.Run("accepts a valid event", func(t *testing.T) {
		resp := postEvent(t, app, map[string]interface{}{
			"eventType": events.EventTypePageView,
			"path":      "/about",
			"visitorId": "visitor-1",
			"referrer":  "https://github.com/",
			"device":    "desktop",
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Event added successfully", body["message"])
		assert.Equal(t, false, body["deduplicated"])
		assert.NotNil(t, body["id"])

		count, err := events.CountEvents(db)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("suppresses a same-day duplicate but still answers 202", func(t *testing.T) {
		resp := postEvent(t, app, map[string]interface{}{
			"eventType": events.EventTypePageView,
			"path":      "/about",
			"visitorId": "visitor-1",
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["deduplicated"])
		assert.Nil(t, body["id"])

		count, err := events.CountEvents(db)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "the duplicate must not be stored")
	})

	t.Run("classifies device from viewport width when absent", func(t *testing.T) {
		resp := postEvent(t, app, map[string]interface{}{
			"eventType":     events.EventTypePageView,
			"path":          "/blog",
			"visitorId":     "visitor-2",
			"viewportWidth": 390,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		var stored events.Event
		require.NoError(t, db.Where("visitor_id = ?", "visitor-2").First(&stored).Error)
		assert.Equal(t, events.DeviceMobile, stored.Device)
	})

	t.Run("lifts campaign parameters from the landing URL", func(t *testing.T) {
		resp := postEvent(t, app, map[string]interface{}{
			"eventType": events.EventTypePageView,
			"path":      "/launch",
			"visitorId": "visitor-3",
			"url":       "https://example.com/launch?utm_source=newsletter&utm_medium=email",
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		var stored events.Event
		require.NoError(t, db.Where("visitor_id = ?", "visitor-3").First(&stored).Error)
		assert.Equal(t, "newsletter", stored.UTMSource)
		assert.Equal(t, "email", stored.UTMMedium)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		resp := postEvent(t, app, map[string]interface{}{
			"path": "/about",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		resp = postEvent(t, app, map[string]interface{}{
			"eventType": events.EventTypePageView,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/x/api/v1/events", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Sec-Fetch-Site", "cross-site") // Required for browser-only validation

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
