package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/testsupport"
)

func TestHealthIndexAction(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	app := testsupport.CreateMinimalTestApp(t, db)

	req := httptest.NewRequest("GET", "/_health", nil)
	resp, err := app.Test(req, 30000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status        string `json:"status"`
		DBStatus      string `json:"db_status"`
		UptimeSeconds int64  `json:"uptime_seconds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.DBStatus)
	assert.GreaterOrEqual(t, body.UptimeSeconds, int64(0))
}
