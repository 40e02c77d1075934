//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/query"
	"github.com/2beens/wearsync/internal/wearable/syncer"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) post(path string, body any, header http.Header) (int, []byte) {
	payload, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req, err := http.NewRequest(http.MethodPost, serverEndpoint+path, bytes.NewReader(payload))
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, respBody
}

func (s *IntegrationTestSuite) get(path string) (int, []byte) {
	resp, err := s.httpClient.Get(serverEndpoint + path)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, respBody
}

func (s *IntegrationTestSuite) connect(userID, accessToken, refreshToken string, expiresIn int) {
	status, body := s.post("/api/fitbit/connections", map[string]any{
		"user_id":             userID,
		"provider_account_id": gofakeit.UUID(),
		"display_name":        gofakeit.Name(),
		"access_token":        accessToken,
		"refresh_token":       refreshToken,
		"scope":               "activity heartrate sleep",
		"expires_in":          expiresIn,
	}, nil)
	require.Equal(s.T(), http.StatusCreated, status, string(body))
}

// waitForInitialSync waits for the sync started by a connection registration.
func (s *IntegrationTestSuite) waitForInitialSync(userID string, check func() bool) {
	require.Eventually(s.T(), check, 15*time.Second, 100*time.Millisecond, "initial sync of %s", userID)
}

func (s *IntegrationTestSuite) lastSyncAt(userID string) sql.NullTime {
	var lastSync sql.NullTime
	err := s.DB.QueryRow(
		"SELECT last_sync_at FROM wearable_connection WHERE user_id = $1 AND provider = 'fitbit'",
		userID,
	).Scan(&lastSync)
	require.NoError(s.T(), err)
	return lastSync
}

func (s *IntegrationTestSuite) isActive(userID string) bool {
	var active bool
	err := s.DB.QueryRow(
		"SELECT is_active FROM wearable_connection WHERE user_id = $1 AND provider = 'fitbit'",
		userID,
	).Scan(&active)
	require.NoError(s.T(), err)
	return active
}

func (s *IntegrationTestSuite) TestConnectSyncAndQuery() {
	t := s.T()
	ctx := context.Background()
	userID := "user-" + gofakeit.UUID()

	s.provider.steps.Store(8000)
	refreshesBefore := s.provider.refreshes.Load()

	// expired on arrival: the first sync has to refresh
	s.connect(userID, "A1", "R1", 0)
	s.waitForInitialSync(userID, func() bool { return s.lastSyncAt(userID).Valid })

	assert.Equal(t, refreshesBefore+1, s.provider.refreshes.Load())

	conn, err := s.stack.Connections.GetActive(ctx, userID, wearable.Fitbit)
	require.NoError(t, err)
	assert.Equal(t, fakeValidAccessToken, conn.AccessToken)
	assert.Equal(t, "R1", conn.RefreshToken, "refresh token kept when the response has none")
	assert.WithinDuration(t, time.Now().Add(time.Hour), conn.ExpiresAt, time.Minute)
	assert.Nil(t, conn.LastError)

	var storedAccessToken string
	require.NoError(t, s.DB.QueryRow(
		"SELECT access_token FROM wearable_connection WHERE user_id = $1 AND provider = 'fitbit'",
		userID,
	).Scan(&storedAccessToken))
	assert.NotEqual(t, fakeValidAccessToken, storedAccessToken, "tokens are sealed at rest")

	// second sync of the same day overwrites the row
	s.provider.steps.Store(8500)
	status, body := s.post("/api/fitbit/sync", map[string]string{"user_id": userID}, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var result syncer.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsSynced)
	assert.Equal(t, 1, result.DatesSynced)
	assert.Equal(t, syncer.MetricSynced, result.Metrics[wearable.KindActivity])
	assert.Equal(t, syncer.MetricSynced, result.Metrics[wearable.KindSleep])
	assert.Equal(t, syncer.MetricFailed, result.Metrics[wearable.KindHeartRate])

	var rows, steps int
	require.NoError(t, s.DB.QueryRow(
		"SELECT count(*), max(steps) FROM fitbit_daily_activity WHERE user_id = $1",
		userID,
	).Scan(&rows, &steps))
	assert.Equal(t, 1, rows)
	assert.Equal(t, 8500, steps)

	status, body = s.get(fmt.Sprintf("/api/fitbit/data?user_id=%s&days=3", userID))
	require.Equal(t, http.StatusOK, status, string(body))

	var data query.Result
	require.NoError(t, json.Unmarshal(body, &data))
	assert.True(t, data.Connected)
	require.NotNil(t, data.LastSync)
	require.Len(t, data.Records[wearable.KindActivity], 1)
	assert.Empty(t, data.Records[wearable.KindSleep])
	assert.Empty(t, data.Records[wearable.KindHeartRate])

	var activity struct {
		Date           string  `json:"date"`
		Steps          int     `json:"steps"`
		ActiveMinutes  int     `json:"active_minutes"`
		DistanceMeters float64 `json:"distance_meters"`
	}
	require.NoError(t, json.Unmarshal(data.Records[wearable.KindActivity][0], &activity))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), activity.Date)
	assert.Equal(t, 8500, activity.Steps)
	assert.Equal(t, 35, activity.ActiveMinutes)
	assert.InDelta(t, 6200.0, activity.DistanceMeters, 0.001)
}

func (s *IntegrationTestSuite) TestRevokedConnection() {
	t := s.T()
	userID := "user-" + gofakeit.UUID()

	s.connect(userID, "A1", fakeRevokedRefresh, 0)
	s.waitForInitialSync(userID, func() bool { return !s.isActive(userID) })

	assert.False(t, s.lastSyncAt(userID).Valid)

	status, body := s.post("/api/fitbit/sync", map[string]string{"user_id": userID}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success":false,"provider":"fitbit","sync_id":"`+syncIDOf(t, body)+`","error":"no active connection","records_synced":0,"dates_synced":0}`, string(body))

	status, body = s.get("/api/fitbit/data?user_id=" + userID)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"connected":false}`, string(body))

	status, body = s.post("/api/fitbit/disconnect", map[string]string{"user_id": userID}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success":true,"message":"not connected"}`, string(body))
}

func (s *IntegrationTestSuite) TestSyncAllAndDisconnect() {
	t := s.T()

	userIDs := []string{"user-" + gofakeit.UUID(), "user-" + gofakeit.UUID()}
	for _, userID := range userIDs {
		s.connect(userID, fakeValidAccessToken, "R1", 3600)
		s.waitForInitialSync(userID, func() bool { return s.lastSyncAt(userID).Valid })
	}

	status, _ := s.post("/api/fitbit/sync-all", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var active int
	require.NoError(t, s.DB.QueryRow(
		"SELECT count(*) FROM wearable_connection WHERE provider = 'fitbit' AND is_active",
	).Scan(&active))

	status, body := s.post("/api/fitbit/sync-all", nil, http.Header{
		"X-Wearsync-Secret": []string{testSyncAllSecret},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var batch syncer.BatchResult
	require.NoError(t, json.Unmarshal(body, &batch))
	assert.Equal(t, active, batch.Total)
	assert.Equal(t, active, batch.Synced)
	assert.Zero(t, batch.Failed)

	revokesBefore := s.provider.revokes.Load()
	status, body = s.post("/api/fitbit/disconnect", map[string]string{"user_id": userIDs[0]}, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, revokesBefore+1, s.provider.revokes.Load())
	assert.False(t, s.isActive(userIDs[0]))

	status, body = s.get("/api/fitbit/data?user_id=" + userIDs[0])
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"connected":false}`, string(body))

	// unconfigured and unknown providers
	status, body = s.post("/api/oura/sync", map[string]string{"user_id": userIDs[1]}, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"oura integration not configured"}`, string(body))

	status, _ = s.post("/api/garmin/sync", map[string]string{"user_id": userIDs[1]}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func syncIDOf(t require.TestingT, body []byte) string {
	var res syncer.Result
	require.NoError(t, json.Unmarshal(body, &res))
	return res.SyncID
}
