//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/2beens/wearsync/pkg"

	"github.com/gorilla/mux"
)

const (
	fakeValidAccessToken = "A2"
	fakeRevokedRefresh   = "R-REVOKED"
)

// fakeFitbit serves the token, revoke and metric endpoints the Fitbit
// adapter calls. The heart rate endpoint always fails.
type fakeFitbit struct {
	server    *httptest.Server
	steps     atomic.Int64
	refreshes atomic.Int64
	revokes   atomic.Int64
}

func newFakeFitbit() *fakeFitbit {
	f := &fakeFitbit{}
	f.steps.Store(8000)

	r := mux.NewRouter()
	r.HandleFunc("/oauth2/token", f.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/oauth2/revoke", f.handleRevoke).Methods(http.MethodPost)
	r.HandleFunc("/1/user/-/activities/date/{day}.json", f.authorized(f.handleActivity)).Methods(http.MethodGet)
	r.HandleFunc("/1.2/user/-/sleep/date/{day}.json", f.authorized(f.handleSleep)).Methods(http.MethodGet)
	r.HandleFunc("/1/user/-/activities/heart/date/{day}/1d.json", f.authorized(f.handleHeart)).Methods(http.MethodGet)

	f.server = httptest.NewServer(r)
	return f
}

func (f *fakeFitbit) URL() string {
	return f.server.URL
}

func (f *fakeFitbit) Close() {
	f.server.Close()
}

func (f *fakeFitbit) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fakeValidAccessToken {
			pkg.WriteJSONError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next(w, r)
	}
}

func (f *fakeFitbit) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if r.PostForm.Get("refresh_token") == fakeRevokedRefresh {
		pkg.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "Refresh token invalid",
		})
		return
	}
	f.refreshes.Add(1)
	// no refresh_token in the response: the stored one must survive
	pkg.WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": fakeValidAccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (f *fakeFitbit) handleRevoke(w http.ResponseWriter, _ *http.Request) {
	f.revokes.Add(1)
	w.WriteHeader(http.StatusOK)
}

func (f *fakeFitbit) handleActivity(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{
		"summary": {
			"steps": %d,
			"caloriesOut": 2100,
			"floors": 12,
			"fairlyActiveMinutes": 20,
			"veryActiveMinutes": 15,
			"distances": [{"activity": "total", "distance": 6.2}]
		}
	}`, f.steps.Load()))
}

func (f *fakeFitbit) handleSleep(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, `{"sleep": [], "summary": {}}`)
}

func (f *fakeFitbit) handleHeart(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONError(w, http.StatusServiceUnavailable, "temporarily unavailable")
}
