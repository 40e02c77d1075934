package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/wearsync/internal/middleware"
	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/query"
	"github.com/2beens/wearsync/internal/wearable/syncer"
	"github.com/2beens/wearsync/internal/wearable/tokens"
	"github.com/2beens/wearsync/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxBodyBytes          = 64 << 10
	backgroundSyncTimeout = 2 * time.Minute

	msgMissingUserID = "Missing user_id"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=api_test

type userSyncer interface {
	SyncUser(ctx context.Context, userID string) (syncer.Result, error)
	SyncAll(ctx context.Context) (syncer.BatchResult, error)
}

type tokenRevoker interface {
	Revoke(ctx context.Context, conn *wearable.Connection)
}

type connectionStore interface {
	Save(ctx context.Context, conn *wearable.Connection) error
	GetActive(ctx context.Context, userID string, provider wearable.Provider) (*wearable.Connection, error)
	Deactivate(ctx context.Context, userID string, provider wearable.Provider, reason string) error
}

type metricsQuerier interface {
	GetRecentMetrics(ctx context.Context, userID string, provider wearable.Provider, days int) (*query.Result, error)
	Invalidate(provider wearable.Provider, userID string)
}

// Integration is everything the API needs for one configured provider.
type Integration struct {
	Syncer  userSyncer
	Revoker tokenRevoker
}

// HealthCheck is a named dependency ping reported by /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handler struct {
	integrations map[wearable.Provider]Integration
	connections  connectionStore
	query        metricsQuerier
	defaultDays  int
	healthChecks []HealthCheck

	// background syncs started on connection registration
	bgWG sync.WaitGroup
}

type HandlerParams struct {
	Integrations map[wearable.Provider]Integration
	Connections  connectionStore
	Query        metricsQuerier
	DefaultDays  int
	HealthChecks []HealthCheck
}

func NewHandler(params HandlerParams) *Handler {
	if params.DefaultDays <= 0 {
		params.DefaultDays = query.DefaultDays
	}
	if params.Integrations == nil {
		params.Integrations = map[wearable.Provider]Integration{}
	}
	return &Handler{
		integrations: params.Integrations,
		connections:  params.Connections,
		query:        params.Query,
		defaultDays:  params.DefaultDays,
		healthChecks: params.HealthChecks,
	}
}

type RouteParams struct {
	RateLimiter       middleware.RequestRateLimiter
	SyncPerMinute     int
	SyncAllSecretHash string
	Metrics           *metrics.Manager
}

func (h *Handler) SetupRoutes(r *mux.Router, params RouteParams) {
	syncHandler := http.Handler(http.HandlerFunc(h.HandleSync))
	if params.RateLimiter != nil {
		syncHandler = middleware.RateLimit(
			params.RateLimiter,
			middleware.ProviderUserKey,
			params.SyncPerMinute,
			params.Metrics,
		)(syncHandler)
	}
	syncAllHandler := middleware.ServiceSecret(params.SyncAllSecretHash)(http.HandlerFunc(h.HandleSyncAll))

	r.HandleFunc("/health", h.HandleHealth).Methods("GET").Name("health")
	r.Handle("/api/{provider}/sync", syncHandler).Methods("POST", "OPTIONS").Name("sync")
	r.Handle("/api/{provider}/sync-all", syncAllHandler).Methods("POST", "OPTIONS").Name("sync-all")
	r.HandleFunc("/api/{provider}/data", h.HandleData).Methods("GET", "OPTIONS").Name("data")
	r.HandleFunc("/api/{provider}/connections", h.HandleConnect).Methods("POST", "OPTIONS").Name("connect")
	r.HandleFunc("/api/{provider}/disconnect", h.HandleDisconnect).Methods("POST", "OPTIONS").Name("disconnect")
}

// WaitBackground blocks until syncs started by connection registrations are done.
func (h *Handler) WaitBackground() {
	h.bgWG.Wait()
}

// resolve writes the error response itself when the provider cannot be served.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (wearable.Provider, Integration, bool) {
	provider, err := wearable.ParseProvider(mux.Vars(r)["provider"])
	if err != nil {
		pkg.WriteJSONError(w, http.StatusNotFound, err.Error())
		return "", Integration{}, false
	}
	integration, ok := h.integrations[provider]
	if !ok {
		pkg.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("%s integration not configured", provider))
		return "", Integration{}, false
	}
	return provider, integration, true
}

type userRequest struct {
	UserID string `json:"user_id"`
}

// userIDFrom reads user_id from the JSON body, then from the query string.
func userIDFrom(r *http.Request) string {
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err == nil && len(body) > 0 {
			var req userRequest
			if err := json.Unmarshal(body, &req); err == nil && req.UserID != "" {
				return strings.TrimSpace(req.UserID)
			}
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("user_id"))
}

func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "api.handler.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	provider, integration, ok := h.resolve(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r)
	if userID == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, msgMissingUserID)
		return
	}
	span.SetAttributes(attribute.String("provider", provider.String()))

	result, err := integration.Syncer.SyncUser(ctx, userID)
	pkg.WriteJSON(w, syncStatus(err), result)
}

// syncStatus maps a sync error onto the response code. Results the caller
// has to act on (no connection, reconnect) are 200 with the reason in the body.
func syncStatus(err error) int {
	var refreshErr *tokens.RefreshError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, tokens.ErrTokenRevoked):
		return http.StatusOK
	case errors.Is(err, syncer.ErrSyncInProgress):
		return http.StatusConflict
	case errors.As(err, &refreshErr), errors.Is(err, syncer.ErrNothingFetched):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) HandleSyncAll(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "api.handler.syncAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	provider, integration, ok := h.resolve(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("provider", provider.String()))

	result, err := integration.Syncer.SyncAll(ctx)
	if err != nil {
		log.Errorf("%s sync-all: %s", provider, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to list connections")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleData(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "api.handler.data")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	provider, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, msgMissingUserID)
		return
	}

	days := h.defaultDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, convErr := strconv.Atoi(daysParam)
		if convErr != nil {
			pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid days")
			return
		}
		days = parsed
	}
	days = query.ClampDays(days)

	result, err := h.query.GetRecentMetrics(ctx, userID, provider, days)
	if err != nil {
		log.Errorf("%s data for user %s: %s", provider, userID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to load data")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, result)
}

// ConnectRequest is posted by the OAuth callback once the code is exchanged.
type ConnectRequest struct {
	UserID            string     `json:"user_id"`
	ProviderAccountID string     `json:"provider_account_id"`
	DisplayName       string     `json:"display_name"`
	AccessToken       string     `json:"access_token"`
	RefreshToken      string     `json:"refresh_token"`
	Scope             string     `json:"scope"`
	ExpiresAt         *time.Time `json:"expires_at"`
	ExpiresIn         int64      `json:"expires_in"`
	Timezone          string     `json:"timezone"`
}

func (req ConnectRequest) connection(provider wearable.Provider, now time.Time) (*wearable.Connection, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, errors.New(msgMissingUserID)
	}
	if req.AccessToken == "" {
		return nil, errors.New("Missing access_token")
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return nil, fmt.Errorf("Invalid timezone: %s", req.Timezone)
		}
	}

	// no expiry at all: treat as expired so the first sync refreshes
	expiresAt := now
	switch {
	case req.ExpiresAt != nil:
		expiresAt = *req.ExpiresAt
	case req.ExpiresIn > 0:
		expiresAt = now.Add(time.Duration(req.ExpiresIn) * time.Second)
	}

	return &wearable.Connection{
		UserID:            strings.TrimSpace(req.UserID),
		Provider:          provider,
		ProviderAccountID: req.ProviderAccountID,
		DisplayName:       req.DisplayName,
		AccessToken:       req.AccessToken,
		RefreshToken:      req.RefreshToken,
		Scope:             req.Scope,
		ExpiresAt:         expiresAt,
		IsActive:          true,
		Timezone:          req.Timezone,
	}, nil
}

func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "api.handler.connect")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	provider, integration, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req ConnectRequest
	if err = json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	conn, err := req.connection(provider, time.Now())
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err = h.connections.Save(ctx, conn); err != nil {
		log.Errorf("save %s connection for user %s: %s", provider, conn.UserID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to save connection")
		return
	}
	h.query.Invalidate(provider, conn.UserID)

	log.WithFields(log.Fields{
		"provider": provider,
		"user_id":  conn.UserID,
	}).Infoln("connection registered")

	// first sync runs after the response, detached from the request
	bgCtx := context.WithoutCancel(ctx)
	userID := conn.UserID
	h.bgWG.Add(1)
	go func() {
		defer h.bgWG.Done()
		syncCtx, cancel := context.WithTimeout(bgCtx, backgroundSyncTimeout)
		defer cancel()
		if _, err := integration.Syncer.SyncUser(syncCtx, userID); err != nil {
			log.Warnf("initial %s sync for user %s: %s", provider, userID, err)
		}
	}()

	pkg.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"provider": provider,
		"user_id":  conn.UserID,
	})
}

func (h *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "api.handler.disconnect")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	provider, integration, ok := h.resolve(w, r)
	if !ok {
		return
	}
	userID := userIDFrom(r)
	if userID == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, msgMissingUserID)
		return
	}

	conn, err := h.connections.GetActive(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, wearable.ErrNoActiveConnection) {
			err = nil
			pkg.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "not connected"})
			return
		}
		log.Errorf("load %s connection for user %s: %s", provider, userID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to load connection")
		return
	}

	if integration.Revoker != nil {
		integration.Revoker.Revoke(ctx, conn)
	}
	if err = h.connections.Deactivate(ctx, userID, provider, "disconnected by user"); err != nil {
		log.Errorf("deactivate %s connection for user %s: %s", provider, userID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "failed to disconnect")
		return
	}
	h.query.Invalidate(provider, userID)

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.healthChecks))
	for _, hc := range h.healthChecks {
		if err := hc.Check(ctx); err != nil {
			log.Warnf("health check %s: %s", hc.Name, err)
			checks[hc.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[hc.Name] = "ok"
	}

	providers := make([]wearable.Provider, 0, len(h.integrations))
	for _, p := range wearable.AllProviders {
		if _, ok := h.integrations[p]; ok {
			providers = append(providers, p)
		}
	}

	statusText := "ok"
	if status != http.StatusOK {
		statusText = "degraded"
	}
	pkg.WriteJSON(w, status, map[string]any{
		"status":    statusText,
		"checks":    checks,
		"providers": providers,
	})
}
