package tokens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

const DefaultExpiryBuffer = 60 * time.Second

//go:generate mockgen -source=$GOFILE -destination=refresher_mocks_test.go -package=tokens_test

type connectionStore interface {
	UpdateTokens(ctx context.Context, userID string, provider wearable.Provider, update TokenUpdate) error
	Deactivate(ctx context.Context, userID string, provider wearable.Provider, reason string) error
}

// Refresher keeps a connection's access token usable, refreshing it through
// the provider token endpoint when it is about to expire.
type Refresher struct {
	provider     wearable.Provider
	endpoint     Endpoint
	oauthConfig  *oauth2.Config
	store        connectionStore
	httpClient   *http.Client
	expiryBuffer time.Duration
	now          func() time.Time
	metrics      *metrics.Manager
}

type RefresherParams struct {
	Provider     wearable.Provider
	Endpoint     Endpoint
	Credentials  Credentials
	Store        connectionStore
	HTTPClient   *http.Client
	ExpiryBuffer time.Duration
	Now          func() time.Time
	Metrics      *metrics.Manager
}

func NewRefresher(params RefresherParams) *Refresher {
	if params.ExpiryBuffer <= 0 {
		params.ExpiryBuffer = DefaultExpiryBuffer
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewTestManager()
	}

	return &Refresher{
		provider: params.Provider,
		endpoint: params.Endpoint,
		oauthConfig: &oauth2.Config{
			ClientID:     params.Credentials.ClientID,
			ClientSecret: params.Credentials.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  params.Endpoint.TokenURL,
				AuthStyle: params.Endpoint.AuthStyle,
			},
		},
		store:        params.Store,
		httpClient:   params.HTTPClient,
		expiryBuffer: params.ExpiryBuffer,
		now:          params.Now,
		metrics:      params.Metrics,
	}
}

// EnsureValidToken returns a usable access token for conn, refreshing and
// persisting a new one first when the stored token expires within the buffer.
// conn is updated in place on refresh.
func (r *Refresher) EnsureValidToken(ctx context.Context, conn *wearable.Connection) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tokens.refresher.ensureValidToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("provider", r.provider.String()))

	now := r.now()
	if conn.ExpiresAt.After(now.Add(r.expiryBuffer)) {
		return conn.AccessToken, nil
	}

	span.SetAttributes(attribute.Bool("refreshed", true))
	if conn.RefreshToken == "" {
		return "", r.revoke(ctx, conn, "no refresh token stored")
	}

	tok, err := r.requestToken(ctx, conn.RefreshToken)
	if err != nil {
		if isRevoked(err) {
			return "", r.revoke(ctx, conn, err.Error())
		}
		r.metrics.CounterTokenRefreshes.WithLabelValues(r.provider.String(), metrics.OutcomeFailed).Inc()
		return "", &RefreshError{Provider: r.provider, Err: err}
	}

	update := TokenUpdate{
		AccessToken:  tok.AccessToken,
		RefreshToken: rotatedRefreshToken(tok),
		ExpiresAt:    r.expiryOf(tok, now),
	}
	if err := r.store.UpdateTokens(ctx, conn.UserID, r.provider, update); err != nil {
		r.metrics.CounterTokenRefreshes.WithLabelValues(r.provider.String(), metrics.OutcomeFailed).Inc()
		return "", &RefreshError{Provider: r.provider, Err: fmt.Errorf("persist refreshed token: %w", err)}
	}

	conn.AccessToken = update.AccessToken
	if update.RefreshToken != "" {
		conn.RefreshToken = update.RefreshToken
	}
	conn.ExpiresAt = update.ExpiresAt

	r.metrics.CounterTokenRefreshes.WithLabelValues(r.provider.String(), metrics.OutcomeSuccess).Inc()
	log.WithFields(log.Fields{
		"provider":   r.provider,
		"user_id":    conn.UserID,
		"expires_at": update.ExpiresAt,
		"rotated":    update.RefreshToken != "",
	}).Debugln("token refreshed")

	return conn.AccessToken, nil
}

func (r *Refresher) requestToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	// a fresh source per call, nothing is cached between syncs
	src := r.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return src.Token()
}

func (r *Refresher) revoke(ctx context.Context, conn *wearable.Connection, reason string) error {
	r.metrics.CounterTokenRefreshes.WithLabelValues(r.provider.String(), metrics.OutcomeRevoked).Inc()
	log.WithFields(log.Fields{
		"provider": r.provider,
		"user_id":  conn.UserID,
	}).Warnf("authorization revoked, deactivating connection: %s", reason)

	lastError := fmt.Sprintf("%s: %s", ErrTokenRevoked, reason)
	if err := r.store.Deactivate(ctx, conn.UserID, r.provider, lastError); err != nil {
		return fmt.Errorf("%w (deactivate failed: %s)", ErrTokenRevoked, err)
	}
	conn.IsActive = false
	return ErrTokenRevoked
}

// isRevoked tells an unrecoverable refresh failure apart from a transient one.
func isRevoked(err error) bool {
	var rErr *oauth2.RetrieveError
	if !errors.As(err, &rErr) {
		return false
	}
	if rErr.ErrorCode == "invalid_grant" {
		return true
	}
	if rErr.Response != nil && rErr.Response.StatusCode == http.StatusUnauthorized {
		return true
	}
	return bytes.Contains(rErr.Body, []byte("invalid_grant"))
}

// rotatedRefreshToken returns the refresh token only when the response
// actually carried one; the oauth2 package copies the old one over otherwise.
func rotatedRefreshToken(tok *oauth2.Token) string {
	if rt, ok := tok.Extra("refresh_token").(string); ok {
		return rt
	}
	return ""
}

func (r *Refresher) expiryOf(tok *oauth2.Token, now time.Time) time.Time {
	// absolute expiry (Strava) wins over the relative one
	if expiresAt, ok := numericExtra(tok, "expires_at"); ok && expiresAt > 0 {
		return time.Unix(expiresAt, 0)
	}
	if expiresIn, ok := numericExtra(tok, "expires_in"); ok && expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry
	}

	lifetime := r.endpoint.DefaultLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return now.Add(lifetime)
}

func numericExtra(tok *oauth2.Token, key string) (int64, bool) {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Revoke asks the provider to invalidate the token. Best effort: providers
// without a revoke endpoint are skipped and failures are only logged.
func (r *Refresher) Revoke(ctx context.Context, conn *wearable.Connection) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "tokens.refresher.revoke")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if r.endpoint.RevokeURL == "" || conn.AccessToken == "" {
		return
	}

	form := url.Values{}
	if r.provider == wearable.Strava {
		form.Set("access_token", conn.AccessToken)
	} else {
		form.Set("token", conn.AccessToken)
	}
	if r.endpoint.AuthStyle == oauth2.AuthStyleInParams {
		form.Set("client_id", r.oauthConfig.ClientID)
		form.Set("client_secret", r.oauthConfig.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Errorf("%s revoke: new request: %s", r.provider, err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if r.endpoint.AuthStyle == oauth2.AuthStyleInHeader {
		req.SetBasicAuth(url.QueryEscape(r.oauthConfig.ClientID), url.QueryEscape(r.oauthConfig.ClientSecret))
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Warnf("%s revoke for user %s failed: %s", r.provider, conn.UserID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err = fmt.Errorf("revoke status %d", resp.StatusCode)
		log.Warnf("%s revoke for user %s: %s", r.provider, conn.UserID, err)
		return
	}
	log.Debugf("%s token revoked for user %s", r.provider, conn.UserID)
}
