package registry

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/wearsync/internal/config"
	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"
	"github.com/2beens/wearsync/internal/wearable/providers/fitbit"
	"github.com/2beens/wearsync/internal/wearable/providers/oura"
	"github.com/2beens/wearsync/internal/wearable/providers/spotify"
	"github.com/2beens/wearsync/internal/wearable/providers/strava"
	"github.com/2beens/wearsync/internal/wearable/providers/whoop"
	"github.com/2beens/wearsync/internal/wearable/query"
	"github.com/2beens/wearsync/internal/wearable/records"
	"github.com/2beens/wearsync/internal/wearable/syncer"
	"github.com/2beens/wearsync/internal/wearable/tokens"

	log "github.com/sirupsen/logrus"
)

var defaultBaseURLs = map[wearable.Provider]string{
	wearable.Fitbit:  fitbit.DefaultBaseURL,
	wearable.Oura:    oura.DefaultBaseURL,
	wearable.Whoop:   whoop.DefaultBaseURL,
	wearable.Strava:  strava.DefaultBaseURL,
	wearable.Spotify: spotify.DefaultBaseURL,
}

// Entry is one configured provider integration.
type Entry struct {
	Provider     wearable.Provider
	API          *providers.APIClient
	Refresher    *tokens.Refresher
	Orchestrator *syncer.Orchestrator
}

type Params struct {
	Config      *config.Config
	Credentials map[wearable.Provider]tokens.Credentials
	Connections *tokens.Repo
	Records     *records.Repo
	Locker      *syncer.RedisLocker
	Query       *query.Service
	// Transport is shared by provider API and token calls, nil means http.DefaultTransport.
	Transport http.RoundTripper
	Now       func() time.Time
	Metrics   *metrics.Manager
}

// Build creates an Entry for every provider with credentials. Providers
// without them are left out, and requests for them answer "not configured".
func Build(params Params) map[wearable.Provider]Entry {
	cfg := params.Config
	entries := make(map[wearable.Provider]Entry, len(wearable.AllProviders))
	for _, provider := range wearable.AllProviders {
		creds := params.Credentials[provider]
		if !creds.Configured() {
			log.Warnf("%s credentials not set, integration disabled", provider)
			continue
		}

		override := cfg.Provider(provider.String())
		endpoint, ok := tokens.EndpointFor(provider, override.TokenURL, override.RevokeURL)
		if !ok {
			continue
		}

		baseURL := defaultBaseURLs[provider]
		if override.APIBaseURL != "" {
			baseURL = override.APIBaseURL
		}

		httpClient := &http.Client{
			Transport: params.Transport,
			Timeout:   cfg.ProviderTimeout.Duration,
		}
		api := providers.NewAPIClient(providers.APIClientParams{
			Provider:          provider,
			BaseURL:           baseURL,
			HTTPClient:        httpClient,
			Timeout:           cfg.ProviderTimeout.Duration,
			RequestsPerSecond: cfg.ProviderRequestsPerSec,
			Burst:             cfg.ProviderRequestsBurst,
			Metrics:           params.Metrics,
		})

		refresher := tokens.NewRefresher(tokens.RefresherParams{
			Provider:     provider,
			Endpoint:     endpoint,
			Credentials:  creds,
			Store:        params.Connections,
			HTTPClient:   httpClient,
			ExpiryBuffer: cfg.TokenExpiryBuffer.Duration,
			Now:          params.Now,
			Metrics:      params.Metrics,
		})

		orchestratorParams := syncer.OrchestratorParams{
			Source:       sourceFor(provider, api),
			Refresher:    refresher,
			Connections:  params.Connections,
			Records:      params.Records,
			DefaultLoc:   cfg.DefaultLocation(),
			LookbackDays: cfg.DefaultLookbackDays,
			Concurrency:  cfg.SyncAllConcurrency,
			Now:          params.Now,
			Metrics:      params.Metrics,
		}
		// typed nils must not end up in the interfaces
		if params.Locker != nil {
			orchestratorParams.Locker = params.Locker
		}
		if params.Query != nil {
			orchestratorParams.Cache = params.Query
		}

		entries[provider] = Entry{
			Provider:     provider,
			API:          api,
			Refresher:    refresher,
			Orchestrator: syncer.NewOrchestrator(orchestratorParams),
		}
		log.Debugf("%s integration enabled, api: %s", provider, api.BaseURL())
	}
	return entries
}

func sourceFor(provider wearable.Provider, api *providers.APIClient) providers.Source {
	switch provider {
	case wearable.Fitbit:
		return providers.AsSource[fitbit.Payload](fitbit.NewAdapter(api))
	case wearable.Oura:
		return providers.AsSource[oura.Payload](oura.NewAdapter(api))
	case wearable.Whoop:
		return providers.AsSource[whoop.Payload](whoop.NewAdapter(api))
	case wearable.Strava:
		return providers.AsSource[strava.Payload](strava.NewAdapter(api))
	case wearable.Spotify:
		return providers.AsSource[spotify.Payload](spotify.NewAdapter(api, nil))
	default:
		panic(fmt.Sprintf("no adapter for provider %s", provider))
	}
}

// CredentialsFromEnv reads WEARSYNC_<PROVIDER>_CLIENT_ID / _CLIENT_SECRET.
func CredentialsFromEnv(getenv func(string) string) map[wearable.Provider]tokens.Credentials {
	creds := make(map[wearable.Provider]tokens.Credentials, len(wearable.AllProviders))
	for _, provider := range wearable.AllProviders {
		prefix := "WEARSYNC_" + strings.ToUpper(provider.String())
		creds[provider] = tokens.Credentials{
			ClientID:     strings.TrimSpace(getenv(prefix + "_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(getenv(prefix + "_CLIENT_SECRET")),
		}
	}
	return creds
}
