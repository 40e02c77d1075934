package tokens

import (
	"time"

	"github.com/2beens/wearsync/internal/wearable"

	"golang.org/x/oauth2"
)

// Endpoint describes how a provider refreshes and revokes tokens.
type Endpoint struct {
	TokenURL  string
	RevokeURL string
	AuthStyle oauth2.AuthStyle
	// DefaultLifetime applies when the token response carries no expiry at all.
	DefaultLifetime time.Duration
}

var DefaultEndpoints = map[wearable.Provider]Endpoint{
	wearable.Fitbit: {
		TokenURL:        "https://api.fitbit.com/oauth2/token",
		RevokeURL:       "https://api.fitbit.com/oauth2/revoke",
		AuthStyle:       oauth2.AuthStyleInHeader,
		DefaultLifetime: 8 * time.Hour,
	},
	wearable.Oura: {
		TokenURL:        "https://api.ouraring.com/oauth/token",
		RevokeURL:       "https://api.ouraring.com/oauth/revoke",
		AuthStyle:       oauth2.AuthStyleInParams,
		DefaultLifetime: 30 * 24 * time.Hour,
	},
	wearable.Whoop: {
		TokenURL:        "https://api.prod.whoop.com/oauth/oauth2/token",
		AuthStyle:       oauth2.AuthStyleInParams,
		DefaultLifetime: time.Hour,
	},
	wearable.Strava: {
		TokenURL:        "https://www.strava.com/oauth/token",
		RevokeURL:       "https://www.strava.com/oauth/deauthorize",
		AuthStyle:       oauth2.AuthStyleInParams,
		DefaultLifetime: 6 * time.Hour,
	},
	wearable.Spotify: {
		TokenURL:        "https://accounts.spotify.com/api/token",
		AuthStyle:       oauth2.AuthStyleInHeader,
		DefaultLifetime: time.Hour,
	},
}

// EndpointFor returns the provider endpoint with non-empty overrides applied.
func EndpointFor(provider wearable.Provider, tokenURL, revokeURL string) (Endpoint, bool) {
	ep, ok := DefaultEndpoints[provider]
	if !ok {
		return Endpoint{}, false
	}
	if tokenURL != "" {
		ep.TokenURL = tokenURL
	}
	if revokeURL != "" {
		ep.RevokeURL = revokeURL
	}
	return ep, true
}

// Credentials are the OAuth client credentials of one provider app.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
