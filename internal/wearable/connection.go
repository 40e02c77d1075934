package wearable

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Connection is the OAuth link between a user and a provider account.
// Tokens never leave the service, so they are excluded from JSON.
type Connection struct {
	UserID            string     `json:"user_id"`
	Provider          Provider   `json:"provider"`
	ProviderAccountID string     `json:"provider_account_id"`
	DisplayName       string     `json:"display_name"`
	AccessToken       string     `json:"-"`
	RefreshToken      string     `json:"-"`
	Scope             string     `json:"scope"`
	ExpiresAt         time.Time  `json:"expires_at"`
	IsActive          bool       `json:"is_active"`
	Timezone          string     `json:"timezone,omitempty"`
	ConnectedAt       time.Time  `json:"connected_at"`
	LastSyncAt        *time.Time `json:"last_sync_at,omitempty"`
	LastError         *string    `json:"last_error,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Location resolves the connection timezone, falling back when it is unset
// or not a valid IANA name.
func (c *Connection) Location(fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	if c.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warnf("connection %s/%s: invalid timezone [%s]: %s", c.Provider, c.UserID, c.Timezone, err)
		return fallback
	}
	return loc
}
