package spotify

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/providers"

	spotifyapi "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL = "https://api.spotify.com/v1"

	recentLimit     = 50
	recentSpan      = 24 * time.Hour
	topArtistsLimit = 5
	topTracksLimit  = 5
	topGenresLimit  = 8
)

//go:generate mockgen -source=$GOFILE -destination=spotify_mocks_test.go -package=spotify_test

// Client is the part of the Spotify Web API client the adapter needs.
type Client interface {
	PlayerRecentlyPlayedOpt(ctx context.Context, opt *spotifyapi.RecentlyPlayedOptions) ([]spotifyapi.RecentlyPlayedItem, error)
	CurrentUsersTopArtists(ctx context.Context, opts ...spotifyapi.RequestOption) (*spotifyapi.FullArtistPage, error)
}

// ClientFactory builds a Client authorized with one user's access token.
type ClientFactory func(ctx context.Context, accessToken string) Client

// NewClientFactory returns a factory whose clients go through the API
// client's transport and base URL.
func NewClientFactory(api *providers.APIClient) ClientFactory {
	return func(ctx context.Context, accessToken string) Client {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, api.HTTPClient())
		httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = api.HTTPClient().Timeout
		// the library joins paths onto the base URL, which needs the trailing slash
		return spotifyapi.New(httpClient, spotifyapi.WithBaseURL(api.BaseURL()+"/"))
	}
}

// Adapter pulls the last 24h of listening history plus the short-term top
// artists and folds them into one row per local day.
type Adapter struct {
	api       *providers.APIClient
	newClient ClientFactory
}

func NewAdapter(api *providers.APIClient, newClient ClientFactory) *Adapter {
	if newClient == nil {
		newClient = NewClientFactory(api)
	}
	return &Adapter{
		api:       api,
		newClient: newClient,
	}
}

func (a *Adapter) Provider() wearable.Provider {
	return wearable.Spotify
}

type Payload struct {
	RecentlyPlayed wearable.Optional[[]spotifyapi.RecentlyPlayedItem]
	TopArtists     wearable.Optional[[]spotifyapi.FullArtist]
}

// Presence reports only the listening history. Top artists enrich the rows
// but do not make a listening record on their own.
func (p Payload) Presence() map[wearable.MetricKind]bool {
	return map[wearable.MetricKind]bool{
		wearable.KindListening: p.RecentlyPlayed.IsPresent(),
	}
}

func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, window wearable.Window) Payload {
	ctx, span := tracing.GlobalTracer.Start(ctx, "providers.spotify.fetchMetrics")
	defer span.End()

	client := a.newClient(ctx, accessToken)

	var (
		payload Payload
		g       errgroup.Group
	)
	g.Go(func() error {
		payload.RecentlyPlayed = providers.Fetch(ctx, a.api, wearable.KindListening,
			func(ctx context.Context) ([]spotifyapi.RecentlyPlayedItem, error) {
				var items []spotifyapi.RecentlyPlayedItem
				err := a.api.Guard(ctx, func(ctx context.Context) error {
					var err error
					items, err = client.PlayerRecentlyPlayedOpt(ctx, &spotifyapi.RecentlyPlayedOptions{
						Limit:        recentLimit,
						AfterEpochMs: window.Now.Add(-recentSpan).UnixMilli(),
					})
					return asStatusError(err)
				})
				return items, err
			})
		return nil
	})
	g.Go(func() error {
		payload.TopArtists = providers.Fetch(ctx, a.api, wearable.KindListening,
			func(ctx context.Context) ([]spotifyapi.FullArtist, error) {
				var artists []spotifyapi.FullArtist
				err := a.api.Guard(ctx, func(ctx context.Context) error {
					page, err := client.CurrentUsersTopArtists(ctx,
						spotifyapi.Timerange(spotifyapi.ShortTermRange),
						spotifyapi.Limit(topArtistsLimit),
					)
					if err != nil {
						return asStatusError(err)
					}
					if page != nil {
						artists = page.Artists
					}
					return nil
				})
				return artists, err
			})
		return nil
	})
	_ = g.Wait()

	return payload
}

// asStatusError maps API errors onto providers.StatusError so 4xx answers do
// not trip the circuit breaker.
func asStatusError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr spotifyapi.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return &providers.StatusError{StatusCode: apiErr.Status, Body: apiErr.Message}
	}
	return err
}

type TopTrack struct {
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	AlbumArtURL *string `json:"album_art_url"`
	DurationMs  int     `json:"duration_ms"`
	SpotifyID   string  `json:"spotify_id,omitempty"`
	SpotifyURI  string  `json:"spotify_uri,omitempty"`
	Plays       int     `json:"plays"`
}

type TopArtist struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

type listeningDay struct {
	date     time.Time
	totalMs  int
	tracks   map[string]*TopTrack
	firstIdx map[string]int
}

func (a *Adapter) Normalize(userID string, window wearable.Window, payload Payload) []wearable.MetricRecord {
	items, ok := payload.RecentlyPlayed.Get()
	if !ok || len(items) == 0 {
		return nil
	}

	artists := payload.TopArtists.OrZero()
	topArtists := make([]TopArtist, 0, topArtistsLimit)
	for i, artist := range artists {
		if i == topArtistsLimit {
			break
		}
		topArtists = append(topArtists, TopArtist{Name: artist.Name, ImageURL: preferredImage(artist.Images)})
	}
	topGenres := genresOf(artists)

	days := map[string]*listeningDay{}
	for _, item := range items {
		if item.PlayedAt.IsZero() || item.Track.Name == "" {
			continue
		}
		date := window.Day(item.PlayedAt)
		key := wearable.FormatDay(date)
		day, ok := days[key]
		if !ok {
			day = &listeningDay{date: date, tracks: map[string]*TopTrack{}, firstIdx: map[string]int{}}
			days[key] = day
		}
		day.add(item)
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	recs := make([]wearable.MetricRecord, 0, len(keys))
	for _, k := range keys {
		day := days[k]
		rec := wearable.NewRecord(userID, wearable.Spotify, wearable.KindListening, day.date)
		rec.Set("total_listening_minutes", providers.MillisToMinutes(float64(day.totalMs))).
			Set("track_count", len(day.tracks)).
			Set("top_tracks", day.topTracks()).
			Set("top_artists", topArtists).
			Set("top_genres", topGenres)
		recs = append(recs, rec)
	}
	return recs
}

func (d *listeningDay) add(item spotifyapi.RecentlyPlayedItem) {
	artist := "Unknown"
	if len(item.Track.Artists) > 0 && item.Track.Artists[0].Name != "" {
		artist = item.Track.Artists[0].Name
	}
	duration := int(item.Track.Duration)
	d.totalMs += duration

	key := item.Track.Name + "::" + artist
	track, ok := d.tracks[key]
	if !ok {
		track = &TopTrack{
			Name:        item.Track.Name,
			Artist:      artist,
			AlbumArtURL: preferredImage(item.Track.Album.Images),
			DurationMs:  duration,
			SpotifyID:   string(item.Track.ID),
			SpotifyURI:  string(item.Track.URI),
		}
		d.tracks[key] = track
		d.firstIdx[key] = len(d.firstIdx)
	}
	track.Plays++
}

// topTracks ranks by play count; ties keep the order the tracks first
// appeared in the history.
func (d *listeningDay) topTracks() []TopTrack {
	keys := make([]string, 0, len(d.tracks))
	for k := range d.tracks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := d.tracks[keys[i]].Plays, d.tracks[keys[j]].Plays
		if pi != pj {
			return pi > pj
		}
		return d.firstIdx[keys[i]] < d.firstIdx[keys[j]]
	})
	if len(keys) > topTracksLimit {
		keys = keys[:topTracksLimit]
	}

	top := make([]TopTrack, 0, len(keys))
	for _, k := range keys {
		top = append(top, *d.tracks[k])
	}
	return top
}

// genresOf collects genres in artist order, without duplicates.
func genresOf(artists []spotifyapi.FullArtist) []string {
	genres := make([]string, 0, topGenresLimit)
	seen := map[string]bool{}
	for _, artist := range artists {
		for _, g := range artist.Genres {
			if seen[g] {
				continue
			}
			seen[g] = true
			genres = append(genres, g)
			if len(genres) == topGenresLimit {
				return genres
			}
		}
	}
	return genres
}

// preferredImage picks the medium-size image (the second one) when present.
func preferredImage(images []spotifyapi.Image) *string {
	var url string
	switch {
	case len(images) > 1:
		url = images[1].URL
	case len(images) == 1:
		url = images[0].URL
	}
	if url == "" {
		return nil
	}
	return &url
}
