// Spotify Web API track search backing /search-songs
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

const defaultSearchLimit = 10

// SearchClient is the part of [spotify.Client] the search uses.
type SearchClient interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
}

// SpotifyService implements [TrackSearcher] with the Spotify search endpoint.
//
// Requests share a single limiter so concurrent handlers stay under the configured rate.
type SpotifyService struct {
	client  SearchClient
	limiter *rate.Limiter
	limit   int
	market  string
	logger  *log.Logger
}

// NewSpotifyService authenticates with the client credentials flow and returns a ready searcher.
func NewSpotifyService(ctx context.Context, creds shared.SpotifyConfig, search shared.SpotifySearch, logger *log.Logger) (*SpotifyService, error) {
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	return NewSpotifyServiceWithClient(spotify.New(config.Client(ctx)), search, logger), nil
}

// NewSpotifyServiceWithClient wraps an existing client, e.g. one pointed at a test server.
func NewSpotifyServiceWithClient(client SearchClient, search shared.SpotifySearch, logger *log.Logger) *SpotifyService {
	limit := search.SearchLimit
	if limit <= 0 || limit > 50 {
		limit = defaultSearchLimit
	}

	every := rate.Inf
	if search.RequestsPerSecond > 0 {
		every = rate.Limit(search.RequestsPerSecond)
	}

	if logger == nil {
		logger = log.Default()
	}

	return &SpotifyService{
		client:  client,
		limiter: rate.NewLimiter(every, 1),
		limit:   limit,
		market:  search.Market,
		logger:  logger.WithPrefix("spotify"),
	}
}

// SearchTracks searches Spotify for track and returns de-duplicated candidates at rank,
// ordered by how closely their name matches what was typed.
func (s *SpotifyService) SearchTracks(ctx context.Context, track string, rank int) ([]models.Song, error) {
	if track == "" {
		return nil, fmt.Errorf("%w: track name is required", shared.ErrInvalidInput)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	opts := []spotify.RequestOption{spotify.Limit(s.limit)}
	if s.market != "" {
		opts = append(opts, spotify.Market(s.market))
	}

	result, err := s.client.Search(ctx, track, spotify.SearchTypeTrack, opts...)
	if err != nil {
		s.logger.Error("search failed", "track", track, "error", err)
		return nil, fmt.Errorf("%w: spotify search: %v", shared.ErrServiceUnavailable, err)
	}

	if result == nil || result.Tracks == nil {
		return []models.Song{}, nil
	}

	songs := tracksToSongs(result.Tracks.Tracks, rank)
	orderBySimilarity(songs, track)

	s.logger.Debug("search completed", "track", track, "results", len(result.Tracks.Tracks), "unique", len(songs))
	return songs, nil
}

// tracksToSongs maps Spotify tracks to songs, keeping the first track seen per identity.
func tracksToSongs(tracks []spotify.FullTrack, rank int) []models.Song {
	seen := make(map[models.Identity]bool, len(tracks))
	songs := make([]models.Song, 0, len(tracks))

	for _, track := range tracks {
		if track.Name == "" || len(track.Artists) == 0 {
			continue
		}

		song := models.Song{
			Name:          track.Name,
			Artist:        track.Artists[0].Name,
			AlbumCoverURL: albumCover(track.Album.Images),
			Rank:          rank,
			URI:           string(track.URI),
		}
		song.Key = song.Identity().Key()

		if seen[song.Identity()] {
			continue
		}
		seen[song.Identity()] = true
		songs = append(songs, song)
	}

	return songs
}

// albumCover picks the medium image Spotify lists second, falling back to the first.
func albumCover(images []spotify.Image) string {
	switch {
	case len(images) > 1:
		return images[1].URL
	case len(images) == 1:
		return images[0].URL
	default:
		return ""
	}
}

// orderBySimilarity sorts songs by Jaro-Winkler similarity of their name to query, keeping Spotify's order for ties.
func orderBySimilarity(songs []models.Song, query string) {
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = false

	scores := make(map[models.Identity]float64, len(songs))
	for _, song := range songs {
		scores[song.Identity()] = strutil.Similarity(query, song.Name, jw)
	}

	sort.SliceStable(songs, func(i, j int) bool {
		return scores[songs[i].Identity()] > scores[songs[j].Identity()]
	})
}
