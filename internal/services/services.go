// package services defines the collaborators of the ranked list: the song
// backend the client talks to and the track search the backend delegates to.
package services

import (
	"context"

	"github.com/desertthunder/topten/internal/models"
)

// SongService is the client-side view of the song backend.
//
// [APIService] implements it over HTTP; tests substitute an in-memory double.
type SongService interface {
	// ListSongs returns the user's persisted ranked songs.
	ListSongs(ctx context.Context) ([]models.Song, error)

	// SearchSongs returns candidate songs for a track name, each carrying rank.
	SearchSongs(ctx context.Context, track string, rank int) ([]models.Song, error)

	// SaveSongs replaces the user's ranked list with songs.
	SaveSongs(ctx context.Context, songs []models.Song) error

	// Leaderboard returns the aggregate ranking across every user.
	Leaderboard(ctx context.Context) ([]models.Ranking, error)
}

// TrackSearcher finds songs matching a typed track name.
//
// [SpotifyService] implements it for the backend's /search-songs endpoint.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, track string, rank int) ([]models.Song, error)
}
