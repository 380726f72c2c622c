// Package services implements the collaborators around the ranked list.
//
// # Song backend client
//
// [APIService] implements [SongService] over the backend's JSON endpoints:
//   - GET /songs : the user's ranked songs
//   - GET /search-songs?track=&rank= : candidates for a typed track name
//   - POST /songs : replace the user's list with exactly ten songs
//   - GET /leaderboard : aggregate ranking across users
//
// The configured user name travels in the X-User-Name header. Transport
// failures, unreadable bodies and non-2xx statuses are all wrapped in
// [shared.ErrNetwork] so callers can match them with errors.Is.
//
// # Spotify search
//
// [SpotifyService] implements [TrackSearcher] for the backend. It
// authenticates with the client credentials flow, shares one rate limiter
// across requests, keeps the first track per (name, artist) and orders the
// rest by Jaro-Winkler similarity to the typed name.
package services
