// Package repositories implements SQLite persistence for the song backend.
//
// Key Implementations:
//   - [UserRepository] : users keyed by a unique name, created on first save
//   - [SongRepository] : songs unique on (name, artist), per-user rankings and the cross-user leaderboard
//
// A user's list is written in a single transaction: every song is upserted on
// its identity and every ranking on (user, rank), so a failed save leaves the
// previous list intact.
package repositories
