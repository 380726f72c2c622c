// Package server provides the HTTP backend that the ranking client talks to.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Endpoints
//
//   - GET /songs : the requesting user's ranked songs
//   - POST /songs : replace the user's list; the body must hold exactly ten songs with distinct ranks and identities
//   - GET /search-songs?track=&rank= : Spotify candidates stamped with rank
//   - GET /leaderboard[?limit=] : every user's lists aggregated by score
//   - GET /health
//
// The user comes from the X-User-Name header, then the "user" cookie, then the configured default.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
