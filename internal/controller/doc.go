// Package controller holds the state transitions of the ranking session.
//
// A [Controller] owns one [ranking.Store] and talks to a [services.SongService].
// Every user intent is a method: submitting a search, receiving results,
// picking a candidate, removing a rank, saving and navigating. The terminal
// UI calls these from its event loop; the CLI and tests call the blocking
// helpers ([Controller.Load], [Controller.Search], [Controller.Save]) that
// chain the request and its completion.
//
// Failures never corrupt the store. They are logged and surfaced through
// [Controller.Alert] until dismissed.
package controller
