// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The screen has two panes:
//   - the leaderboard: the user's ranked songs in rank order
//   - the search pane: a song name and rank form, replaced by the candidate list once results arrive
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every key press is translated into a call on the session controller. Requests to the backend run as commands and
// their results come back as messages, so the ranked list is only ever changed from Update.
//
// Failures are shown as a modal alert that must be dismissed with enter or esc before anything else happens.
package ui
