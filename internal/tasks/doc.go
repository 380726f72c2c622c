// Package tasks runs long, multi-step operations over the saved rankings with
// real-time progress reporting.
//
// # Archive
//
// [Archiver.Archive] exports the saved top ten of every user into one
// directory, one file (or, for markdown, one sub-directory) per user, plus an
// export_manifest.json summarizing what was written:
//   - users are read from a [ListSource], by default the SQLite repositories
//   - a fixed pool of workers renders each list with the formatter package
//   - a shared rate limiter paces the workers, since markdown exports download
//     the top song's cover image
//   - a failed user is recorded in the manifest and does not stop the others
//
// # Progress Reporting
//
// Progress is sent on an optional channel as [ProgressUpdate] values. Sends
// use select with default, so a slow or absent reader never blocks the run.
package tasks
