package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/ranking"
	"github.com/desertthunder/topten/internal/services"
	"github.com/desertthunder/topten/internal/shared"
)

// View identifies the region the user is working in.
type View int

const (
	// LeaderboardView focuses the ranked list.
	LeaderboardView View = iota
	// SearchView focuses the search form.
	SearchView
	// SearchResultsView lists candidates for the last search; it is part of the search region.
	SearchResultsView
)

func (v View) String() string {
	switch v {
	case LeaderboardView:
		return "leaderboard"
	case SearchView:
		return "search"
	case SearchResultsView:
		return "results"
	default:
		return "unknown"
	}
}

// Query is a validated search request.
type Query struct {
	Track string
	Rank  int
}

// Controller drives a ranking session. It is not safe for concurrent use;
// callers apply every transition from a single goroutine.
type Controller struct {
	store  *ranking.Store
	songs  services.SongService
	logger *log.Logger

	view     View
	lastView View
	query    Query
	results  []models.Song

	alert  error
	notice string
}

// New creates a controller over an empty store.
func New(songs services.SongService, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}

	return &Controller{
		store:    ranking.NewStore(),
		songs:    songs,
		logger:   logger.WithPrefix("controller"),
		view:     SearchView,
		lastView: SearchView,
	}
}

// Store exposes the ranked list for rendering.
func (c *Controller) Store() *ranking.Store { return c.store }

// Entries returns the ranked songs in rank order.
func (c *Controller) Entries() []models.Song { return c.store.SortedEntries() }

// View returns the active region.
func (c *Controller) View() View { return c.view }

// Query returns the last submitted search.
func (c *Controller) Query() Query { return c.query }

// Results returns the candidates of the last successful search.
func (c *Controller) Results() []models.Song { return c.results }

// Alert returns the pending blocking error, if any.
func (c *Controller) Alert() error { return c.alert }

// Notice returns the last informational message.
func (c *Controller) Notice() string { return c.notice }

// DismissAlert clears the pending alert.
func (c *Controller) DismissAlert() { c.alert = nil }

// CanSave reports whether the list is complete.
func (c *Controller) CanSave() bool { return c.store.CanPersist() }

func (c *Controller) fail(err error, msg string, keyvals ...any) error {
	c.logger.Error(msg, append(keyvals, "error", err)...)
	c.alert = err
	c.notice = ""
	return err
}

// Initialized seeds the store from the songs the backend returned.
//
// On failure the store is left empty and an alert is raised.
func (c *Controller) Initialized(songs []models.Song, err error) error {
	if err != nil {
		c.store.Clear()
		return c.fail(err, "failed to load ranked songs")
	}

	skipped := c.store.Initialize(songs)
	for _, song := range skipped {
		c.logger.Warn("skipping song with invalid rank", "song", song.Identity(), "rank", song.Rank)
	}

	c.logger.Debug("ranked list loaded", "songs", c.store.Size())
	return nil
}

// SubmitSearch validates a search and records it as the pending query.
func (c *Controller) SubmitSearch(track string, rank int) (Query, error) {
	track = strings.TrimSpace(track)
	if track == "" {
		err := fmt.Errorf("%w: enter a song name", shared.ErrInvalidInput)
		c.alert = err
		return Query{}, err
	}
	if !models.ValidRank(rank) {
		err := fmt.Errorf("%w: got %d", shared.ErrInvalidRank, rank)
		c.alert = err
		return Query{}, err
	}

	c.query = Query{Track: track, Rank: rank}
	c.notice = ""
	return c.query, nil
}

// ResultsArrived applies a completed search. Results of a search that is no
// longer the latest still apply.
func (c *Controller) ResultsArrived(q Query, songs []models.Song, err error) error {
	if err != nil {
		return c.fail(err, "search failed", "track", q.Track)
	}

	results := make([]models.Song, len(songs))
	for i, song := range songs {
		results[i] = song.WithRank(q.Rank)
	}

	c.query = q
	c.results = results
	c.view = SearchResultsView
	if len(results) == 0 {
		c.notice = fmt.Sprintf("No songs found for %q", q.Track)
	}
	return nil
}

// Pick adds the i-th candidate at its rank.
//
// A duplicate raises an alert and leaves both the store and the results untouched.
func (c *Controller) Pick(i int) error {
	if i < 0 || i >= len(c.results) {
		err := fmt.Errorf("%w: no result at position %d", shared.ErrInvalidArgument, i)
		c.alert = err
		return err
	}

	song := c.results[i]
	if err := c.store.TryAdd(song); err != nil {
		c.alert = err
		c.logger.Info("pick rejected", "song", song.Identity(), "rank", song.Rank, "error", err)
		return err
	}

	c.notice = fmt.Sprintf("Ranked %s at #%d", song.Identity(), song.Rank)
	c.results = nil
	c.query = Query{}
	c.view = SearchView
	return nil
}

// RemoveRank clears the song at rank.
func (c *Controller) RemoveRank(rank int) error {
	song, ok := c.store.Remove(rank)
	if !ok {
		return fmt.Errorf("%w: nothing ranked at #%d", shared.ErrNotFound, rank)
	}

	c.notice = fmt.Sprintf("Removed %s from #%d", song.Identity(), rank)
	return nil
}

// PrepareSave returns the list to submit, or raises an alert when it is not complete.
func (c *Controller) PrepareSave() ([]models.Song, error) {
	songs, err := c.store.Persistable()
	if err != nil {
		c.alert = err
		return nil, err
	}
	return songs, nil
}

// SaveCompleted applies the outcome of a save. On success the local list is
// discarded; callers reload it from the backend.
func (c *Controller) SaveCompleted(err error) error {
	if err != nil {
		return c.fail(err, "failed to save ranked songs")
	}

	c.store.Clear()
	c.results = nil
	c.query = Query{}
	c.view = LeaderboardView
	c.lastView = SearchView
	c.notice = "Top ten saved"
	c.logger.Info("ranked list saved")
	return nil
}

// Back returns from the results to the search form.
func (c *Controller) Back() {
	if c.view == SearchResultsView {
		c.view = SearchView
	}
}

// Forward returns to the last results from the search form.
func (c *Controller) Forward() {
	if c.view == SearchView && len(c.results) > 0 {
		c.view = SearchResultsView
	}
}

// ToggleFocus moves between the leaderboard and the search region, restoring
// whichever search sub-view was active.
func (c *Controller) ToggleFocus() {
	if c.view == LeaderboardView {
		c.view = c.lastView
		return
	}
	c.lastView = c.view
	c.view = LeaderboardView
}

// Load fetches the user's list and seeds the store.
func (c *Controller) Load(ctx context.Context) error {
	songs, err := c.songs.ListSongs(ctx)
	return c.Initialized(songs, err)
}

// Search runs a search end to end.
func (c *Controller) Search(ctx context.Context, track string, rank int) error {
	q, err := c.SubmitSearch(track, rank)
	if err != nil {
		return err
	}

	songs, err := c.songs.SearchSongs(ctx, q.Track, q.Rank)
	return c.ResultsArrived(q, songs, err)
}

// Save submits the complete list and reloads it from the backend.
func (c *Controller) Save(ctx context.Context) error {
	songs, err := c.PrepareSave()
	if err != nil {
		return err
	}

	if err := c.SaveCompleted(c.songs.SaveSongs(ctx, songs)); err != nil {
		return err
	}

	if err := c.Load(ctx); err != nil {
		return fmt.Errorf("saved, but reloading failed: %w", err)
	}
	c.notice = "Top ten saved"
	return nil
}

// IsDuplicate reports whether err is a rejected duplicate pick.
func IsDuplicate(err error) bool {
	return errors.Is(err, shared.ErrDuplicateSong)
}
