package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/ranking"
	"github.com/desertthunder/topten/internal/repositories"
	"github.com/desertthunder/topten/internal/services"
	"github.com/desertthunder/topten/internal/shared"
)

const maxBodyBytes = 1 << 20

// UserCookie names the cookie browser clients identify themselves with.
const UserCookie = "user"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps sentinel errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidRank),
		errors.Is(err, shared.ErrDuplicateSong),
		errors.Is(err, shared.ErrIncompleteList):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserResolver picks the user a request acts for.
type UserResolver struct {
	defaultUser string
}

// NewUserResolver creates a resolver falling back to defaultUser.
func NewUserResolver(defaultUser string) *UserResolver {
	return &UserResolver{defaultUser: defaultUser}
}

// Resolve checks the user header, then the user cookie, then the default.
func (u *UserResolver) Resolve(r *http.Request) string {
	if name := strings.TrimSpace(r.Header.Get(services.UserHeader)); name != "" {
		return name
	}
	if cookie, err := r.Cookie(UserCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}
	return u.defaultUser
}

// SongsHandler serves GET and POST /songs for the requesting user.
type SongsHandler struct {
	songs  *repositories.SongRepository
	users  *UserResolver
	logger *log.Logger
}

// NewSongsHandler creates a [SongsHandler].
func NewSongsHandler(songs *repositories.SongRepository, users *UserResolver, logger *log.Logger) *SongsHandler {
	return &SongsHandler{songs: songs, users: users, logger: logger}
}

func (h *SongsHandler) Routes() []string { return []string{"/songs"} }

func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SongsHandler) list(w http.ResponseWriter, r *http.Request) {
	user := h.users.Resolve(r)

	songs, err := h.songs.ListForUser(user)
	if err != nil {
		h.logger.Error("failed to list songs", "user", user, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load songs")
		return
	}

	writeJSON(w, http.StatusOK, songs)
}

func (h *SongsHandler) save(w http.ResponseWriter, r *http.Request) {
	user := h.users.Resolve(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	var songs []models.Song
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&songs); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}

	list, err := validateList(songs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if err := h.songs.SaveRanking(user, list); err != nil {
		h.logger.Error("failed to save songs", "user", user, "error", err)
		writeError(w, statusFor(err), "failed to save songs")
		return
	}

	h.logger.Info("ranked list saved", "user", user)
	writeJSON(w, http.StatusCreated, list)
}

// validateList requires exactly ten named songs with distinct ranks and identities, returned in rank order.
func validateList(songs []models.Song) ([]models.Song, error) {
	store := ranking.NewStore()
	for _, song := range songs {
		if strings.TrimSpace(song.Name) == "" || strings.TrimSpace(song.Artist) == "" {
			return nil, fmt.Errorf("%w: every song needs a name and an artist", shared.ErrInvalidInput)
		}
		if _, taken := store.Get(song.Rank); taken {
			return nil, fmt.Errorf("%w: rank %d appears twice", shared.ErrInvalidInput, song.Rank)
		}
		if err := store.TryAdd(song); err != nil {
			return nil, err
		}
	}

	return store.Persistable()
}

// SearchHandler serves GET /search-songs.
type SearchHandler struct {
	searcher services.TrackSearcher
	logger   *log.Logger
}

// NewSearchHandler creates a [SearchHandler]. A nil searcher answers 503.
func NewSearchHandler(searcher services.TrackSearcher, logger *log.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

func (h *SearchHandler) Routes() []string { return []string{"/search-songs"} }

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	track := strings.TrimSpace(r.URL.Query().Get("track"))
	if track == "" {
		writeError(w, http.StatusBadRequest, "track is required")
		return
	}

	rank, err := strconv.Atoi(r.URL.Query().Get("rank"))
	if err != nil || !models.ValidRank(rank) {
		writeError(w, http.StatusBadRequest, shared.ErrInvalidRank.Error())
		return
	}

	if h.searcher == nil {
		writeError(w, http.StatusServiceUnavailable, "search is not configured")
		return
	}

	songs, err := h.searcher.SearchTracks(r.Context(), track, rank)
	if err != nil {
		h.logger.Error("search failed", "track", track, "error", err)
		writeError(w, statusFor(err), "search failed")
		return
	}

	writeJSON(w, http.StatusOK, songs)
}

// LeaderboardHandler serves GET /leaderboard.
type LeaderboardHandler struct {
	songs  *repositories.SongRepository
	logger *log.Logger
}

// NewLeaderboardHandler creates a [LeaderboardHandler].
func NewLeaderboardHandler(songs *repositories.SongRepository, logger *log.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{songs: songs, logger: logger}
}

func (h *LeaderboardHandler) Routes() []string { return []string{"/leaderboard"} }

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	rankings, err := h.songs.Rankings(limit)
	if err != nil {
		h.logger.Error("failed to build leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, rankings)
}
