// HTTP client for the song backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

// UserHeader carries the name of the user whose list is read or written.
const UserHeader = "X-User-Name"

// APIService implements [SongService] against the backend's JSON endpoints.
type APIService struct {
	baseURL    string
	user       string
	httpClient *http.Client
}

// NewAPIService creates a client for the backend at baseURL acting as user.
func NewAPIService(baseURL, user string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       user,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", shared.ErrNetwork, err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if a.user != "" {
		req.Header.Set(UserHeader, a.user)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// expect turns a non-2xx response into an [shared.ErrNetwork].
func expect(resp *APIResponse, method, path string) error {
	if resp.OK() {
		return nil
	}

	msg := strings.TrimSpace(string(resp.Body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("%w: %s %s returned status %d: %s", shared.ErrNetwork, method, path, resp.StatusCode, msg)
}

// ListSongs fetches the user's ranked songs from GET /songs.
func (a *APIService) ListSongs(ctx context.Context) ([]models.Song, error) {
	resp, err := a.Get(ctx, "/songs")
	if err != nil {
		return nil, err
	}
	if err := expect(resp, http.MethodGet, "/songs"); err != nil {
		return nil, err
	}

	var songs []models.Song
	if err := resp.Decode(&songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// SearchSongs queries GET /search-songs and stamps rank onto every candidate.
func (a *APIService) SearchSongs(ctx context.Context, track string, rank int) ([]models.Song, error) {
	query := url.Values{}
	query.Set("track", track)
	query.Set("rank", strconv.Itoa(rank))
	path := "/search-songs?" + query.Encode()

	resp, err := a.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := expect(resp, http.MethodGet, "/search-songs"); err != nil {
		return nil, err
	}

	var songs []models.Song
	if err := resp.Decode(&songs); err != nil {
		return nil, err
	}

	for i := range songs {
		songs[i].Rank = rank
	}
	return songs, nil
}

// SaveSongs submits songs to POST /songs.
func (a *APIService) SaveSongs(ctx context.Context, songs []models.Song) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to encode songs: %w", err)
	}

	resp, err := a.Post(ctx, "/songs", data)
	if err != nil {
		return err
	}
	return expect(resp, http.MethodPost, "/songs")
}

// Leaderboard fetches the aggregate ranking from GET /leaderboard.
func (a *APIService) Leaderboard(ctx context.Context) ([]models.Ranking, error) {
	resp, err := a.Get(ctx, "/leaderboard")
	if err != nil {
		return nil, err
	}
	if err := expect(resp, http.MethodGet, "/leaderboard"); err != nil {
		return nil, err
	}

	var rankings []models.Ranking
	if err := resp.Decode(&rankings); err != nil {
		return nil, err
	}
	return rankings, nil
}
