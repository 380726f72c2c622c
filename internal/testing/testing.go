// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

// MockSongService is an in-memory test double for services.SongService.
//
// Set the Err fields to make the matching call fail; every call is recorded.
type MockSongService struct {
	mu sync.Mutex

	Songs       []models.Song
	Results     []models.Song
	Rankings    []models.Ranking
	Saved       [][]models.Song
	SearchCalls []string

	ListErr        error
	SearchErr      error
	SaveErr        error
	LeaderboardErr error

	ListCalls int
}

// NewMockSongService returns a mock whose ListSongs serves songs.
func NewMockSongService(songs ...models.Song) *MockSongService {
	return &MockSongService{Songs: songs}
}

func (m *MockSongService) ListSongs(ctx context.Context) ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.Song(nil), m.Songs...), nil
}

// SearchSongs returns Results stamped with rank.
func (m *MockSongService) SearchSongs(ctx context.Context, track string, rank int) ([]models.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls = append(m.SearchCalls, track)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	results := make([]models.Song, len(m.Results))
	for i, song := range m.Results {
		results[i] = song.WithRank(rank)
	}
	return results, nil
}

// SaveSongs records songs and, on success, serves them from later ListSongs calls.
func (m *MockSongService) SaveSongs(ctx context.Context, songs []models.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, append([]models.Song(nil), songs...))
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Songs = append([]models.Song(nil), songs...)
	return nil
}

func (m *MockSongService) Leaderboard(ctx context.Context) ([]models.Ranking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LeaderboardErr != nil {
		return nil, m.LeaderboardErr
	}
	return m.Rankings, nil
}

// SaveCount reports how many times SaveSongs was called.
func (m *MockSongService) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

// MockSearcher is a test double for services.TrackSearcher.
type MockSearcher struct {
	Results []models.Song
	Err     error
	Queries []string
}

func (m *MockSearcher) SearchTracks(ctx context.Context, track string, rank int) ([]models.Song, error) {
	m.Queries = append(m.Queries, track)
	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]models.Song, len(m.Results))
	for i, song := range m.Results {
		results[i] = song.WithRank(rank)
	}
	return results, nil
}

// NewTestDB creates an in-memory SQLite database with migrations applied, closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// RankedSongs builds a full list of ten distinct songs named "prefix A" through "prefix J".
func RankedSongs(prefix string) []models.Song {
	songs := make([]models.Song, 0, models.ListSize)
	for rank := models.MinRank; rank <= models.MaxRank; rank++ {
		songs = append(songs, models.Song{
			Name:          prefix + " " + string(rune('A'+rank-1)),
			Artist:        "Artist",
			AlbumCoverURL: "https://covers.example/" + prefix,
			Rank:          rank,
		})
	}
	return songs
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
