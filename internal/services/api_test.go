package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
	tu "github.com/desertthunder/topten/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", "casey", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", "", nil)

			if srv.baseURL != "http://localhost:8080" {
				t.Errorf("expected default baseURL 'http://localhost:8080', got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Sends User Header", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get(UserHeader); got != "casey" {
					t.Errorf("expected %s header 'casey', got %q", UserHeader, got)
				}
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, "casey", nil)
			resp, err := srv.Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", "", nil)
			_, err := srv.Get(context.Background(), "/test\x00invalid")

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}
			srv := NewAPIService("http://example.com", "", client)

			_, err := srv.Get(context.Background(), "/test")
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: make(http.Header)}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			srv := NewAPIService("http://example.com", "", client)

			_, err := srv.Get(context.Background(), "/test")
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := NewAPIService(server.URL, "", nil).Get(ctx, "/test")
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork for canceled context, got %v", err)
			}
		})
	})

	t.Run("ListSongs", func(t *testing.T) {
		t.Run("Decodes Songs", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/songs" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`[{"name":"Tangerine","artist":"Glass Animals","album_cover_url":"u","rank":2}]`))
			}))
			defer server.Close()

			songs, err := NewAPIService(server.URL, "casey", nil).ListSongs(context.Background())
			if err != nil {
				t.Fatalf("ListSongs() error = %v", err)
			}
			if len(songs) != 1 || songs[0].Name != "Tangerine" || songs[0].Rank != 2 || songs[0].AlbumCoverURL != "u" {
				t.Errorf("unexpected songs: %+v", songs)
			}
		})

		t.Run("Non-2xx Is A Network Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "database locked", http.StatusInternalServerError)
			}))
			defer server.Close()

			_, err := NewAPIService(server.URL, "", nil).ListSongs(context.Background())
			if !errors.Is(err, shared.ErrNetwork) {
				t.Fatalf("expected ErrNetwork, got %v", err)
			}
			if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "database locked") {
				t.Errorf("expected status and body in error, got %v", err)
			}
		})

		t.Run("Invalid JSON Is A Network Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			}))
			defer server.Close()

			_, err := NewAPIService(server.URL, "", nil).ListSongs(context.Background())
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})
	})

	t.Run("SearchSongs", func(t *testing.T) {
		t.Run("Encodes Query And Injects Rank", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search-songs" {
					t.Errorf("expected path /search-songs, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("track"); got != "blue & gold" {
					t.Errorf("expected track 'blue & gold', got %q", got)
				}
				if got := r.URL.Query().Get("rank"); got != "4" {
					t.Errorf("expected rank 4, got %q", got)
				}
				w.Write([]byte(`[{"name":"Blue","artist":"A","album_cover_url":"x"},{"name":"Gold","artist":"B","album_cover_url":"y","rank":9}]`))
			}))
			defer server.Close()

			songs, err := NewAPIService(server.URL, "", nil).SearchSongs(context.Background(), "blue & gold", 4)
			if err != nil {
				t.Fatalf("SearchSongs() error = %v", err)
			}
			if len(songs) != 2 {
				t.Fatalf("expected 2 songs, got %d", len(songs))
			}
			for _, s := range songs {
				if s.Rank != 4 {
					t.Errorf("expected every candidate at rank 4, got %+v", s)
				}
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial tcp: refused"))}
			_, err := NewAPIService("http://example.com", "", client).SearchSongs(context.Background(), "x", 1)
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})
	})

	t.Run("SaveSongs", func(t *testing.T) {
		t.Run("Posts JSON Array", func(t *testing.T) {
			var received []models.Song
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/songs" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("expected Content-Type application/json, got %s", ct)
				}
				body, _ := io.ReadAll(r.Body)
				if err := json.Unmarshal(body, &received); err != nil {
					t.Errorf("invalid body: %v", err)
				}
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			songs := []models.Song{{Name: "A", Artist: "X", Rank: 1}, {Name: "B", Artist: "Y", Rank: 2}}
			if err := NewAPIService(server.URL, "casey", nil).SaveSongs(context.Background(), songs); err != nil {
				t.Fatalf("SaveSongs() error = %v", err)
			}
			if len(received) != 2 || received[1].Name != "B" {
				t.Errorf("server received %+v", received)
			}
		})

		t.Run("Rejected By Server", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "exactly 10 ranked songs are required", http.StatusBadRequest)
			}))
			defer server.Close()

			err := NewAPIService(server.URL, "", nil).SaveSongs(context.Background(), nil)
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})
	})

	t.Run("Leaderboard", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/leaderboard" {
				t.Errorf("expected path /leaderboard, got %s", r.URL.Path)
			}
			w.Write([]byte(`[{"name":"A","artist":"X","album_cover_url":"","rank":0,"votes":3,"average_rank":2,"score":4.35}]`))
		}))
		defer server.Close()

		rankings, err := NewAPIService(server.URL, "", nil).Leaderboard(context.Background())
		if err != nil {
			t.Fatalf("Leaderboard() error = %v", err)
		}
		if len(rankings) != 1 || rankings[0].Votes != 3 || rankings[0].Name != "A" {
			t.Errorf("unexpected rankings: %+v", rankings)
		}
	})

	t.Run("APIResponse", func(t *testing.T) {
		for status, want := range map[int]bool{199: false, 200: true, 201: true, 299: true, 301: false, 404: false} {
			if got := (&APIResponse{StatusCode: status}).OK(); got != want {
				t.Errorf("OK() for %d = %v, want %v", status, got, want)
			}
		}
	})
}
