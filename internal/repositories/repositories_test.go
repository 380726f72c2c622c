package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
	tu "github.com/desertthunder/topten/internal/testing"
)

func topTen(prefix string) []models.Song {
	songs := make([]models.Song, 0, models.ListSize)
	for rank := models.MinRank; rank <= models.MaxRank; rank++ {
		songs = append(songs, models.Song{
			Name:          fmt.Sprintf("%s %d", prefix, rank),
			Artist:        "Artist",
			AlbumCoverURL: fmt.Sprintf("https://covers/%s/%d", prefix, rank),
			Rank:          rank,
		})
	}
	return songs
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewUserRepository(db)
		user := models.NewUser("casey")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}
	})

	t.Run("Create Duplicate Name", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewUserRepository(db)

		if err := repo.Create(models.NewUser("casey")); err != nil {
			t.Fatalf("failed to create first user: %v", err)
		}
		if err := repo.Create(models.NewUser("casey")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for duplicate name, got %v", err)
		}
	})

	t.Run("Create Blank Name", func(t *testing.T) {
		db := tu.NewTestDB(t)
		if err := NewUserRepository(db).Create(models.NewUser(" ")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewUserRepository(db)
		user := models.NewUser("casey")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Name() != "casey" {
			t.Errorf("expected name casey, got %s", got.Name())
		}

		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetOrCreate", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewUserRepository(db)

		first, err := repo.GetOrCreate("jordan")
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
		second, err := repo.GetOrCreate("jordan")
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}

		if first.ID() != second.ID() {
			t.Errorf("expected same user, got %s and %s", first.ID(), second.ID())
		}
		if n := countRows(t, db, "users"); n != 1 {
			t.Errorf("expected 1 user row, got %d", n)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewUserRepository(db)
		user := models.NewUser("casey")
		repo.Create(user)

		user.SetName("casey-2")
		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}
		if _, err := repo.GetByName("casey-2"); err != nil {
			t.Errorf("expected renamed user to be found: %v", err)
		}

		missing := models.NewUser("ghost")
		missing.SetID("missing")
		if err := repo.Update(missing); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete Cascades Rankings", func(t *testing.T) {
		db := tu.NewTestDB(t)
		users := NewUserRepository(db)
		songs := NewSongRepository(db)

		if err := songs.SaveRanking("casey", topTen("Song")); err != nil {
			t.Fatalf("SaveRanking() error = %v", err)
		}
		user, _ := users.GetByName("casey")

		if err := users.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if n := countRows(t, db, "rankings"); n != 0 {
			t.Errorf("expected rankings removed with user, got %d", n)
		}
		if err := users.Delete(user.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewUserRepository(db)
		for _, name := range []string{"zed", "amy", "bob"} {
			repo.Create(models.NewUser(name))
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(all) != 3 || all[0].Name() != "amy" || all[2].Name() != "zed" {
			t.Errorf("expected users ordered by name, got %d", len(all))
		}

		filtered, err := repo.List(map[string]any{"name": "bob"})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(filtered) != 1 || filtered[0].Name() != "bob" {
			t.Errorf("expected only bob, got %d users", len(filtered))
		}
	})
}

func TestSongRepository(t *testing.T) {
	t.Run("SaveRanking And ListForUser", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewSongRepository(db)

		if err := repo.SaveRanking("casey", topTen("Song")); err != nil {
			t.Fatalf("SaveRanking() error = %v", err)
		}

		songs, err := repo.ListForUser("casey")
		if err != nil {
			t.Fatalf("ListForUser() error = %v", err)
		}
		if len(songs) != 10 {
			t.Fatalf("expected 10 songs, got %d", len(songs))
		}
		for i, song := range songs {
			if song.Rank != i+1 {
				t.Errorf("expected rank %d at index %d, got %d", i+1, i, song.Rank)
			}
			if song.Key != song.Name+song.Artist {
				t.Errorf("expected key populated, got %q", song.Key)
			}
		}
	})

	t.Run("ListForUser Unknown User Is Empty", func(t *testing.T) {
		db := tu.NewTestDB(t)
		songs, err := NewSongRepository(db).ListForUser("nobody")
		if err != nil {
			t.Fatalf("ListForUser() error = %v", err)
		}
		if songs == nil || len(songs) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", songs)
		}
	})

	t.Run("SaveRanking Replaces Previous List", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewSongRepository(db)

		repo.SaveRanking("casey", topTen("Old"))
		if err := repo.SaveRanking("casey", topTen("New")); err != nil {
			t.Fatalf("SaveRanking() error = %v", err)
		}

		songs, _ := repo.ListForUser("casey")
		if len(songs) != 10 || songs[0].Name != "New 1" {
			t.Errorf("expected new list, got %+v", songs)
		}
		if n := countRows(t, db, "rankings"); n != 10 {
			t.Errorf("expected 10 ranking rows, got %d", n)
		}
		if n := countRows(t, db, "songs"); n != 20 {
			t.Errorf("expected old songs kept in catalog, got %d rows", n)
		}
	})

	t.Run("SaveRanking Shares Songs Across Users", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewSongRepository(db)

		repo.SaveRanking("casey", topTen("Song"))
		updated := topTen("Song")
		updated[0].AlbumCoverURL = "https://covers/fresh"
		repo.SaveRanking("jordan", updated)

		if n := countRows(t, db, "songs"); n != 10 {
			t.Errorf("expected songs unique on identity, got %d rows", n)
		}

		songs, _ := repo.ListForUser("casey")
		if songs[0].AlbumCoverURL != "https://covers/fresh" {
			t.Errorf("expected cover refreshed on upsert, got %s", songs[0].AlbumCoverURL)
		}
	})

	t.Run("SaveRanking Rolls Back On Invalid Rank", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewSongRepository(db)

		songs := topTen("Song")
		songs[9].Rank = 11
		if err := repo.SaveRanking("casey", songs); !errors.Is(err, shared.ErrInvalidRank) {
			t.Fatalf("expected ErrInvalidRank, got %v", err)
		}

		for _, table := range []string{"users", "songs", "rankings"} {
			if n := countRows(t, db, table); n != 0 {
				t.Errorf("expected %s empty after rollback, got %d", table, n)
			}
		}
	})

	t.Run("Rankings", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewSongRepository(db)

		a := topTen("Song")
		b := topTen("Song")
		// jordan ranks "Song 10" first and "Song 1" last
		b[0].Rank, b[9].Rank = 10, 1
		c := topTen("Other")
		c[4] = models.Song{Name: "Song 1", Artist: "Artist", Rank: 5}

		for user, songs := range map[string][]models.Song{"casey": a, "jordan": b, "sam": c} {
			if err := repo.SaveRanking(user, songs); err != nil {
				t.Fatalf("SaveRanking(%s) error = %v", user, err)
			}
		}

		rankings, err := repo.Rankings(0)
		if err != nil {
			t.Fatalf("Rankings() error = %v", err)
		}

		top := rankings[0]
		if top.Name != "Song 1" || top.Votes != 3 {
			t.Fatalf("expected Song 1 with 3 votes on top, got %+v", top)
		}
		if math.Abs(top.AverageRank-16.0/3.0) > 1e-9 {
			t.Errorf("expected average rank 16/3, got %v", top.AverageRank)
		}
		if math.Abs(top.Score-models.RankingScore(3, 16.0/3.0)) > 1e-9 {
			t.Errorf("unexpected score %v", top.Score)
		}

		for i := 1; i < len(rankings); i++ {
			prev, cur := rankings[i-1], rankings[i]
			if cur.Score > prev.Score+1e-9 {
				t.Fatalf("rankings not ordered by score at %d: %v > %v", i, cur.Score, prev.Score)
			}
			if math.Abs(cur.Score-prev.Score) < 1e-9 && cur.Name < prev.Name {
				t.Errorf("ties should be ordered by name: %s before %s", prev.Name, cur.Name)
			}
		}

		limited, _ := repo.Rankings(3)
		if len(limited) != 3 {
			t.Errorf("expected 3 rankings with limit, got %d", len(limited))
		}
	})

	t.Run("DeleteRanking", func(t *testing.T) {
		db := tu.NewTestDB(t)
		repo := NewSongRepository(db)
		repo.SaveRanking("casey", topTen("Song"))

		if err := repo.DeleteRanking("casey"); err != nil {
			t.Fatalf("DeleteRanking() error = %v", err)
		}
		songs, _ := repo.ListForUser("casey")
		if len(songs) != 0 {
			t.Errorf("expected empty list, got %d", len(songs))
		}
		if err := repo.DeleteRanking("nobody"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
