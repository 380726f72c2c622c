package ranking

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

func song(name, artist string, rank int) models.Song {
	return models.Song{Name: name, Artist: artist, Rank: rank, AlbumCoverURL: "https://i.scdn.co/" + name}
}

// assertIndexConsistent checks that the identity set equals the identities of the stored songs.
func assertIndexConsistent(t *testing.T, s *Store) {
	t.Helper()

	want := map[models.Identity]bool{}
	for _, entry := range s.SortedEntries() {
		want[entry.Identity()] = true
	}

	got := map[models.Identity]bool{}
	for _, id := range s.Identities() {
		got[id] = true
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("identity set out of sync: index=%v entries=%v", got, want)
	}
}

func fullStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	for rank := 1; rank <= 10; rank++ {
		if err := s.TryAdd(song(fmt.Sprintf("Song %d", rank), "Artist", rank)); err != nil {
			t.Fatalf("TryAdd(rank %d) error = %v", rank, err)
		}
	}
	return s
}

func TestStore(t *testing.T) {
	t.Run("NewStore Is Empty", func(t *testing.T) {
		s := NewStore()
		if s.Size() != 0 || s.CanPersist() || len(s.SortedEntries()) != 0 {
			t.Errorf("expected empty store, got size %d", s.Size())
		}
	})

	t.Run("Initialize", func(t *testing.T) {
		t.Run("Places Songs At Their Ranks", func(t *testing.T) {
			s := NewStore()
			skipped := s.Initialize([]models.Song{song("A", "X", 2), song("B", "Y", 9)})

			if len(skipped) != 0 {
				t.Errorf("expected nothing skipped, got %v", skipped)
			}
			if got, ok := s.Get(9); !ok || got.Name != "B" {
				t.Errorf("expected B at rank 9, got %+v", got)
			}
			if !s.Contains(models.Identity{Name: "A", Artist: "X"}) {
				t.Error("expected A's identity to be indexed")
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Replaces Existing Contents", func(t *testing.T) {
			s := NewStore()
			s.TryAdd(song("Old", "X", 1))
			s.Initialize([]models.Song{song("New", "Y", 3)})

			if s.Size() != 1 || s.Contains(models.Identity{Name: "Old", Artist: "X"}) {
				t.Errorf("expected only the initialized song, got %v", s.SortedEntries())
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Skips Out Of Range Ranks", func(t *testing.T) {
			s := NewStore()
			skipped := s.Initialize([]models.Song{song("A", "X", 0), song("B", "Y", 11), song("C", "Z", 10)})

			if len(skipped) != 2 {
				t.Errorf("expected 2 skipped songs, got %d", len(skipped))
			}
			if s.Size() != 1 {
				t.Errorf("expected 1 stored song, got %d", s.Size())
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Trusts Duplicates From Server", func(t *testing.T) {
			s := NewStore()
			s.Initialize([]models.Song{song("A", "X", 1), song("A", "X", 2)})

			if s.Size() != 2 {
				t.Fatalf("expected both copies stored, got %d", s.Size())
			}

			s.Remove(1)
			if !s.Contains(models.Identity{Name: "A", Artist: "X"}) {
				t.Error("identity should stay indexed while rank 2 still holds it")
			}
			assertIndexConsistent(t, s)

			s.Remove(2)
			if s.Contains(models.Identity{Name: "A", Artist: "X"}) {
				t.Error("identity should be released once no rank holds it")
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Same Rank Twice Keeps Later Song", func(t *testing.T) {
			s := NewStore()
			s.Initialize([]models.Song{song("A", "X", 4), song("B", "Y", 4)})

			if got, _ := s.Get(4); got.Name != "B" {
				t.Errorf("expected B at rank 4, got %s", got.Name)
			}
			if s.Contains(models.Identity{Name: "A", Artist: "X"}) {
				t.Error("overwritten song should not stay indexed")
			}
			assertIndexConsistent(t, s)
		})
	})

	t.Run("TryAdd", func(t *testing.T) {
		t.Run("Adds To Empty Rank", func(t *testing.T) {
			s := NewStore()
			if err := s.TryAdd(song("A", "X", 5)); err != nil {
				t.Fatalf("TryAdd() error = %v", err)
			}
			if s.Size() != 1 {
				t.Errorf("expected size 1, got %d", s.Size())
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Replaces Occupant And Releases Its Identity", func(t *testing.T) {
			s := NewStore()
			s.TryAdd(song("A", "X", 5))

			if err := s.TryAdd(song("B", "Y", 5)); err != nil {
				t.Fatalf("TryAdd() error = %v", err)
			}

			if got, _ := s.Get(5); got.Name != "B" {
				t.Errorf("expected B at rank 5, got %s", got.Name)
			}
			if s.Contains(models.Identity{Name: "A", Artist: "X"}) {
				t.Error("evicted identity should be removed")
			}
			if s.Size() != 1 {
				t.Errorf("expected size 1, got %d", s.Size())
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Rejects Duplicate At Another Rank", func(t *testing.T) {
			s := NewStore()
			s.TryAdd(song("A", "X", 5))
			before := s.SortedEntries()

			err := s.TryAdd(song("A", "X", 7))
			if !errors.Is(err, shared.ErrDuplicateSong) {
				t.Fatalf("expected ErrDuplicateSong, got %v", err)
			}
			if !reflect.DeepEqual(before, s.SortedEntries()) {
				t.Error("store changed after rejected add")
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Rejects Duplicate At Same Rank", func(t *testing.T) {
			s := NewStore()
			original := song("A", "X", 5)
			s.TryAdd(original)

			replacement := original
			replacement.AlbumCoverURL = "https://other"
			if err := s.TryAdd(replacement); !errors.Is(err, shared.ErrDuplicateSong) {
				t.Fatalf("expected ErrDuplicateSong, got %v", err)
			}
			if got, _ := s.Get(5); got.AlbumCoverURL != original.AlbumCoverURL {
				t.Error("duplicate add must not overwrite the stored song")
			}
		})

		t.Run("Rejects Duplicate That Would Evict Another Song", func(t *testing.T) {
			s := NewStore()
			s.TryAdd(song("A", "X", 1))
			s.TryAdd(song("B", "Y", 2))

			if err := s.TryAdd(song("A", "X", 2)); !errors.Is(err, shared.ErrDuplicateSong) {
				t.Fatalf("expected ErrDuplicateSong, got %v", err)
			}
			if got, _ := s.Get(2); got.Name != "B" {
				t.Error("rank 2 occupant must survive a rejected add")
			}
			assertIndexConsistent(t, s)
		})

		t.Run("Same Name Different Artist Is Not A Duplicate", func(t *testing.T) {
			s := NewStore()
			s.TryAdd(song("Hurt", "Nine Inch Nails", 1))

			if err := s.TryAdd(song("Hurt", "Johnny Cash", 2)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})

		t.Run("Rejects Invalid Rank", func(t *testing.T) {
			s := NewStore()
			for _, rank := range []int{0, 11, -3} {
				if err := s.TryAdd(song("A", "X", rank)); !errors.Is(err, shared.ErrInvalidRank) {
					t.Errorf("rank %d: expected ErrInvalidRank, got %v", rank, err)
				}
			}
			if s.Size() != 0 {
				t.Errorf("expected empty store, got %d", s.Size())
			}
		})

		t.Run("Scenario Add Then Duplicate", func(t *testing.T) {
			s := NewStore()
			s.Initialize(nil)

			if err := s.TryAdd(song("A", "X", 5)); err != nil {
				t.Fatalf("first add failed: %v", err)
			}
			if err := s.TryAdd(song("A", "X", 7)); !errors.Is(err, shared.ErrDuplicateSong) {
				t.Fatalf("expected ErrDuplicateSong, got %v", err)
			}

			entries := s.SortedEntries()
			if len(entries) != 1 || entries[0].Rank != 5 || entries[0].Name != "A" {
				t.Errorf("expected exactly rank 5 → A, got %v", entries)
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		s := NewStore()
		s.TryAdd(song("A", "X", 3))

		removed, ok := s.Remove(3)
		if !ok || removed.Name != "A" {
			t.Fatalf("Remove(3) = %+v, %v", removed, ok)
		}
		if _, ok := s.Remove(3); ok {
			t.Error("removing an empty rank should report false")
		}
		if err := s.TryAdd(song("A", "X", 8)); err != nil {
			t.Errorf("removed song should be addable again: %v", err)
		}
		assertIndexConsistent(t, s)
	})

	t.Run("SortedEntries Uses Numeric Order", func(t *testing.T) {
		s := NewStore()
		for _, rank := range []int{3, 1, 10, 2} {
			s.TryAdd(song(fmt.Sprintf("S%d", rank), "X", rank))
		}

		var ranks []int
		for _, entry := range s.SortedEntries() {
			ranks = append(ranks, entry.Rank)
		}

		if want := []int{1, 2, 3, 10}; !reflect.DeepEqual(ranks, want) {
			t.Errorf("SortedEntries() ranks = %v, want %v", ranks, want)
		}
	})

	t.Run("CanPersist", func(t *testing.T) {
		s := fullStore(t)
		if !s.CanPersist() {
			t.Error("expected CanPersist at 10 entries")
		}

		s.Remove(4)
		if s.CanPersist() {
			t.Error("expected CanPersist false at 9 entries")
		}
		if _, err := s.Persistable(); !errors.Is(err, shared.ErrIncompleteList) {
			t.Errorf("expected ErrIncompleteList, got %v", err)
		}

		s.TryAdd(song("Replacement", "Y", 4))
		songs, err := s.Persistable()
		if err != nil {
			t.Fatalf("Persistable() error = %v", err)
		}
		if len(songs) != 10 || songs[0].Rank != 1 || songs[9].Rank != 10 {
			t.Errorf("expected 10 songs in rank order, got %v", songs)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s := fullStore(t)
		s.Clear()
		if s.Size() != 0 || len(s.Identities()) != 0 {
			t.Error("expected empty store after Clear")
		}
	})
}

// TestStoreInvariant drives random add/remove sequences and checks the identity set after every step.
func TestStoreInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	artists := []string{"X", "Y"}

	for round := 0; round < 50; round++ {
		s := NewStore()
		for step := 0; step < 200; step++ {
			candidate := song(names[rng.Intn(len(names))], artists[rng.Intn(len(artists))], rng.Intn(12))

			if rng.Intn(5) == 0 {
				s.Remove(rng.Intn(11) + 1)
			} else {
				before := s.SortedEntries()
				alreadyRanked := s.Contains(candidate.Identity())

				err := s.TryAdd(candidate)
				switch {
				case !models.ValidRank(candidate.Rank):
					if !errors.Is(err, shared.ErrInvalidRank) {
						t.Fatalf("expected ErrInvalidRank for %+v, got %v", candidate, err)
					}
				case alreadyRanked:
					if !errors.Is(err, shared.ErrDuplicateSong) {
						t.Fatalf("expected ErrDuplicateSong for %+v, got %v", candidate, err)
					}
					if !reflect.DeepEqual(before, s.SortedEntries()) {
						t.Fatal("rejected add changed the store")
					}
				default:
					if err != nil {
						t.Fatalf("unexpected error for %+v: %v", candidate, err)
					}
				}
			}

			assertIndexConsistent(t, s)
			if s.Size() > models.ListSize {
				t.Fatalf("store grew past %d entries", models.ListSize)
			}

			entries := s.SortedEntries()
			if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank }) {
				t.Fatal("entries not sorted by rank")
			}
		}
	}
}
