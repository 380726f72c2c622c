package ranking

import (
	"fmt"
	"sort"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

// Store is a ranked list of at most ten songs keyed by rank.
type Store struct {
	entries map[int]models.Song
	// number of ranks holding each identity; only [Store.Initialize] can push a count above one
	index map[models.Identity]int
}

// NewStore creates an empty ranked list.
func NewStore() *Store {
	return &Store{
		entries: make(map[int]models.Song, models.ListSize),
		index:   make(map[models.Identity]int, models.ListSize),
	}
}

// Initialize replaces the contents of the store with songs, placing each at its own rank.
//
// Server-provided state is trusted, so no duplicate check is made. Songs with a rank outside 1–10 cannot be placed
// and are returned to the caller; when two songs share a rank the later one wins.
func (s *Store) Initialize(songs []models.Song) (skipped []models.Song) {
	s.Clear()
	for _, song := range songs {
		if !models.ValidRank(song.Rank) {
			skipped = append(skipped, song)
			continue
		}
		s.put(song)
	}
	return skipped
}

// TryAdd places song at song.Rank.
//
// Returns [shared.ErrDuplicateSong] when the song's identity is already ranked (at any rank, including the target)
// and [shared.ErrInvalidRank] when the rank is out of range. In both cases the store is unchanged.
// Otherwise any song occupying the target rank is evicted.
func (s *Store) TryAdd(song models.Song) error {
	if !models.ValidRank(song.Rank) {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRank, song.Rank)
	}

	id := song.Identity()
	if s.index[id] > 0 {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateSong, id)
	}

	s.put(song)
	return nil
}

// Remove clears rank and returns the song that was there.
func (s *Store) Remove(rank int) (models.Song, bool) {
	song, ok := s.entries[rank]
	if !ok {
		return models.Song{}, false
	}

	delete(s.entries, rank)
	s.release(song.Identity())
	return song, true
}

// Get returns the song at rank.
func (s *Store) Get(rank int) (models.Song, bool) {
	song, ok := s.entries[rank]
	return song, ok
}

// Contains reports whether a song with identity id is ranked.
func (s *Store) Contains(id models.Identity) bool {
	return s.index[id] > 0
}

// SortedEntries returns every ranked song ordered by ascending rank.
func (s *Store) SortedEntries() []models.Song {
	songs := make([]models.Song, 0, len(s.entries))
	for _, song := range s.entries {
		songs = append(songs, song)
	}

	sort.Slice(songs, func(i, j int) bool {
		return songs[i].Rank < songs[j].Rank
	})

	return songs
}

// Identities returns the identity set, one entry per distinct ranked identity.
func (s *Store) Identities() []models.Identity {
	ids := make([]models.Identity, 0, len(s.index))
	for id := range s.index {
		ids = append(ids, id)
	}
	return ids
}

// Size is the number of occupied ranks.
func (s *Store) Size() int {
	return len(s.entries)
}

// CanPersist reports whether the list is complete: exactly ten ranked songs.
func (s *Store) CanPersist() bool {
	return s.Size() == models.ListSize
}

// Persistable returns the sorted entries for submission, or [shared.ErrIncompleteList] if the list is not complete.
func (s *Store) Persistable() ([]models.Song, error) {
	if !s.CanPersist() {
		return nil, fmt.Errorf("%w: have %d", shared.ErrIncompleteList, s.Size())
	}
	return s.SortedEntries(), nil
}

// Clear empties the store.
func (s *Store) Clear() {
	clear(s.entries)
	clear(s.index)
}

// put inserts song at its rank, evicting any occupant. Callers validate the rank.
func (s *Store) put(song models.Song) {
	if prev, ok := s.entries[song.Rank]; ok {
		s.release(prev.Identity())
	}

	s.entries[song.Rank] = song
	s.index[song.Identity()]++
}

func (s *Store) release(id models.Identity) {
	if s.index[id] <= 1 {
		delete(s.index, id)
		return
	}
	s.index[id]--
}
