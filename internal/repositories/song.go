package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

// SongRepository persists songs and the per-user rankings that point at them.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// SaveRanking stores songs as userName's list in one transaction.
//
// The user is created on first save. Songs are upserted on (name, artist) and
// rankings on (user, rank), so saving a full list replaces the previous one.
func (r *SongRepository) SaveRanking(userName string, songs []models.Song) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		user, err := getOrCreateUser(tx, userName)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, song := range songs {
			if !models.ValidRank(song.Rank) {
				return fmt.Errorf("%w: %q has rank %d", shared.ErrInvalidRank, song.Name, song.Rank)
			}

			songID, err := upsertSong(tx, song, now)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`
				INSERT INTO rankings (user_id, song_id, rank, updated_at) VALUES (?, ?, ?, ?)
				ON CONFLICT (user_id, rank) DO UPDATE SET song_id = excluded.song_id, updated_at = excluded.updated_at
			`, user.ID(), songID, song.Rank, now)
			if err != nil {
				return fmt.Errorf("failed to upsert ranking %d: %w", song.Rank, err)
			}
		}

		return nil
	})
}

// upsertSong inserts song or refreshes its cover and URI, returning the row ID.
func upsertSong(tx *sql.Tx, song models.Song, now time.Time) (string, error) {
	_, err := tx.Exec(`
		INSERT INTO songs (id, name, artist, uri, album_cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, artist) DO UPDATE SET
			album_cover_url = excluded.album_cover_url,
			uri = CASE WHEN excluded.uri != '' THEN excluded.uri ELSE songs.uri END,
			updated_at = excluded.updated_at
	`, shared.GenerateID(), song.Name, song.Artist, song.URI, song.AlbumCoverURL, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to upsert song %q: %w", song.Name, err)
	}

	var id string
	err = tx.QueryRow(`SELECT id FROM songs WHERE name = ? AND artist = ?`, song.Name, song.Artist).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to read song id for %q: %w", song.Name, err)
	}
	return id, nil
}

// ListForUser returns userName's ranked songs in rank order.
//
// An unknown user has an empty list.
func (r *SongRepository) ListForUser(userName string) ([]models.Song, error) {
	query := `
		SELECT s.name, s.artist, s.album_cover_url, s.uri, r.rank
		FROM rankings r
		JOIN users u ON u.id = r.user_id
		JOIN songs s ON s.id = r.song_id
		WHERE u.name = ?
		ORDER BY r.rank ASC
	`

	rows, err := r.db.Query(query, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.Name, &song.Artist, &song.AlbumCoverURL, &song.URI, &song.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		song.Key = song.Identity().Key()
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Rankings aggregates every user's list into a leaderboard ordered by score, then name.
//
// A limit of zero or less returns every ranked song.
func (r *SongRepository) Rankings(limit int) ([]models.Ranking, error) {
	query := `
		SELECT s.name, s.artist, s.album_cover_url, s.uri, COUNT(r.user_id) AS votes, AVG(r.rank) AS average_rank
		FROM rankings r
		JOIN songs s ON s.id = r.song_id
		GROUP BY s.id
		ORDER BY (COUNT(r.user_id) + 0.15 * (11 - AVG(r.rank))) DESC, s.name ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	rankings := []models.Ranking{}
	for rows.Next() {
		var ranking models.Ranking
		err := rows.Scan(
			&ranking.Name,
			&ranking.Artist,
			&ranking.AlbumCoverURL,
			&ranking.URI,
			&ranking.Votes,
			&ranking.AverageRank,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}

		ranking.Key = ranking.Identity().Key()
		ranking.Score = models.RankingScore(ranking.Votes, ranking.AverageRank)
		rankings = append(rankings, ranking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return rankings, nil
}

// DeleteRanking clears userName's list, keeping the songs for other users.
func (r *SongRepository) DeleteRanking(userName string) error {
	user, err := r.userByName(userName)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(`DELETE FROM rankings WHERE user_id = ?`, user.ID()); err != nil {
		return fmt.Errorf("failed to delete rankings: %w", err)
	}
	return nil
}

func (r *SongRepository) userByName(name string) (*models.User, error) {
	user, err := getUserByName(r.db, name)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: no list saved for %s", shared.ErrNotFound, name)
	}
	return user, err
}
