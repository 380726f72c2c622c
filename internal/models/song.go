package models

import "fmt"

const (
	MinRank  = 1
	MaxRank  = 10
	ListSize = MaxRank - MinRank + 1
)

// Identity is the (name, artist) pair used to detect duplicate songs regardless of rank.
type Identity struct {
	Name   string
	Artist string
}

// Key renders the identity the way the backend does on the wire: name immediately followed by artist.
func (i Identity) Key() string {
	return i.Name + i.Artist
}

func (i Identity) String() string {
	return fmt.Sprintf("%s - %s", i.Artist, i.Name)
}

// Song is a track placed at a rank in a user's list.
type Song struct {
	Name          string `json:"name"`
	Artist        string `json:"artist"`
	AlbumCoverURL string `json:"album_cover_url"`
	Rank          int    `json:"rank,omitempty"`
	URI           string `json:"uri,omitempty"`
	Key           string `json:"key,omitempty"`
}

// Identity returns the song's duplicate-detection identity.
func (s Song) Identity() Identity {
	return Identity{Name: s.Name, Artist: s.Artist}
}

// WithRank returns a copy of s placed at rank.
func (s Song) WithRank(rank int) Song {
	s.Rank = rank
	return s
}

// ValidRank reports whether rank is within [MinRank, MaxRank].
func ValidRank(rank int) bool {
	return rank >= MinRank && rank <= MaxRank
}

// Ranking is a song's standing across all users' lists.
//
// Score favors songs that appear on many lists, with a small bonus for ranking near the top:
// votes + 0.15 * (11 - average rank).
type Ranking struct {
	Song
	Votes       int     `json:"votes"`
	AverageRank float64 `json:"average_rank"`
	Score       float64 `json:"score"`
}

// RankingScore computes the aggregate score for a song with the given vote count and average rank.
func RankingScore(votes int, averageRank float64) float64 {
	if votes == 0 {
		return 0
	}
	return float64(votes) + 0.15*(float64(MaxRank+1)-averageRank)
}
