package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/topten/internal/models"
)

var (
	_ list.Item = rankedItem{}
	_ list.Item = candidateItem{}
)

// rankedItem wraps a ranked [models.Song] to implement [list.Item].
type rankedItem struct {
	song models.Song
}

func (i rankedItem) FilterValue() string { return i.song.Name }
func (i rankedItem) Title() string       { return fmt.Sprintf("#%d  %s", i.song.Rank, i.song.Name) }
func (i rankedItem) Description() string { return i.song.Artist }

// candidateItem wraps a search result to implement [list.Item].
type candidateItem struct {
	song models.Song
}

func (i candidateItem) FilterValue() string { return i.song.Name }
func (i candidateItem) Title() string       { return i.song.Name }
func (i candidateItem) Description() string {
	return fmt.Sprintf("%s • rank #%d", i.song.Artist, i.song.Rank)
}

func rankedItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = rankedItem{song: song}
	}
	return items
}

func candidateItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = candidateItem{song: song}
	}
	return items
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 40, 16)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}
