package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/topten/internal/controller"
	"github.com/desertthunder/topten/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsLoaded MsgKind = iota
	MsgResultsArrived
	MsgSaveCompleted
	MsgBrowserOpened
)

type songsLoaded struct {
	songs []models.Song
	err   error
}

type resultsArrived struct {
	query controller.Query
	songs []models.Song
	err   error
}

// songsLoadedMsg is the constructor for [MsgSongsLoaded]
func songsLoadedMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgSongsLoaded, data: songsLoaded{songs, err}}
}

// resultsArrivedMsg is the constructor for [MsgResultsArrived]
func resultsArrivedMsg(q controller.Query, songs []models.Song, err error) Msg {
	return Msg{kind: MsgResultsArrived, data: resultsArrived{q, songs, err}}
}

// saveCompletedMsg is the constructor for [MsgSaveCompleted]
func saveCompletedMsg(err error) Msg {
	return Msg{kind: MsgSaveCompleted, data: err}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
