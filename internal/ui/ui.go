package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/topten/internal/controller"
	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/services"
	"github.com/desertthunder/topten/internal/shared"
)

const (
	trackField = iota
	rankField
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	songs  services.SongService
	logger *log.Logger

	width  int
	height int

	board      list.Model
	results    list.Model
	trackInput textinput.Model
	rankInput  textinput.Model
	field      int

	spinner spinner.Model
	pending int
	saving  bool

	help help.Model
	keys keyMap

	openURL func(string) error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, songs services.SongService, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}

	track := textinput.New()
	track.Placeholder = "Song name"
	track.CharLimit = 120
	track.Prompt = "Song: "
	track.Focus()

	rank := textinput.New()
	rank.Placeholder = "1-10"
	rank.CharLimit = 2
	rank.Prompt = "Rank: "

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:        ctx,
		ctrl:       controller.New(songs, logger),
		songs:      songs,
		logger:     logger,
		board:      newList("Your Top Ten"),
		results:    newList("Results"),
		trackInput: track,
		rankInput:  rank,
		spinner:    spin,
		help:       help.New(),
		keys:       newKeyMap(),
		openURL:    shared.OpenBrowser,
	}
}

// Controller exposes the session state, mostly for tests.
func (m *Model) Controller() *controller.Controller { return m.ctrl }

// Init fetches the user's ranked songs.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.request(m.fetchSongs()), textinput.Blink)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		paneWidth := max(msg.Width/2-4, 20)
		paneHeight := max(msg.Height-8, 6)
		m.board.SetSize(paneWidth, paneHeight)
		m.results.SetSize(paneWidth, paneHeight-2)
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.ctrl.Alert() != nil {
			return m.handleAlertKeys(msg)
		}
		if key.Matches(msg, m.keys.focus) {
			m.ctrl.ToggleFocus()
			m.syncFocus()
			return m, nil
		}
		if key.Matches(msg, m.keys.save) {
			return m, m.save()
		}

		switch m.ctrl.View() {
		case controller.LeaderboardView:
			return m.handleBoardKeys(msg)
		case controller.SearchView:
			return m.handleFormKeys(msg)
		case controller.SearchResultsView:
			return m.handleResultKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSongsLoaded:
		m.pending--
		data := msg.data.(songsLoaded)
		m.ctrl.Initialized(data.songs, data.err)
		m.syncBoard()

	case MsgResultsArrived:
		m.pending--
		data := msg.data.(resultsArrived)
		if err := m.ctrl.ResultsArrived(data.query, data.songs, data.err); err == nil {
			m.results.SetItems(candidateItems(m.ctrl.Results()))
			m.results.Select(0)
			m.results.Title = fmt.Sprintf("Results for %q at #%d", data.query.Track, data.query.Rank)
		}
		m.syncFocus()

	case MsgSaveCompleted:
		m.pending--
		m.saving = false
		err, _ := msg.data.(error)
		if m.ctrl.SaveCompleted(err) == nil {
			m.syncBoard()
			m.results.SetItems(nil)
			m.syncFocus()
			return m, m.request(m.fetchSongs())
		}

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.logger.Warn("failed to open browser", "error", err)
		}
	}

	return m, nil
}

func (m *Model) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter, m.keys.back) {
		m.ctrl.DismissAlert()
	}
	return m, nil
}

func (m *Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.board.SelectedItem().(rankedItem); ok {
			if err := m.ctrl.RemoveRank(item.song.Rank); err == nil {
				m.syncBoard()
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if item, ok := m.board.SelectedItem().(rankedItem); ok {
			return m, m.openCover(item.song)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.results):
		m.ctrl.Forward()
		m.syncFocus()
		return m, nil
	case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown, msg.Type == tea.KeyShiftTab:
		m.switchField()
		return m, nil
	case msg.Type == tea.KeyEnter:
		if m.field == trackField {
			m.switchField()
			return m, nil
		}
		return m, m.submitSearch()
	}

	var cmd tea.Cmd
	if m.field == trackField {
		m.trackInput, cmd = m.trackInput.Update(msg)
	} else {
		m.rankInput, cmd = m.rankInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.ctrl.Back()
		m.syncFocus()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if err := m.ctrl.Pick(m.results.Index()); err == nil {
			m.syncBoard()
			m.trackInput.Reset()
			m.rankInput.Reset()
			m.setField(trackField)
			m.results.SetItems(nil)
		}
		m.syncFocus()
		return m, nil
	case key.Matches(msg, m.keys.open):
		if item, ok := m.results.SelectedItem().(candidateItem); ok {
			return m, m.openCover(item.song)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) switchField() {
	if m.field == trackField {
		m.setField(rankField)
	} else {
		m.setField(trackField)
	}
}

func (m *Model) setField(field int) {
	m.field = field
	if field == trackField {
		m.trackInput.Focus()
		m.rankInput.Blur()
	} else {
		m.rankInput.Focus()
		m.trackInput.Blur()
	}
}

// syncFocus blurs the inputs unless the form is the active view.
func (m *Model) syncFocus() {
	if m.ctrl.View() == controller.SearchView {
		m.setField(m.field)
		return
	}
	m.trackInput.Blur()
	m.rankInput.Blur()
}

func (m *Model) syncBoard() {
	m.board.SetItems(rankedItems(m.ctrl.Entries()))
	m.board.Title = fmt.Sprintf("Your Top Ten (%d/%d)", m.ctrl.Store().Size(), models.ListSize)
}

// request counts an in-flight call and starts the spinner alongside it.
func (m *Model) request(cmd tea.Cmd) tea.Cmd {
	m.pending++
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) submitSearch() tea.Cmd {
	rank, err := strconv.Atoi(strings.TrimSpace(m.rankInput.Value()))
	if err != nil {
		rank = 0
	}

	q, err := m.ctrl.SubmitSearch(m.trackInput.Value(), rank)
	if err != nil {
		return nil
	}
	return m.request(m.searchSongs(q))
}

func (m *Model) save() tea.Cmd {
	if m.saving {
		return nil
	}
	songs, err := m.ctrl.PrepareSave()
	if err != nil {
		return nil
	}
	m.saving = true
	return m.request(m.saveSongs(songs))
}

func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.ListSongs(m.ctx)
		return songsLoadedMsg(songs, err)
	}
}

func (m *Model) searchSongs(q controller.Query) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.songs.SearchSongs(m.ctx, q.Track, q.Rank)
		return resultsArrivedMsg(q, songs, err)
	}
}

func (m *Model) saveSongs(songs []models.Song) tea.Cmd {
	return func() tea.Msg {
		return saveCompletedMsg(m.songs.SaveSongs(m.ctx, songs))
	}
}

func (m *Model) openCover(song models.Song) tea.Cmd {
	url := song.AlbumCoverURL
	if url == "" {
		return nil
	}
	open := m.openURL
	return func() tea.Msg {
		return browserOpenedMsg(open(url))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if err := m.ctrl.Alert(); err != nil {
		return m.renderAlert(err)
	}

	board := m.renderBoard()
	search := m.renderSearch()
	if m.ctrl.View() == controller.LeaderboardView {
		board = styles.focused.Render(board)
		search = styles.blurred.Render(search)
	} else {
		board = styles.blurred.Render(board)
		search = styles.focused.Render(search)
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, board, search)
	return fmt.Sprintf("%s\n%s\n%s", panes, m.renderStatus(), m.renderHelp())
}

func (m *Model) renderBoard() string {
	if m.ctrl.Store().Size() == 0 {
		return fmt.Sprintf("%s\n%s", styles.title.Render(m.board.Title), styles.help.Render("No songs ranked yet"))
	}
	return m.board.View()
}

func (m *Model) renderSearch() string {
	if m.ctrl.View() == controller.SearchResultsView {
		return m.results.View()
	}

	title := styles.title.Render("Add a Song")
	return fmt.Sprintf("%s\n%s\n%s", title, m.trackInput.View(), m.rankInput.View())
}

func (m *Model) renderStatus() string {
	if m.pending > 0 {
		return fmt.Sprintf("%s Talking to the server...", m.spinner.View())
	}
	if notice := m.ctrl.Notice(); notice != "" {
		return styles.ok.Render(notice)
	}
	if !m.ctrl.CanSave() {
		return styles.warn.Render(fmt.Sprintf("Rank %d more to save", models.ListSize-m.ctrl.Store().Size()))
	}
	return styles.ok.Render("Ready to save (ctrl+s)")
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch m.ctrl.View() {
	case controller.LeaderboardView:
		keys = []key.Binding{m.keys.up, m.keys.down, m.keys.remove, m.keys.open, m.keys.focus, m.keys.save, m.keys.quit}
	case controller.SearchView:
		keys = []key.Binding{m.keys.enter, m.keys.results, m.keys.focus, m.keys.save}
	case controller.SearchResultsView:
		keys = []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.open, m.keys.back, m.keys.quit}
	}
	return m.help.ShortHelpView(keys)
}

func (m *Model) renderAlert(err error) string {
	body := fmt.Sprintf("%s\n\n%v\n\n%s",
		styles.err.Render("Something went wrong"),
		err,
		styles.help.Render("enter/esc to dismiss"),
	)
	return styles.modal.Render(body)
}
