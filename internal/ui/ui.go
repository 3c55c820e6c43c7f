// package ui implements the interactive terminal interface for browsing
// listening history and generating recommendations.
package ui

import (
	"context"
	"fmt"

	"github.com/a-s-gorski/spotify-recommender-cli/internal/models"
	"github.com/a-s-gorski/spotify-recommender-cli/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HistoryView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	spotify      tasks.ProfileService
	engine       tasks.RecommendEngine
	opts         tasks.RunOptions
	width        int
	height       int
	historyList  list.Model
	history      []models.Track
	resultList   list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan runCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "recommend"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.yes, k.no},
		{k.restart, k.quit},
	}
}

// trackItem wraps [models.Track] to implement list.Item.
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistName
	if i.track.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.AlbumName)
	}
	return desc
}

type historyFetchedMsg struct {
	history []models.Track
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.RunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, spotify tasks.ProfileService, engine tasks.RecommendEngine, opts tasks.RunOptions) *Model {
	return &Model{
		ctx:     ctx,
		view:    HistoryView,
		spotify: spotify,
		engine:  engine,
		opts:    opts,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching listening history from Spotify.
func (m *Model) Init() tea.Cmd {
	return m.fetchHistory()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.historyList.Width() == 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case historyFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.history = msg.history
		items := make([]list.Item, len(msg.history))
		for i, track := range msg.history {
			items[i] = trackItem{track: track}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.historyList.Title = "Recently Played"
		m.historyList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		if msg.result != nil {
			items := make([]list.Item, len(msg.result.Recommended))
			for i, track := range msg.result.Recommended {
				items[i] = trackItem{track: track}
			}
			m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
			m.resultList.Title = "Recommended Tracks"
			m.resultList.SetSize(m.width-4, m.height-8)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case HistoryView:
		return m.renderHistory()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if len(m.history) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = HistoryView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = HistoryView
		m.result = nil
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HistoryView:
		m.historyList, cmd = m.historyList.Update(msg)
	case ResultView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		history, err := m.spotify.RecentlyPlayed(m.ctx, m.opts.HistoryLimit)
		return historyFetchedMsg{history: history, err: err}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	done := make(chan runCompleteMsg, 1)
	go func() {
		result, err := m.engine.Run(m.ctx, progressChan, m.opts)
		done <- runCompleteMsg{result: result, err: err}
		close(progressChan)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderHistory() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Generate %s recommendations from %d tracks?", m.opts.Strategy.Name(), len(m.history)))
	info := fmt.Sprintf("\nRequested count: %d\n", m.opts.Count)
	if m.opts.PlaylistName != "" {
		info += fmt.Sprintf("Save as playlist: %s\n", m.opts.PlaylistName)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Generating Recommendations")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchHistory:
		phase = "Fetching listening history..."
	case tasks.FetchRecommendations:
		phase = "Fetching recommendations..."
	case tasks.FetchMetadata:
		phase = "Resolving track metadata..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil && m.result == nil {
		return styles.err.Render(fmt.Sprintf("Recommendation run failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	var header string
	switch {
	case m.result.PlaylistEmpty:
		header = styles.warn.Render(fmt.Sprintf("⚠ Playlist %s was created but could not be filled", m.result.PlaylistID))
	case m.result.PlaylistID != "":
		header = styles.ok.Render(fmt.Sprintf("✓ Saved %d tracks to playlist %s", len(m.result.Recommended), m.result.PlaylistID))
	default:
		header = styles.ok.Render(fmt.Sprintf("✓ %d recommendations", len(m.result.Recommended)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", header, m.resultList.View(), helpView)
}
