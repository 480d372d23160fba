package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/tasks"
)

var styles = formatter.DefaultPalette

// ViewState represents the current view in the browser.
type ViewState int

const (
	AlbumListView ViewState = iota
	TrackListView
	ConfirmView
	ExportView
	ResultView
)

// Catalog is the part of the catalog service the browser reads from.
type Catalog interface {
	Albums(criteria map[string]any) ([]*models.Album, error)
	Songs(albumID string) ([]*models.Song, error)
}

// Model represents the browser state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      Catalog
	engine       *tasks.ExportEngine
	opts         tasks.BulkExportOpts
	criteria     map[string]any
	width        int
	height       int
	albumList    list.Model
	albumsReady  bool
	trackList    list.Model
	tracksReady  bool
	selected     *models.Album
	songs        []*models.Song
	progressChan chan tasks.ProgressUpdate
	doneChan     chan exportCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a browser over catalog. Albums are narrowed by criteria and exported with opts.
func NewModel(ctx context.Context, catalog Catalog, engine *tasks.ExportEngine, criteria map[string]any, opts tasks.BulkExportOpts) *Model {
	opts.Kind = formatter.KindAlbum
	return &Model{
		ctx:      ctx,
		view:     AlbumListView,
		catalog:  catalog,
		engine:   engine,
		opts:     opts,
		criteria: criteria,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// State returns the current view state.
func (m *Model) State() ViewState { return m.view }

// Init loads the album list.
func (m *Model) Init() tea.Cmd {
	return m.fetchAlbums()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ExportView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case albumsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.albumList = list.New(albumItems(msg.albums), list.NewDefaultDelegate(), 0, 0)
		m.albumList.Title = fmt.Sprintf("Albums (%d)", len(msg.albums))
		m.albumsReady = true
		m.resize()
		return m, nil

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = AlbumListView
			return m, nil
		}
		m.err = nil
		m.selected = msg.album
		m.songs = msg.songs
		m.trackList = list.New(trackItems(msg.songs), list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("%s - %s", msg.album.ArtistName(), msg.album.Title())
		m.tracksReady = true
		m.resize()
		m.view = TrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case exportCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.Err(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case AlbumListView:
		return m.renderAlbumList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// resize fits the loaded lists to the window
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	w, h := max(m.width-4, 1), max(m.height-8, 1)
	if m.albumsReady {
		m.albumList.SetSize(w, h)
	}
	if m.tracksReady {
		m.trackList.SetSize(w, h)
	}
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.albumsReady && m.albumList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.albumList, cmd = m.albumList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if !m.albumsReady {
			return m, nil
		}
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			return m, m.fetchTracks(item.album)
		}
		return m, nil
	}

	if !m.albumsReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = AlbumListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = ExportView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = AlbumListView
		m.selected = nil
		m.songs = nil
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.view == AlbumListView && m.albumsReady:
		m.albumList, cmd = m.albumList.Update(msg)
	case m.view == TrackListView && m.tracksReady:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchAlbums() tea.Cmd {
	return func() tea.Msg {
		albums, err := m.catalog.Albums(m.criteria)
		return albumsFetchedMsg{albums: albums, err: err}
	}
}

func (m *Model) fetchTracks(album *models.Album) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.Songs(album.ID())
		return tracksFetchedMsg{album: album, songs: songs, err: err}
	}
}

// startExport runs the export engine for the selected album in the background
func (m *Model) startExport() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan exportCompleteMsg, 1)
	m.progressChan = progress
	m.doneChan = done

	id := m.selected.ID()
	go func() {
		result, err := m.engine.BulkExport(m.ctx, progress, []string{id}, m.opts)
		close(progress)
		done <- exportCompleteMsg{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return exportCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderAlbumList() string {
	if !m.albumsReady {
		return styles.Help("Loading albums...")
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.albumList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.export, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.Title(fmt.Sprintf("Export '%s' as %s?", m.selected.Title(), m.opts.Format))

	var total int
	for _, s := range m.songs {
		total += s.Length()
	}
	info := fmt.Sprintf("\nArtist: %s\nTracks: %d (%s)\n", m.selected.ArtistName(), len(m.songs), formatter.FormatDuration(total))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.Title("Exporting Album")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadListing:
		phase = "Loading album..."
	case tasks.ExportListing:
		phase = fmt.Sprintf("Writing files (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteManifest:
		phase = "Writing manifest..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.Err(fmt.Sprintf("Export failed: %v", m.err)), helpView)
	}
	if m.result == nil || len(m.result.Results) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.Err("No result available"), helpView)
	}

	res := m.result.Results[0]
	if !res.Success {
		return fmt.Sprintf("%s\n\n%s", styles.Warn(fmt.Sprintf("Export of %s failed: %s", res.Title, res.Message)), helpView)
	}

	out := styles.OK("✓ Export Complete!") + "\n"
	for _, f := range res.Files {
		out += fmt.Sprintf("\n  • %s", f)
	}
	out += fmt.Sprintf("\n\nManifest: %s", m.result.ManifestPath)
	return fmt.Sprintf("%s\n\n%s", out, helpView)
}
