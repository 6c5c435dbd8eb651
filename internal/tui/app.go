package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"tagsheet/internal/grid"
	"tagsheet/internal/store"
	"tagsheet/internal/tagcell"
)

// Options configures one interactive session.
type Options struct {
	Store  store.Store
	Config *store.GlobalConfig
	Logger zerolog.Logger

	// Clipboard defaults to the system clipboard.
	Clipboard grid.Clipboard
}

type appKeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	CloseHelp key.Binding
}

func defaultAppKeyMap() appKeyMap {
	return appKeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		CloseHelp: key.NewBinding(key.WithKeys("esc", "?", "q"), key.WithHelp("esc", "close help")),
	}
}

const titleHeight = 1

type appModel struct {
	ctx   context.Context
	db    store.Store
	src   *sheetSource
	grid  grid.Model
	prefs prefs
	log   zerolog.Logger
	keys  appKeyMap

	width, height int

	help *helpView

	// widths mirrors the stored column widths so fitted columns can be persisted.
	widths []int
}

func newAppModel(ctx context.Context, opts Options, sh *store.Sheet) appModel {
	p := resolvePrefs(opts.Config)
	log := opts.Logger
	src := newSheetSource(ctx, opts.Store, sh, log.With().Str("component", "source").Logger())

	gridOpts := []grid.Option{
		grid.WithTheme(p.gridTheme()),
		grid.WithRegistry(grid.NewRegistry(tagcell.New())),
		grid.WithLogger(log.With().Str("component", "grid").Logger()),
		grid.WithRowHeight(p.rowHeight),
	}
	if opts.Clipboard != nil {
		gridOpts = append(gridOpts, grid.WithClipboard(opts.Clipboard))
	}
	cols := gridColumns(sh)
	m := appModel{
		ctx:    ctx,
		db:     opts.Store,
		src:    src,
		grid:   grid.New(src, cols, gridOpts...),
		prefs:  p,
		log:    log,
		keys:   defaultAppKeyMap(),
		width:  80,
		height: 24,
	}
	for _, c := range m.grid.Columns() {
		m.widths = append(m.widths, c.Width)
	}
	m.grid.SetSize(m.width, m.height-titleHeight)
	return m
}

// restoreSelection selects the cell named by st when it still exists.
func (m *appModel) restoreSelection(st *store.TUIState) {
	if st == nil {
		return
	}
	sh := m.src.sheet
	col, okCol := sh.ColumnIndex(st.SelectedColID)
	row, okRow := sh.RowIndex(st.SelectedRowID)
	if !okCol {
		col = 0
	}
	if !okRow {
		row = 0
	}
	if okCol || okRow {
		m.grid.Select(col, row)
	}
}

func (m appModel) selectionState() *store.TUIState {
	st := &store.TUIState{Version: 1}
	col, row := m.grid.Selection()
	sh := m.src.sheet
	if col >= 0 && col < len(sh.Columns) {
		st.SelectedColID = sh.Columns[col].ID
	}
	if row >= 0 && row < len(sh.Rows) {
		st.SelectedRowID = sh.Rows[row].ID
	}
	return st
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	if err := m.db.SaveTUIState(m.selectionState()); err != nil {
		m.log.Warn().Err(err).Msg("save tui state failed")
	}
	return m, tea.Quit
}

func (m appModel) Init() tea.Cmd { return m.grid.Init() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid.SetSize(m.width, max(1, m.height-titleHeight))
		if m.help != nil {
			m.help.SetSize(m.width, max(1, m.height-titleHeight-1))
		}
		return m, nil
	case grid.CellEditedMsg:
		m.log.Info().
			Int("col", msg.Col).
			Int("row", msg.Row).
			Str("value", m.grid.CopyText(msg.Cell)).
			Msg("cell edited")
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		if m.help != nil {
			if key.Matches(msg, m.keys.CloseHelp) {
				m.help = nil
				return m, nil
			}
			return m, m.help.Update(msg)
		}
		if !m.grid.Editing() && !msg.Paste {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m.quit()
			case key.Matches(msg, m.keys.Help):
				m.help = newHelpView(m.width, max(1, m.height-titleHeight-1), m.prefs.markdownStyle())
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	m.persistWidths()
	return m, cmd
}

// persistWidths saves columns whose width changed since the last check.
func (m *appModel) persistWidths() {
	sh := m.src.sheet
	for i, c := range m.grid.Columns() {
		if i >= len(m.widths) || i >= len(sh.Columns) || c.Width == m.widths[i] {
			continue
		}
		m.widths[i] = c.Width
		sh.Columns[i].Width = c.Width
		if err := m.db.SetColumnWidth(m.ctx, sh.Columns[i].ID, c.Width); err != nil {
			m.log.Warn().Err(err).Str("col", sh.Columns[i].ID).Msg("save column width failed")
		}
	}
}

func (m appModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Width(m.width).
		MaxWidth(m.width).
		Render(fmt.Sprintf(" %s  (%d rows)  ? help", m.src.sheet.Title, len(m.src.sheet.Rows)))
	if m.help != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, m.help.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.grid.View())
}
