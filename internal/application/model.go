// Package application is the terminal front end of the catalog: a filter
// menu and a spreadsheet-style editor over the filtered subset.
//
// The Manager is only touched from the bubbletea update loop. Work that runs
// in commands (price curation, file watching) reports back through messages.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

// Messages produced by menu actions and background commands.
type (
	resetFiltersMsg  struct{}
	openEditorMsg    struct{}
	reportMsg        struct{}
	saveQuitMsg      struct{}
	reloadPricesMsg  struct{}
	pricesChangedMsg struct{}
	pricesCuratedMsg struct {
		prices *core.PriceTable
		err    error
	}
)

type mode int

const (
	modeMenu mode = iota
	modePrompt
	modeGrid
	modeCell
)

// Options configures the front end.
type Options struct {
	// VisibleColumns is the number of scrolling grid columns.
	VisibleColumns int
	// Watcher, when set, triggers a price reload on change.
	Watcher *PriceWatcher
	// Curate rebuilds the price table from market dumps.
	Curate func(context.Context) (*core.PriceTable, error)
	Logger *slog.Logger
}

// Model is the bubbletea model of the catalog front end.
type Model struct {
	ctx    context.Context
	mgr    *core.Manager
	opts   Options
	logger *slog.Logger

	root   *Menu
	menu   *Menu
	cursor int

	mode         mode
	input        textinput.Model
	promptFilter core.FilterName
	grid         *grid

	status    string
	statusErr bool
	width     int
	height    int
}

// New returns a Model over an opened Manager.
func New(ctx context.Context, mgr *core.Manager, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.VisibleColumns <= 0 {
		opts.VisibleColumns = 5
	}

	m := &Model{
		ctx:    ctx,
		mgr:    mgr,
		opts:   opts,
		logger: opts.Logger,
		input:  textinput.New(),
	}
	m.root = buildMenuTree(m)
	m.menu = m.root
	return m
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, mgr *core.Manager, opts Options) error {
	p := tea.NewProgram(New(ctx, mgr, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return waitForPriceChange(m.opts.Watcher)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case pricesChangedMsg:
		m.reloadPrices("Price file changed")
		return m, waitForPriceChange(m.opts.Watcher)

	case reloadPricesMsg:
		m.reloadPrices("Prices reloaded")
		return m, nil

	case pricesCuratedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.mgr.SetPrices(msg.prices)
		m.setStatus(fmt.Sprintf("Curated %d materials", msg.prices.Len()))
		return m, nil

	case resetFiltersMsg:
		m.resetFilters()
		return m, nil

	case openEditorMsg:
		return m, m.openEditor()

	case reportMsg:
		m.showReport()
		return m, nil

	case saveQuitMsg:
		return m, m.saveAndQuit()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeGrid:
			return m.updateGrid(msg)
		case modeCell:
			return m.updateCell(msg)
		default:
			return m.updateMenu(msg)
		}
	}

	if m.mode == modePrompt || m.mode == modeCell {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

/* ----------------------------------------
	MENU
---------------------------------------- */

func (m *Model) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.menu.Items[m.cursor]

	switch key.String() {
	case "up", "k":
		m.cursor = m.menu.step(m.cursor, -1)
	case "down", "j":
		m.cursor = m.menu.step(m.cursor, 1)
	case "enter", "right":
		switch {
		case item.Filter != "":
			return m, m.openPrompt(item.Filter)
		case item.Submenu != nil:
			m.enter(item.Submenu)
		case item.Action != nil:
			return m, item.Action()
		}
	case "c", "left":
		if item.Filter != "" {
			m.clearFilter(item.Filter)
		} else if m.menu.Parent != nil {
			m.enter(m.menu.Parent)
		}
	case "esc", "backspace":
		if m.menu.Parent != nil {
			m.enter(m.menu.Parent)
		}
	case "r":
		m.resetFilters()
	case "e":
		return m, m.openEditor()
	case "s":
		return m, m.saveAndQuit()
	case "q", "Q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) enter(menu *Menu) {
	m.menu = menu
	m.cursor = 0
	if !menu.selectable(0) {
		m.cursor = menu.step(0, 1)
	}
}

func (m *Model) openPrompt(f core.FilterName) tea.Cmd {
	value, _ := m.mgr.FilterValue(f)
	m.promptFilter = f
	m.input.Prompt = ""
	m.input.Placeholder = ""
	if f.IsRange() {
		m.input.Placeholder = "low,high"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.mode = modePrompt
	return m.input.Focus()
}

func (m *Model) updatePrompt(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		if err := m.mgr.SetFilter(m.promptFilter, m.input.Value()); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("%d rows", m.mgr.Subset().Len()))
		}
		m.closeInput(modeMenu)
		return m, nil
	case tea.KeyEsc:
		m.closeInput(modeMenu)
		return m, nil
	case tea.KeyTab:
		m.complete()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// complete replaces the prompt with the first known value starting with it.
func (m *Model) complete() {
	column, ok := completionColumn(m.promptFilter)
	if !ok {
		return
	}
	if v, ok := completeValue(m.mgr.UniqueValues(column), m.input.Value()); ok {
		m.input.SetValue(v)
		m.input.CursorEnd()
	}
}

func completionColumn(f core.FilterName) (string, bool) {
	switch f {
	case core.FilterItemName:
		return core.ColName, true
	case core.FilterLevel:
		return core.ColLevel, true
	case core.FilterCategory:
		return core.ColCategory, true
	case core.FilterFullName:
		return core.ColFullName, true
	}
	return "", false
}

func completeValue(values []string, prefix string) (string, bool) {
	prefix = strings.ToLower(prefix)
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			return v, true
		}
	}
	return "", false
}

func (m *Model) clearFilter(f core.FilterName) {
	if err := m.mgr.ClearFilter(f); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("%s cleared, %d rows", f.Label(), m.mgr.Subset().Len()))
}

func (m *Model) resetFilters() {
	m.mgr.ResetAll()
	m.setStatus(fmt.Sprintf("Filters reset, %d rows", m.mgr.Subset().Len()))
}

func (m *Model) closeInput(next mode) {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = next
}

/* ----------------------------------------
	EDITOR
---------------------------------------- */

func (m *Model) openEditor() tea.Cmd {
	subset := m.mgr.Subset()
	if subset == nil {
		m.setError(core.ErrNotLoaded)
		return nil
	}
	m.grid = newGrid(subset.DisplayColumns(), m.opts.VisibleColumns)
	m.mode = modeGrid
	m.status = ""
	return nil
}

func (m *Model) updateGrid(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.mgr.Subset().Len()
	page := max(1, m.viewHeight()-gridChrome)

	switch key.String() {
	case "up", "k":
		m.grid.move(-1, 0, rows)
	case "down", "j":
		m.grid.move(1, 0, rows)
	case "left", "h":
		m.grid.move(0, -1, rows)
	case "right", "l":
		m.grid.move(0, 1, rows)
	case "pgup":
		m.grid.move(-page, 0, rows)
	case "pgdown":
		m.grid.move(page, 0, rows)
	case "home":
		m.grid.col = 0
	case "end":
		m.grid.col = len(m.grid.columns) - 1
	case "enter":
		return m, m.startCellEdit()
	case "f2", "s":
		if err := m.mgr.CommitAndSave(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.closeEditor()
		m.setStatus("Saved to " + filepath.Base(m.mgr.Path()))
	case "esc":
		m.closeEditor()
	}
	return m, nil
}

func (m *Model) startCellEdit() tea.Cmd {
	items := m.mgr.Subset().Items
	if len(items) == 0 {
		return nil
	}
	column := m.grid.column()
	if core.IsDerived(column) {
		m.setError(fmt.Errorf("%w: %s", core.ErrReadOnlyField, column))
		return nil
	}

	m.input.Prompt = "Edit " + column + ": "
	m.input.Placeholder = ""
	m.input.SetValue(items[m.grid.row].Field(column))
	m.input.CursorEnd()
	m.mode = modeCell
	return m.input.Focus()
}

func (m *Model) updateCell(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		item := m.mgr.Subset().Items[m.grid.row]
		column := m.grid.column()
		if err := m.mgr.ApplyEdit(item.Index, column, m.input.Value()); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Updated " + column)
		}
		m.closeInput(modeGrid)
		return m, nil
	case tea.KeyEsc:
		m.closeInput(modeGrid)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// closeEditor merges the edits and reprices before returning to the menu.
func (m *Model) closeEditor() {
	m.mgr.Reprice()
	m.mode = modeMenu
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func (m *Model) saveAndQuit() tea.Cmd {
	if err := m.mgr.CommitAndSave(); err != nil {
		m.setError(err)
		return nil
	}
	return tea.Quit
}

func (m *Model) reloadPrices(reason string) {
	if err := m.mgr.ReloadPrices(); err != nil {
		m.setError(err)
		return
	}
	if m.grid != nil {
		m.grid.clampTo(m.mgr.Subset().Len())
	}
	m.setStatus(fmt.Sprintf("%s: %d materials", reason, m.mgr.Prices().Len()))
}

func (m *Model) curatePrices() tea.Cmd {
	ctx, curate := m.ctx, m.opts.Curate
	return func() tea.Msg {
		pt, err := curate(ctx)
		return pricesCuratedMsg{prices: pt, err: err}
	}
}

func (m *Model) showReport() {
	if m.mgr.Full() == nil {
		m.setError(core.ErrNotLoaded)
		return
	}
	r := m.mgr.Inspect()
	m.setStatus(fmt.Sprintf("%d rows: %d recipe gaps, %d full names, %d categories, %d duplicates, %d unpriced materials",
		r.Rows, len(r.RecipeGaps), len(r.InvalidFullNames), len(r.InvalidCategory), len(r.Duplicates), len(r.Unresolved)))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = core.FormatUserError(err)
	m.statusErr = true
	m.logger.Warn("action failed", "error", err)
}

func (m *Model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

/* ----------------------------------------
	VIEW
---------------------------------------- */

func (m *Model) View() string {
	var b strings.Builder

	switch m.mode {
	case modeGrid, modeCell:
		b.WriteString(m.grid.view(m.mgr.Subset().Items, m.width, m.viewHeight()))
		if m.mode == modeCell {
			b.WriteString(m.input.View())
			b.WriteString("\n")
		}
	default:
		b.WriteString(m.menuView())
	}

	if m.status != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) menuView() string {
	var b strings.Builder

	rows := 0
	if s := m.mgr.Subset(); s != nil {
		rows = s.Len()
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Rows: %d   File: %s", rows, filepath.Base(m.mgr.Path()))))
	b.WriteString("\n")
	if m.menu != m.root {
		b.WriteString(titleStyle.Render(m.menu.Title))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	labelW := 0
	for _, it := range m.menu.Items {
		labelW = max(labelW, len([]rune(it.Label)))
	}

	for i, it := range m.menu.Items {
		if it.Separator {
			b.WriteString(separatorStyle.Render(strings.Repeat("─", labelW+20)))
			b.WriteString("\n")
			continue
		}

		line := it.Label
		if it.Filter != "" {
			value, _ := m.mgr.FilterValue(it.Filter)
			if m.mode == modePrompt && m.promptFilter == it.Filter {
				value = m.input.View()
			}
			line = fmt.Sprintf("%-*s │ %s", labelW, it.Label, value)
		}

		style := menuLabelStyle
		if i == m.cursor {
			style = menuSelectedStyle
		}
		b.WriteString("  ")
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modePrompt {
		b.WriteString(helpStyle.Render("Enter apply  Esc cancel  Tab complete"))
	} else {
		b.WriteString(helpStyle.Render("↑↓ move  → edit  c clear  r reset  e editor  s save & quit  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
