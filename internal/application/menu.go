package application

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd

	// Filter is set on rows that edit a filter argument.
	Filter core.FilterName
	// Separator rows are drawn but never selected.
	Separator bool
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

func (m *Menu) selectable(i int) bool {
	return i >= 0 && i < len(m.Items) && !m.Items[i].Separator
}

// step moves the cursor by delta, wrapping and skipping separators.
func (m *Menu) step(cursor, delta int) int {
	n := len(m.Items)
	if n == 0 {
		return 0
	}
	for range n {
		cursor = (cursor + delta + n) % n
		if m.selectable(cursor) {
			return cursor
		}
	}
	return cursor
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(m *Model) *Menu {

	/* Filter rows */
	items := make([]MenuItem, 0, len(core.FilterOrder)+8)
	for _, f := range core.FilterOrder {
		items = append(items, MenuItem{Label: f.Label(), Filter: f})
	}

	/* Actions */
	items = append(items,
		MenuItem{Separator: true},
		MenuItem{Label: "(r) Reset filters", Action: send(resetFiltersMsg{})},
		MenuItem{Label: "(e) Launch editor", Action: send(openEditorMsg{})},
		MenuItem{Label: "Prices ->", Submenu: loadPricesMenu(m)},
		MenuItem{Label: "Data quality report", Action: send(reportMsg{})},
		MenuItem{Label: "(s) Save & quit", Action: send(saveQuitMsg{})},
		MenuItem{Label: "(q) Quit", Action: func() tea.Cmd { return tea.Quit }},
	)

	root := &Menu{Title: "Catalog", Items: items}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadPricesMenu(m *Model) *Menu {
	items := []MenuItem{
		{Label: "Reload price file", Action: send(reloadPricesMsg{})},
	}
	if m.opts.Curate != nil {
		items = append(items, MenuItem{Label: "Curate market dumps", Action: m.curatePrices})
	}
	items = append(items, MenuItem{Label: "Back"})

	return &Menu{
		Title: "Prices",
		Items: items,
	}
}

// send returns a menu action that emits msg.
func send(msg tea.Msg) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return msg }
	}
}
