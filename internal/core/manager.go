package core

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// PriceLoader produces the price table for a session.
type PriceLoader func() (*PriceTable, error)

// Manager owns one catalog session: the full table, the filtered subset,
// the filter arguments and the price table. It is not safe for concurrent use.
type Manager struct {
	store      Storage
	logger     *slog.Logger
	loadPrices PriceLoader
	sessionID  string
	path       string
	full       *ItemTable
	subset     *ItemTable
	prices     *PriceTable
	filters    Pipeline
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPriceLoader sets how prices are loaded on Open and ReloadPrices.
func WithPriceLoader(load PriceLoader) ManagerOption {
	return func(m *Manager) { m.loadPrices = load }
}

// WithPrices uses a fixed price table.
func WithPrices(pt *PriceTable) ManagerOption {
	return func(m *Manager) {
		m.loadPrices = func() (*PriceTable, error) { return pt, nil }
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) ManagerOption {
	return func(m *Manager) { m.sessionID = id }
}

// NewManager creates a Manager reading and writing catalogs through store.
func NewManager(store Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		logger:    slog.Default(),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("session_id", m.sessionID)
	return m
}

// SessionID returns the id attached to every log line of this session.
func (m *Manager) SessionID() string { return m.sessionID }

// Open loads the catalog at path and its prices, then derives the subset.
// Storage errors are returned unchanged in meaning.
func (m *Manager) Open(path string) error {
	sheet, err := m.store.Load(path)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", path, err)
	}

	prices := NewPriceTable(nil)
	if m.loadPrices != nil {
		prices, err = m.loadPrices()
		if err != nil {
			return fmt.Errorf("load prices: %w", err)
		}
	}

	m.path = path
	m.prices = prices
	m.full = Enrich(ItemsFromSheet(sheet), prices)
	m.recompute()

	m.logger.Info("catalog opened",
		"path", path,
		"rows", m.full.Len(),
		"materials", prices.Len(),
	)
	m.logUnresolved()
	return nil
}

// Path returns the path of the open catalog.
func (m *Manager) Path() string { return m.path }

// Full returns the full table. Callers must not modify it.
func (m *Manager) Full() *ItemTable { return m.full }

// Subset returns the current filtered view. Edits go through ApplyEdit.
func (m *Manager) Subset() *ItemTable { return m.subset }

// Prices returns the current price table.
func (m *Manager) Prices() *PriceTable { return m.prices }

// Filters returns the filter arguments currently set.
func (m *Manager) Filters() []FilterState { return m.filters.Active() }

// FilterValue returns the argument of one filter.
func (m *Manager) FilterValue(name FilterName) (string, bool) {
	return m.filters.Value(name)
}

// SetFilter sets one filter and re-derives the subset from the merged full
// table, so pending edits stay visible.
func (m *Manager) SetFilter(name FilterName, value string) error {
	if err := m.filters.Set(name, value); err != nil {
		return err
	}
	m.Reprice()
	m.logger.Debug("filter set", "filter", name, "value", value, "rows", m.subset.Len())
	return nil
}

// ClearFilter unsets one filter.
func (m *Manager) ClearFilter(name FilterName) error {
	if err := m.filters.Clear(name); err != nil {
		return err
	}
	m.Reprice()
	return nil
}

// ResetAll unsets every filter. The subset becomes the full table.
func (m *Manager) ResetAll() {
	m.filters.Reset()
	m.Reprice()
}

// ApplyEdit changes one original field of a subset row. The full table is
// untouched until MergeBack.
func (m *Manager) ApplyEdit(rowIndex int, field, value string) error {
	if m.full == nil {
		return ErrNotLoaded
	}
	if IsDerived(field) {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	}
	column, ok := m.full.Column(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	it, ok := m.subset.Find(rowIndex)
	if !ok {
		return fmt.Errorf("%w: row %d", ErrRowNotInSubset, rowIndex)
	}
	// Extra columns are keyed by the header spelling ToSheet reads back.
	return it.SetField(column, value)
}

// MergeBack copies the original fields of every subset row into the full
// table row with the same index. Rows outside the subset are untouched.
func (m *Manager) MergeBack() {
	if m.full == nil || m.subset == nil {
		return
	}
	for i := range m.subset.Items {
		src := m.subset.Items[i]
		if dst, ok := m.full.Find(src.Index); ok {
			dst.copyOriginal(src)
		}
	}
}

// Reprice merges pending edits and recomputes the derived columns of the full
// table and the subset.
func (m *Manager) Reprice() {
	if m.full == nil {
		return
	}
	m.MergeBack()
	m.full = Enrich(m.full, m.prices)
	m.recompute()
}

// SetPrices replaces the price table and reprices everything.
func (m *Manager) SetPrices(pt *PriceTable) {
	if pt == nil {
		pt = NewPriceTable(nil)
	}
	m.prices = pt
	m.Reprice()
	m.logUnresolved()
}

// ReloadPrices runs the price loader again.
func (m *Manager) ReloadPrices() error {
	if m.loadPrices == nil {
		return nil
	}
	pt, err := m.loadPrices()
	if err != nil {
		return fmt.Errorf("reload prices: %w", err)
	}
	m.SetPrices(pt)
	m.logger.Info("prices reloaded", "materials", pt.Len())
	return nil
}

// Save merges the subset, reprices, and writes the original columns to the
// catalog path. Derived columns are never written.
func (m *Manager) Save() error {
	return m.SaveAs(m.path)
}

// SaveAs is Save to another path; the format follows the extension.
func (m *Manager) SaveAs(path string) error {
	if m.full == nil {
		return ErrNotLoaded
	}
	m.Reprice()
	if err := m.store.Save(m.full.ToSheet(), path); err != nil {
		return fmt.Errorf("save catalog %s: %w", path, err)
	}
	m.logger.Info("catalog saved", "path", path, "rows", m.full.Len())
	return nil
}

// CommitAndSave is the front end's save action.
func (m *Manager) CommitAndSave() error {
	return m.Save()
}

// UniqueValues returns the sorted distinct non-empty values of a column over
// the full table, for completion.
func (m *Manager) UniqueValues(field string) []string {
	if m.full == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range m.full.Items {
		v := strings.TrimSpace(m.full.Items[i].Field(field))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Inspect runs the data-quality checks on the merged full table.
func (m *Manager) Inspect() *QualityReport {
	m.MergeBack()
	return Inspect(m.full, m.prices)
}

// recompute derives the subset from the full table, starting over each time.
func (m *Manager) recompute() {
	m.subset = m.filters.Apply(m.full)
}

func (m *Manager) logUnresolved() {
	if m.full == nil {
		return
	}
	var rows int
	for i := range m.full.Items {
		if m.full.Items[i].Error != "" {
			rows++
		}
	}
	if rows > 0 {
		m.logger.Warn("items with unpriced materials", "rows", rows)
	}
}
