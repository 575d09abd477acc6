package core

import (
	"maps"
	"strconv"
)

// RecipeSlots is the number of recipe columns an item carries.
const RecipeSlots = 8

// Storage reads and writes whole tables.
// Satisfied by storage.Files.
type Storage interface {
	Load(path string) (Sheet, error)
	Save(sheet Sheet, path string) error
}

// Sheet is an untyped table: ordered column names over rows of cells.
// A row's position is its identity.
type Sheet struct {
	Columns []string
	Rows    [][]string
}

// Amount is a price that may be unknown.
// Valid is false for "unknown" or "no data".
type Amount struct {
	Value float64
	Valid bool
}

// Known returns a valid Amount.
func Known(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// String formats the amount without trailing zeros, or "" when unknown.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// Item is one catalog row.
type Item struct {
	Index     int // Row position in the loaded catalog
	Name      string
	FullName  string
	Level     string
	Category  string
	Pods      string
	PriceBeta string
	Recipe    [RecipeSlots]string

	// Extra holds source columns this schema does not know, keyed by header.
	Extra map[string]string

	// Derived, never saved.
	FabricationPrice    Amount
	AvgFabricationPrice Amount
	Error               string
}

// clone returns a copy that shares no maps with it.
func (it Item) clone() Item {
	out := it
	if it.Extra != nil {
		out.Extra = maps.Clone(it.Extra)
	}
	return out
}

// ItemTable is the typed catalog.
type ItemTable struct {
	// Columns is the original column set, in file order. Derived columns are
	// never part of it.
	Columns []string
	Items   []Item
}

// Len returns the number of rows.
func (t *ItemTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Items)
}

// Clone returns a deep copy of the table.
func (t *ItemTable) Clone() *ItemTable {
	if t == nil {
		return &ItemTable{}
	}
	out := &ItemTable{
		Columns: append([]string(nil), t.Columns...),
		Items:   make([]Item, len(t.Items)),
	}
	for i, it := range t.Items {
		out.Items[i] = it.clone()
	}
	return out
}

// Find returns the item with the given row index.
func (t *ItemTable) Find(index int) (*Item, bool) {
	if t == nil {
		return nil, false
	}
	// Full tables keep Index == position.
	if index >= 0 && index < len(t.Items) && t.Items[index].Index == index {
		return &t.Items[index], true
	}
	for i := range t.Items {
		if t.Items[i].Index == index {
			return &t.Items[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether the original column set contains name.
func (t *ItemTable) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Column returns the header spelling of the original column matching name,
// compared case-insensitively.
func (t *ItemTable) Column(name string) (string, bool) {
	key := canonicalColumn(name)
	for _, c := range t.Columns {
		if canonicalColumn(c) == key {
			return c, true
		}
	}
	return "", false
}

// PriceRow is one material of the price table.
// Prices that are zero or negative count as absent.
type PriceRow struct {
	Category    string
	Name        string
	MaterialKey string
	Pods        string
	AvgPrice    float64
	X1          float64
	X10         float64
	X100        float64
}

// PriceTable indexes price rows by material key.
type PriceTable struct {
	rows  []PriceRow
	byKey map[string]int
}

// NewPriceTable builds a table from rows, deriving each MaterialKey from Name.
// When two rows share a key the later one wins.
func NewPriceTable(rows []PriceRow) *PriceTable {
	pt := &PriceTable{byKey: make(map[string]int, len(rows))}
	for _, r := range rows {
		r.MaterialKey = Normalize(r.Name)
		if i, ok := pt.byKey[r.MaterialKey]; ok {
			pt.rows[i] = r
			continue
		}
		pt.byKey[r.MaterialKey] = len(pt.rows)
		pt.rows = append(pt.rows, r)
	}
	return pt
}

// Lookup returns the row for a material key. The empty key never matches.
func (pt *PriceTable) Lookup(key string) (PriceRow, bool) {
	if pt == nil || key == "" {
		return PriceRow{}, false
	}
	i, ok := pt.byKey[key]
	if !ok {
		return PriceRow{}, false
	}
	return pt.rows[i], true
}

// Rows returns the rows in insertion order.
func (pt *PriceTable) Rows() []PriceRow {
	if pt == nil {
		return nil
	}
	return append([]PriceRow(nil), pt.rows...)
}

// Len returns the number of distinct materials.
func (pt *PriceTable) Len() int {
	if pt == nil {
		return 0
	}
	return len(pt.rows)
}
