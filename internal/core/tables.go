package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Catalog column names.
const (
	ColFullName  = "full_name"
	ColName      = "name"
	ColLevel     = "level"
	ColCategory  = "category"
	ColPods      = "pods"
	ColPriceBeta = "price_beta"

	ColFabricationPrice    = "fabrication_price"
	ColAvgFabricationPrice = "avg_fabrication_price"
	ColError               = "error"
)

// Price table column names.
const (
	ColMaterialKey = "name_key"
	ColAvgPrice    = "avg_price"
	ColX1          = "x1"
	ColX10         = "x10"
	ColX100        = "x100"
)

// RecipeColumn returns the column name of a 1-based recipe slot.
func RecipeColumn(slot int) string {
	return "recipe:" + strconv.Itoa(slot)
}

// recipeSlot returns the 0-based slot for a recipe column name.
func recipeSlot(column string) (int, bool) {
	rest, ok := strings.CutPrefix(canonicalColumn(column), "recipe:")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > RecipeSlots {
		return 0, false
	}
	return n - 1, true
}

// FieldType represents the kind of value a column holds.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
)

// FieldSpec describes one known column.
type FieldSpec struct {
	Name     string    // Column header name
	Type     FieldType // Expected data type
	Required bool      // Column must exist in the file header
	Derived  bool      // Computed on load, never saved
}

// ItemFieldSpecs lists the catalog columns this schema knows, in display order.
var ItemFieldSpecs = func() []FieldSpec {
	specs := []FieldSpec{
		{Name: ColFullName, Type: FieldText},
		{Name: ColName, Type: FieldText},
		{Name: ColLevel, Type: FieldText},
		{Name: ColCategory, Type: FieldText},
		{Name: ColPods, Type: FieldText},
		{Name: ColPriceBeta, Type: FieldText},
	}
	for slot := 1; slot <= RecipeSlots; slot++ {
		specs = append(specs, FieldSpec{Name: RecipeColumn(slot), Type: FieldText})
	}
	return append(specs,
		FieldSpec{Name: ColFabricationPrice, Type: FieldNumeric, Derived: true},
		FieldSpec{Name: ColAvgFabricationPrice, Type: FieldNumeric, Derived: true},
		FieldSpec{Name: ColError, Type: FieldText, Derived: true},
	)
}()

// PriceFieldSpecs lists the price table columns in file order.
var PriceFieldSpecs = []FieldSpec{
	{Name: ColCategory, Type: FieldText},
	{Name: ColName, Type: FieldText, Required: true},
	{Name: ColMaterialKey, Type: FieldText, Derived: true},
	{Name: ColPods, Type: FieldText},
	{Name: ColAvgPrice, Type: FieldNumeric},
	{Name: ColX1, Type: FieldNumeric},
	{Name: ColX10, Type: FieldNumeric},
	{Name: ColX100, Type: FieldNumeric},
}

// DerivedColumns are the computed catalog columns.
var DerivedColumns = []string{ColFabricationPrice, ColAvgFabricationPrice, ColError}

// IsDerived reports whether a catalog column is computed.
func IsDerived(column string) bool {
	key := canonicalColumn(column)
	for _, c := range DerivedColumns {
		if key == c {
			return true
		}
	}
	return false
}

// Field returns the value of a column, derived columns included.
// Unknown columns fall back to Extra.
func (it *Item) Field(column string) string {
	if slot, ok := recipeSlot(column); ok {
		return it.Recipe[slot]
	}
	switch canonicalColumn(column) {
	case ColFullName:
		return it.FullName
	case ColName:
		return it.Name
	case ColLevel:
		return it.Level
	case ColCategory:
		return it.Category
	case ColPods:
		return it.Pods
	case ColPriceBeta:
		return it.PriceBeta
	case ColFabricationPrice:
		return it.FabricationPrice.String()
	case ColAvgFabricationPrice:
		return it.AvgFabricationPrice.String()
	case ColError:
		return it.Error
	}
	return it.Extra[column]
}

// SetField writes an original column. Derived columns are rejected.
func (it *Item) SetField(column, value string) error {
	if IsDerived(column) {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, column)
	}
	if slot, ok := recipeSlot(column); ok {
		it.Recipe[slot] = value
		return nil
	}
	switch canonicalColumn(column) {
	case ColFullName:
		it.FullName = value
	case ColName:
		it.Name = value
	case ColLevel:
		it.Level = value
	case ColCategory:
		it.Category = value
	case ColPods:
		it.Pods = value
	case ColPriceBeta:
		it.PriceBeta = value
	default:
		if it.Extra == nil {
			it.Extra = make(map[string]string)
		}
		it.Extra[column] = value
	}
	return nil
}

// copyOriginal overwrites every original field of it with src's.
func (it *Item) copyOriginal(src Item) {
	it.Name = src.Name
	it.FullName = src.FullName
	it.Level = src.Level
	it.Category = src.Category
	it.Pods = src.Pods
	it.PriceBeta = src.PriceBeta
	it.Recipe = src.Recipe
	it.Extra = src.clone().Extra
}

// ItemsFromSheet converts a loaded sheet into the typed catalog.
// Derived columns found in the file are dropped.
func ItemsFromSheet(s Sheet) *ItemTable {
	t := &ItemTable{Items: make([]Item, 0, len(s.Rows))}
	var keep []int
	for i, c := range s.Columns {
		if IsDerived(c) {
			continue
		}
		t.Columns = append(t.Columns, c)
		keep = append(keep, i)
	}

	for r, row := range s.Rows {
		it := Item{Index: r}
		for _, i := range keep {
			if i >= len(row) {
				continue
			}
			// Errors only come from derived columns, which were dropped.
			_ = it.SetField(s.Columns[i], row[i])
		}
		t.Items = append(t.Items, it)
	}
	return t
}

// ToSheet converts the catalog back into a sheet holding only the original
// columns.
func (t *ItemTable) ToSheet() Sheet {
	s := Sheet{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Items)),
	}
	for r := range t.Items {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = t.Items[r].Field(c)
		}
		s.Rows[r] = row
	}
	return s
}

// DisplayColumns returns the columns shown to users: full_name first, then the
// rest of the original columns, then the derived ones.
func (t *ItemTable) DisplayColumns() []string {
	cols := make([]string, 0, len(t.Columns)+len(DerivedColumns))
	for _, c := range t.Columns {
		if canonicalColumn(c) == ColFullName {
			cols = append(cols, c)
		}
	}
	for _, c := range t.Columns {
		if canonicalColumn(c) != ColFullName {
			cols = append(cols, c)
		}
	}
	return append(cols, DerivedColumns...)
}

// PricesFromSheet converts a loaded sheet into a price table.
// The material key is always recomputed from the name.
func PricesFromSheet(s Sheet) (*PriceTable, error) {
	idx := MakeHeaderIndex(s.Columns)
	for _, spec := range PriceFieldSpecs {
		if _, ok := idx[spec.Name]; spec.Required && !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, spec.Name)
		}
	}

	rows := make([]PriceRow, 0, len(s.Rows))
	for _, row := range s.Rows {
		name := strings.TrimSpace(idx.Cell(row, ColName))
		if name == "" {
			continue
		}
		rows = append(rows, PriceRow{
			Category: strings.TrimSpace(idx.Cell(row, ColCategory)),
			Name:     name,
			Pods:     strings.TrimSpace(idx.Cell(row, ColPods)),
			AvgPrice: ParsePriceCell(idx.Cell(row, ColAvgPrice)),
			X1:       ParsePriceCell(idx.Cell(row, ColX1)),
			X10:      ParsePriceCell(idx.Cell(row, ColX10)),
			X100:     ParsePriceCell(idx.Cell(row, ColX100)),
		})
	}
	return NewPriceTable(rows), nil
}

// ToSheet converts the price table into a sheet. Absent prices are written
// as 0.
func (pt *PriceTable) ToSheet() Sheet {
	s := Sheet{Columns: make([]string, len(PriceFieldSpecs))}
	for i, spec := range PriceFieldSpecs {
		s.Columns[i] = spec.Name
	}
	for _, r := range pt.Rows() {
		s.Rows = append(s.Rows, []string{
			r.Category,
			r.Name,
			r.MaterialKey,
			r.Pods,
			formatPrice(r.AvgPrice),
			formatPrice(r.X1),
			formatPrice(r.X10),
			formatPrice(r.X100),
		})
	}
	return s
}

func formatPrice(v float64) string {
	if v <= 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
