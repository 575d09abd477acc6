package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterName identifies one of the catalog filters.
type FilterName string

const (
	FilterItemName       FilterName = "name"
	FilterLevel          FilterName = "level"
	FilterCategory       FilterName = "category"
	FilterRecipeContains FilterName = "recipe_contains"
	FilterFullName       FilterName = "full_name"
	FilterRecipeExact    FilterName = "recipe_exact"
	FilterPods           FilterName = "pods"
	FilterPrice          FilterName = "price"
)

// FilterOrder is the display order of the filters.
var FilterOrder = []FilterName{
	FilterItemName,
	FilterLevel,
	FilterCategory,
	FilterRecipeContains,
	FilterFullName,
	FilterRecipeExact,
	FilterPods,
	FilterPrice,
}

var filterLabels = map[FilterName]string{
	FilterItemName:       "Name",
	FilterLevel:          "Level",
	FilterCategory:       "Category",
	FilterRecipeContains: "Recipe contains",
	FilterFullName:       "Full name",
	FilterRecipeExact:    "Recipe exact",
	FilterPods:           "Pods range",
	FilterPrice:          "Price range",
}

// Label returns the menu label of a filter.
func (f FilterName) Label() string {
	if l, ok := filterLabels[f]; ok {
		return l
	}
	return string(f)
}

// IsRange reports whether the filter takes a "low,high" argument.
func (f FilterName) IsRange() bool {
	return f == FilterPods || f == FilterPrice
}

// ParseFilterName resolves a filter by name or label, case-insensitively.
func ParseFilterName(s string) (FilterName, error) {
	s = strings.TrimSpace(s)
	for _, f := range FilterOrder {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, f.Label()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFilter, s)
}

// Range is an inclusive numeric interval. A nil bound is unconstrained.
type Range struct {
	Low  *float64
	High *float64
}

// ParseRange reads "low,high". Either side may be empty, and a side that is
// not a number is treated as no bound. A value without a comma is a lower
// bound.
func ParseRange(s string) Range {
	lo, hi, _ := strings.Cut(s, ",")
	return Range{Low: parseBound(lo), High: parseBound(hi)}
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.Low != nil && v < *r.Low {
		return false
	}
	if r.High != nil && v > *r.High {
		return false
	}
	return true
}

// FilterState is the current argument of one set filter.
type FilterState struct {
	Name  FilterName
	Value string
}

// Pipeline holds the filter arguments and derives subsets from a full table.
// The zero value has every filter unset.
type Pipeline struct {
	values map[FilterName]string
}

// Set stores a filter argument. An empty argument unsets the filter.
func (p *Pipeline) Set(name FilterName, value string) error {
	if _, ok := filterLabels[name]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownFilter, name)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(p.values, name)
		return nil
	}
	if p.values == nil {
		p.values = make(map[FilterName]string)
	}
	p.values[name] = value
	return nil
}

// Clear unsets one filter.
func (p *Pipeline) Clear(name FilterName) error {
	return p.Set(name, "")
}

// Reset unsets every filter.
func (p *Pipeline) Reset() {
	p.values = nil
}

// Value returns the argument of a filter and whether it is set.
func (p *Pipeline) Value(name FilterName) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Active returns the set filters in display order.
func (p *Pipeline) Active() []FilterState {
	var out []FilterState
	for _, f := range FilterOrder {
		if v, ok := p.values[f]; ok {
			out = append(out, FilterState{Name: f, Value: v})
		}
	}
	return out
}

// Apply returns the rows of full that pass every set filter, as a deep copy.
// The result never depends on the order filters were set in.
func (p *Pipeline) Apply(full *ItemTable) *ItemTable {
	out := &ItemTable{}
	if full == nil {
		return out
	}
	out.Columns = append([]string(nil), full.Columns...)

	preds := p.predicates()
	for _, it := range full.Items {
		if matchAll(preds, &it) {
			out.Items = append(out.Items, it.clone())
		}
	}
	return out
}

// Matches reports whether one item passes every set filter.
func (p *Pipeline) Matches(it *Item) bool {
	return matchAll(p.predicates(), it)
}

type predicate func(*Item) bool

func matchAll(preds []predicate, it *Item) bool {
	for _, pred := range preds {
		if !pred(it) {
			return false
		}
	}
	return true
}

// predicates builds one predicate per set filter, normalizing arguments once.
func (p *Pipeline) predicates() []predicate {
	preds := make([]predicate, 0, len(p.values))
	for _, f := range FilterOrder {
		if v, ok := p.values[f]; ok {
			preds = append(preds, buildPredicate(f, v))
		}
	}
	return preds
}

func buildPredicate(f FilterName, arg string) predicate {
	switch f {
	case FilterItemName:
		return containsKey(arg, func(it *Item) string { return it.Name })
	case FilterCategory:
		return containsKey(arg, func(it *Item) string { return it.Category })
	case FilterFullName:
		return containsKey(arg, func(it *Item) string { return it.FullName })

	case FilterLevel:
		want := FirstDigits(arg)
		if want == "" {
			return func(*Item) bool { return false }
		}
		return func(it *Item) bool {
			got := FirstDigits(it.Level)
			return got != "" && sameNumber(got, want)
		}

	case FilterRecipeContains:
		key := Normalize(arg)
		return func(it *Item) bool {
			for _, slot := range it.Recipe {
				if slot != "" && strings.Contains(Normalize(slot), key) {
					return true
				}
			}
			return false
		}

	case FilterRecipeExact:
		return func(it *Item) bool {
			for _, slot := range it.Recipe {
				if slot == arg {
					return true
				}
			}
			return false
		}

	case FilterPods:
		return inRange(ParseRange(arg), func(it *Item) string {
			return FirstDigits(it.Pods)
		})

	case FilterPrice:
		return inRange(ParseRange(arg), func(it *Item) string {
			return FirstDigits(StripGrouping(it.PriceBeta))
		})
	}
	return func(*Item) bool { return true }
}

func containsKey(arg string, field func(*Item) string) predicate {
	key := Normalize(arg)
	return func(it *Item) bool {
		return strings.Contains(Normalize(field(it)), key)
	}
}

// inRange fails rows with no extractable digits, even when the range has no
// bounds.
func inRange(r Range, digits func(*Item) string) predicate {
	return func(it *Item) bool {
		v, ok := ParseDigits(digits(it))
		return ok && r.Contains(v)
	}
}
