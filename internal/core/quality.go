package core

// quality.go provides the data-quality report over a loaded catalog.
//
// The report is diagnostic only. Nothing here changes the catalog:
//  1. Recipe gaps: an empty slot followed by a filled one
//  2. Format checks on full_name and category
//  3. Duplicate full names
//  4. Materials missing from the price table, with close price-table names
//
// Problems carry the row index, the offending value and a short message,
// the same shape the editor shows in its status line.

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	fullNamePattern = regexp.MustCompile(`^.+ \(Niv\. \d+\)$`)

	categoryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^Categoría : [\wÀ-ÿ\s]+$`),
		regexp.MustCompile(`^.*\(Categoría : [\wÀ-ÿ\s]+\)$`),
	}
)

// maxSuggestions caps the price-table names offered per unresolved material.
const maxSuggestions = 3

// Issue is one problem found on one row.
type Issue struct {
	Row     int    // Item index
	Field   string // Column name
	Value   string // The offending value
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d: %s %q: %s", i.Row, i.Field, i.Value, i.Message)
}

// RecipeGap is a row whose recipe slots do not form a contiguous prefix.
type RecipeGap struct {
	Row      int
	FullName string
	// Pattern marks filled slots with ■ and empty ones with ·.
	Pattern string
}

// Duplicate lists the rows sharing one full name.
type Duplicate struct {
	FullName string
	Rows     []int
	// Differing lists the original columns whose values differ across Rows.
	Differing []string
}

// Unresolved is a material some recipes use but the price table lacks.
type Unresolved struct {
	Name        string
	Uses        int
	Suggestions []string // Closest price-table names
}

// QualityReport collects every diagnostic for one catalog.
type QualityReport struct {
	Rows             int
	RecipeGaps       []RecipeGap
	InvalidFullNames []Issue
	InvalidCategory  []Issue
	Duplicates       []Duplicate
	Unresolved       []Unresolved
}

// Clean reports whether no problem was found.
func (r *QualityReport) Clean() bool {
	return len(r.RecipeGaps) == 0 &&
		len(r.InvalidFullNames) == 0 &&
		len(r.InvalidCategory) == 0 &&
		len(r.Duplicates) == 0 &&
		len(r.Unresolved) == 0
}

// Inspect checks items against the formatting rules of the catalog and
// against prices. items is not modified.
func Inspect(items *ItemTable, prices *PriceTable) *QualityReport {
	report := &QualityReport{Rows: items.Len()}
	if items == nil {
		return report
	}

	byFullName := make(map[string][]int)
	var order []string
	uses := make(map[string]int)
	var missing []string

	for i := range items.Items {
		it := &items.Items[i]

		if pattern, ok := RecipeGapPattern(it.Recipe); !ok {
			report.RecipeGaps = append(report.RecipeGaps, RecipeGap{
				Row:      it.Index,
				FullName: it.FullName,
				Pattern:  pattern,
			})
		}

		if !fullNamePattern.MatchString(it.FullName) {
			report.InvalidFullNames = append(report.InvalidFullNames, Issue{
				Row:     it.Index,
				Field:   ColFullName,
				Value:   it.FullName,
				Message: `expected "<name> (Niv. <level>)"`,
			})
		}

		if !validCategory(it.Category) {
			report.InvalidCategory = append(report.InvalidCategory, Issue{
				Row:     it.Index,
				Field:   ColCategory,
				Value:   it.Category,
				Message: `expected "Categoría : <name>"`,
			})
		}

		if _, seen := byFullName[it.FullName]; !seen {
			order = append(order, it.FullName)
		}
		byFullName[it.FullName] = append(byFullName[it.FullName], i)

		for _, slot := range it.Recipe {
			line, err := ParseRecipe(slot)
			if err != nil {
				continue
			}
			if _, ok := prices.Lookup(line.Key); ok {
				continue
			}
			if uses[line.Name] == 0 {
				missing = append(missing, line.Name)
			}
			uses[line.Name]++
		}
	}

	for _, name := range order {
		positions := byFullName[name]
		if len(positions) < 2 {
			continue
		}
		dup := Duplicate{FullName: name}
		for _, p := range positions {
			dup.Rows = append(dup.Rows, items.Items[p].Index)
		}
		dup.Differing = differingColumns(items, positions)
		report.Duplicates = append(report.Duplicates, dup)
	}

	slices.Sort(missing)
	for _, name := range missing {
		report.Unresolved = append(report.Unresolved, Unresolved{
			Name:        name,
			Uses:        uses[name],
			Suggestions: suggestMaterials(name, prices),
		})
	}
	return report
}

// RecipeGapPattern reports whether the recipe slots form a contiguous prefix.
// Blank slots and the stray "Y" placeholder count as empty. The pattern marks
// filled slots with ■ and empty ones with ·.
func RecipeGapPattern(recipe [RecipeSlots]string) (string, bool) {
	var b strings.Builder
	ok := true
	sawEmpty := false
	for _, slot := range recipe {
		if isEmptySlot(slot) {
			sawEmpty = true
			b.WriteString("·")
			continue
		}
		if sawEmpty {
			ok = false
		}
		b.WriteString("■")
	}
	return b.String(), ok
}

func isEmptySlot(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "y")
}

func validCategory(s string) bool {
	for _, re := range categoryPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// differingColumns lists the original columns whose trimmed values are not
// identical across the given item positions.
func differingColumns(items *ItemTable, positions []int) []string {
	var out []string
	for _, c := range items.Columns {
		first := strings.TrimSpace(items.Items[positions[0]].Field(c))
		for _, p := range positions[1:] {
			if strings.TrimSpace(items.Items[p].Field(c)) != first {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// suggestMaterials returns price-table names whose keys are within edit
// distance of name's key, closest first.
func suggestMaterials(name string, prices *PriceTable) []string {
	key := Normalize(name)
	if key == "" {
		return nil
	}

	type scored struct {
		name string
		dist int
	}
	var found []scored
	for _, row := range prices.Rows() {
		dist := levenshtein.ComputeDistance(key, row.MaterialKey)
		if dist > levenshteinLimit(len(row.MaterialKey)) {
			continue
		}
		found = append(found, scored{name: row.Name, dist: dist})
	}

	slices.SortStableFunc(found, func(a, b scored) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.name, b.name)
	})

	var out []string
	for _, s := range found {
		out = append(out, s.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
