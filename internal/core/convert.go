package core

// convert.go provides the cell cleaners shared by the schema, the filters
// and the price loader.
//
// These functions handle the messy reality of hand-curated spreadsheets:
//   - Excel formula prefixes (="value") and stray quotes
//   - Levels and weights written as "Niv. 40" or "12 pods"
//   - Prices with grouping separators ("1.234.567", "12,500")
//
// None of them fail: unusable input yields "" or 0.

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// HeaderIndex maps cleaned, lowercased column names to their position.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := canonicalColumn(h)
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Cell returns the cell for a column, or "" when the column or cell is missing.
func (h HeaderIndex) Cell(row []string, column string) string {
	pos, ok := h[canonicalColumn(column)]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

func canonicalColumn(name string) string {
	return strings.ToLower(CleanCell(name))
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// FirstDigits returns the first run of ASCII digits in s, or "".
// "Niv. 140" → "140".
func FirstDigits(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		if isDigit && start < 0 {
			start = i
		}
		if !isDigit && start >= 0 {
			return s[start:i]
		}
	}
	if start < 0 {
		return ""
	}
	return s[start:]
}

// DigitsOnly strips every character that is not an ASCII digit.
// "12 500 k" → "12500".
func DigitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// StripGrouping removes thousands separators: dots, commas, apostrophes and
// any kind of space.
func StripGrouping(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ',' || r == '\'' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ParseDigits converts a digit string to a number; "" yields (0, false).
func ParseDigits(digits string) (float64, bool) {
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePriceCell reads a numeric cell of the price table.
// Empty, "unknown", non-positive or unparseable cells yield 0 (absent).
func ParsePriceCell(s string) float64 {
	s = CleanCell(s)
	if s == "" {
		return 0
	}

	// Remove thousands separators and spaces
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// sameNumber compares two digit strings as numbers, ignoring leading zeros.
func sameNumber(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	return a == b
}
