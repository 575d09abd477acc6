package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

var errNotRecords = errors.New("json: expected an array of objects")

// loadJSON reads an array of flat objects. Columns are the union of the
// object keys in first-seen order, so the file's field order is kept.
// Numbers keep their literal text and null becomes "".
func loadJSON(path string) (core.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Sheet{}, err
	}
	if !gjson.ValidBytes(data) {
		return core.Sheet{}, errors.New("json: invalid document")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return core.Sheet{}, errNotRecords
	}

	var (
		sheet   core.Sheet
		records []map[string]string
		seen    = make(map[string]bool)
		bad     bool
	)
	root.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			bad = true
			return false
		}
		values := make(map[string]string)
		rec.ForEach(func(k, v gjson.Result) bool {
			key := strings.Trim(k.String(), `"`)
			if !seen[key] {
				seen[key] = true
				sheet.Columns = append(sheet.Columns, key)
			}
			values[key] = jsonCell(v)
			return true
		})
		records = append(records, values)
		return true
	})
	if bad {
		return core.Sheet{}, errNotRecords
	}

	for _, values := range records {
		row := make([]string, len(sheet.Columns))
		for i, c := range sheet.Columns {
			row[i] = values[c]
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func jsonCell(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.JSON:
		return v.Raw
	}
	return v.String()
}

// saveJSON writes one object per row with keys in column order. Every value
// is written as a string.
func saveJSON(sheet core.Sheet, path string) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, row := range sheet.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for j, col := range sheet.Columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			if err := writeJSONString(&buf, col); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSONString(&buf, cell); err != nil {
				return err
			}
		}
		buf.WriteString("}")
	}
	buf.WriteString("\n]\n")

	return writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(buf.Bytes())
		return err
	})
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
