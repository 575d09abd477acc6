// Package storage reads and writes whole tables to disk.
//
// The format is chosen from the file extension:
//
//	.xlsx          first worksheet, header in row 1 (excelize)
//	.csv           comma separated, header in row 1
//	.json          array of flat objects ("records")
//	.sqlite, .db   one table inside an SQLite database
//
// Any other extension fails with ErrUnsupportedFormat. Loading a file that
// does not exist fails with an error matching fs.ErrNotExist.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DefaultSQLiteTable is the table used for .sqlite and .db files.
const DefaultSQLiteTable = "catalog"

// Format identifies a file serialization.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// FormatOf returns the format for a path's extension, case-insensitively.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".sqlite", ".db":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Files implements core.Storage on the local filesystem.
type Files struct {
	// SQLiteTable is the table read and written in SQLite files.
	SQLiteTable string
}

var _ core.Storage = (*Files)(nil)

// New returns a Files using the given SQLite table name, or
// DefaultSQLiteTable when empty.
func New(sqliteTable string) *Files {
	if sqliteTable == "" {
		sqliteTable = DefaultSQLiteTable
	}
	return &Files{SQLiteTable: sqliteTable}
}

// Load reads the table stored at path.
func (f *Files) Load(path string) (core.Sheet, error) {
	format, err := FormatOf(path)
	if err != nil {
		return core.Sheet{}, err
	}

	// Checked up front so every format reports a missing file the same way.
	if _, err := os.Stat(path); err != nil {
		return core.Sheet{}, fmt.Errorf("load %s: %w", path, err)
	}

	var sheet core.Sheet
	switch format {
	case FormatXLSX:
		sheet, err = loadXLSX(path)
	case FormatCSV:
		sheet, err = loadCSV(path)
	case FormatJSON:
		sheet, err = loadJSON(path)
	case FormatSQLite:
		sheet, err = loadSQLite(path, f.table())
	}
	if err != nil {
		return core.Sheet{}, fmt.Errorf("load %s: %w", path, err)
	}
	return sheet, nil
}

// Save writes sheet to path, replacing any existing content. Parent
// directories are created as needed.
func (f *Files) Save(sheet core.Sheet, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}

	switch format {
	case FormatXLSX:
		err = saveXLSX(sheet, path)
	case FormatCSV:
		err = saveCSV(sheet, path)
	case FormatJSON:
		err = saveJSON(sheet, path)
	case FormatSQLite:
		err = saveSQLite(sheet, path, f.table())
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (f *Files) table() string {
	if f == nil || f.SQLiteTable == "" {
		return DefaultSQLiteTable
	}
	return f.SQLiteTable
}

// IsNotExist reports whether err means the file was missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// fromRecords turns a header row plus data rows into a Sheet. Fully empty rows
// are dropped and short rows are padded. Cells past the last header get
// generated column_N headers so they survive a save.
func fromRecords(records [][]string) core.Sheet {
	if len(records) == 0 {
		return core.Sheet{}
	}

	sheet := core.Sheet{Columns: append([]string(nil), records[0]...)}
	width := len(sheet.Columns)
	for _, rec := range records[1:] {
		if !isEmptyRow(rec) {
			width = max(width, len(rec))
		}
	}
	for i := len(sheet.Columns); i < width; i++ {
		sheet.Columns = append(sheet.Columns, fmt.Sprintf("column_%d", i+1))
	}

	for _, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make([]string, width)
		copy(row, rec)
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// writeAtomic writes through a temporary file in the same directory and
// renames it over path.
func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
