package storage

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

// xlsxSheet is the worksheet name written on save.
const xlsxSheet = "Sheet1"

// loadXLSX reads the first worksheet. Cells are read as displayed text.
func loadXLSX(path string) (core.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return core.Sheet{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return core.Sheet{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return core.Sheet{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows), nil
}

func saveXLSX(sheet core.Sheet, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeXLSXRow(f, 1, sheet.Columns); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		if err := writeXLSXRow(f, i+2, row); err != nil {
			return err
		}
	}

	return writeAtomic(path, func(out *os.File) error {
		_, err := f.WriteTo(out)
		return err
	})
}

func writeXLSXRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(xlsxSheet, cell, &row)
}
