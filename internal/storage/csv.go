package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"
	"unicode/utf8"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func loadCSV(path string) (core.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Sheet{}, err
	}
	records, err := parseCSV(sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return core.Sheet{}, err
	}
	return fromRecords(records), nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD so that
// spreadsheets exported in a legacy encoding still load.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func saveCSV(sheet core.Sheet, path string) error {
	return writeAtomic(path, func(f *os.File) error {
		bw := bufio.NewWriter(f)
		w := csv.NewWriter(bw)
		if err := w.Write(sheet.Columns); err != nil {
			return err
		}
		if err := w.WriteAll(sheet.Rows); err != nil {
			return err
		}
		return bw.Flush()
	})
}
