package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

var sample = core.Sheet{
	Columns: []string{"full_name", "name", "level", "recipe:1", "recipe:2"},
	Rows: [][]string{
		{"Espada (Niv. 40)", "Espada", "Niv. 40", "x3 - Tejido coralino", ""},
		{"Capa \"real\" (Niv. 7)", "Capa, real", "7", "", "x1 - Piñón <raro> & co"},
	},
}

func TestFiles_RoundTrip(t *testing.T) {
	for _, ext := range []string{".xlsx", ".csv", ".json", ".sqlite", ".db", ".CSV"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "catalog"+ext)
			store := New("")

			require.NoError(t, store.Save(sample, path))
			got, err := store.Load(path)
			require.NoError(t, err)
			require.Equal(t, sample, got)

			// Saving again replaces the content.
			smaller := core.Sheet{Columns: []string{"name"}, Rows: [][]string{{"Hacha"}}}
			require.NoError(t, store.Save(smaller, path))
			got, err = store.Load(path)
			require.NoError(t, err)
			require.Equal(t, smaller, got)
		})
	}
}

func TestFiles_UnsupportedFormat(t *testing.T) {
	store := New("")
	path := filepath.Join(t.TempDir(), "catalog.ods")

	_, err := store.Load(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	err = store.Save(sample, path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = store.Load(filepath.Join(t.TempDir(), "no_extension"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFiles_MissingFile(t *testing.T) {
	store := New("")
	for _, ext := range []string{".xlsx", ".csv", ".json", ".sqlite"} {
		_, err := store.Load(filepath.Join(t.TempDir(), "missing"+ext))
		require.Error(t, err, ext)
		require.True(t, errors.Is(err, fs.ErrNotExist), "%s: %v", ext, err)
		require.True(t, IsNotExist(err))
	}
}

func TestLoadCSV_BOMAndShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	data := "\xEF\xBB\xBFname,x1,x10\nMadera,1\n,,\nHierro,2,15\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	got, err := New("").Load(path)
	require.NoError(t, err)
	require.Equal(t, core.Sheet{
		Columns: []string{"name", "x1", "x10"},
		Rows: [][]string{
			{"Madera", "1", ""},
			{"Hierro", "2", "15"},
		},
	}, got)
}

func TestLoadCSV_RaggedRowsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.csv")
	data := "name,level\nEspada,40,note\nCapa,12\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	store := New("")
	got, err := store.Load(path)
	require.NoError(t, err)
	require.Equal(t, core.Sheet{
		Columns: []string{"name", "level", "column_3"},
		Rows: [][]string{
			{"Espada", "40", "note"},
			{"Capa", "12", ""},
		},
	}, got)

	items := core.ItemsFromSheet(got)
	require.NoError(t, store.Save(items.ToSheet(), path))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "name,level,column_3\nEspada,40,note\nCapa,12,\n", string(saved))
}

func TestLoadCSV_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nPi\xf1on\n"), 0o644))

	got, err := New("").Load(path)
	require.NoError(t, err)
	require.Equal(t, "Pi\uFFFDon", got.Rows[0][0])
}

func TestLoadJSON_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.json")
	data := `[
		{"name": "Madera", "\"pods\"": 1, "x1": null},
		{"name": "Hierro", "x1": "12 k", "extra": {"a": 1}, "x10": 1.5}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	got, err := New("").Load(path)
	require.NoError(t, err)
	require.Equal(t, core.Sheet{
		Columns: []string{"name", "pods", "x1", "extra", "x10"},
		Rows: [][]string{
			{"Madera", "1", "", "", ""},
			{"Hierro", "", "12 k", `{"a": 1}`, "1.5"},
		},
	}, got)
}

func TestLoadJSON_NotRecords(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"object.json":  `{"name": "Madera"}`,
		"scalars.json": `[1, 2]`,
		"broken.json":  `[{"name": `,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
		_, err := New("").Load(path)
		require.Error(t, err, name)
	}
}

func TestSQLite_CustomTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, New("objetos").Save(sample, path))

	got, err := New("objetos").Load(path)
	require.NoError(t, err)
	require.Equal(t, sample, got)

	_, err = New("other").Load(path)
	require.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.xlsx":   FormatXLSX,
		"a.XLSX":   FormatXLSX,
		"a.csv":    FormatCSV,
		"a.json":   FormatJSON,
		"a.sqlite": FormatSQLite,
		"a.db":     FormatSQLite,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		require.Equal(t, want, got, path)
	}
}
