package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

const catalogCSV = `full_name,name,level,category,pods,price_beta,recipe:1,recipe:2
Espada (Niv. 40),Espada,40,Armas,5,1.000,x3 - Madera,
Capa (Niv. 12),Capa,12,Capas,2,500,x1 - Hierro,x2 - Madera
Arco (Niv. 40),Arco,40,Arcos,3,800,x5 - Oro,
`

const pricesCSV = `category,name,pods,avg_price,x1,x10,x100
Recurso,Madera,1,0,2,0,0
Recurso,Hierro,1,0,10,90,0
`

type testEnv struct {
	dir     string
	catalog string
	prices  string
	dumps   string
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:     dir,
		catalog: filepath.Join(dir, "objects.csv"),
		prices:  filepath.Join(dir, "prices.csv"),
		dumps:   filepath.Join(dir, "impure"),
	}
	require.NoError(t, os.WriteFile(env.catalog, []byte(catalogCSV), 0o644))
	require.NoError(t, os.WriteFile(env.prices, []byte(pricesCSV), 0o644))
	require.NoError(t, os.MkdirAll(env.dumps, 0o755))

	t.Setenv("CATALOG_CONFIG", "")
	t.Setenv("CATALOG_PATH", env.catalog)
	t.Setenv("PRICES_PATH", env.prices)
	t.Setenv("PRICES_DUMP_DIR", env.dumps)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	return env
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	require.NoError(t, a.close())
	return out.String(), err
}

func TestQuery_FiltersAndPrices(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "query", "--level", "40")
	require.NoError(t, err)
	require.Contains(t, out, "Espada (Niv. 40)")
	require.Contains(t, out, "Arco (Niv. 40)")
	require.NotContains(t, out, "Capa (Niv. 12)")
	require.Contains(t, out, "2 of 3 rows")
	// Espada: 3 Madera at 2 each.
	require.Contains(t, out, "6")
}

func TestQuery_CombinedFilters(t *testing.T) {
	setupEnv(t)

	// Beta prices: Espada 1.000, Capa 500, Arco 800.
	out, err := run(t, "query", "--recipe-contains", "madera", "--price", ",600")
	require.NoError(t, err)
	require.Contains(t, out, "Capa (Niv. 12)")
	require.NotContains(t, out, "Espada")
	require.NotContains(t, out, "Arco")
	require.Contains(t, out, "1 of 3 rows")
}

func TestQuery_Export(t *testing.T) {
	env := setupEnv(t)
	export := filepath.Join(env.dir, "subset.json")

	_, err := run(t, "query", "--category", "armas", "--export", export)
	require.NoError(t, err)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	rows := gjson.ParseBytes(data).Array()
	require.Len(t, rows, 1)
	require.Equal(t, "Espada (Niv. 40)", rows[0].Get("full_name").String())
	require.Equal(t, "6", rows[0].Get("fabrication_price").String())

	// The catalog itself is untouched.
	catalog, err := os.ReadFile(env.catalog)
	require.NoError(t, err)
	require.Equal(t, catalogCSV, string(catalog))
}

func TestQuery_UnsupportedCatalog(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "query", "--catalog", "objects.txt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "CATALOG_PATH")
}

func TestPricesShow(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "prices", "show", "HIERRO")
	require.NoError(t, err)
	require.Contains(t, out, "Hierro (Recurso)")
	require.Contains(t, out, "x100")
	require.Contains(t, out, "900") // x10 times 10
	require.Contains(t, out, "x10")

	_, err = run(t, "prices", "show", "oro")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no price row")
}

func TestPricesCurate(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dumps, "a.json"),
		[]byte(`{"category": "Recurso", "name": "Oro", "x1": "50"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.dumps, "b.json"),
		[]byte(`{"name": "Madera", "x1": "3"}`), 0o644))

	out, err := run(t, "prices", "curate")
	require.NoError(t, err)
	require.Contains(t, out, "Curated 2 materials from 2 files")

	prices, err := os.ReadFile(env.prices)
	require.NoError(t, err)
	require.Contains(t, string(prices), "Oro")
	require.NotContains(t, string(prices), "Hierro")

	// Arco is now priced: 5 Oro at 50.
	out, err = run(t, "query", "--name", "arco")
	require.NoError(t, err)
	require.Contains(t, out, "250")
}

func TestReport(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "report")
	require.NoError(t, err)
	require.Contains(t, out, "Rows checked: 3")
	require.Contains(t, out, "Unpriced materials (1)")
	require.Contains(t, out, "Oro (1 uses)")

	_, err = run(t, "report", "--strict")
	require.ErrorIs(t, err, errReportNotClean)
}

func TestFlagName(t *testing.T) {
	for in, want := range map[string]string{
		"recipe_contains": "recipe-contains",
		"level":           "level",
	} {
		require.Equal(t, want, flagName(core.FilterName(in)))
	}
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"edit", "query", "prices", "report"} {
		require.True(t, strings.Contains(out, sub), "help missing %q", sub)
	}
}

func TestLogFileClosedAfterFailingCommand(t *testing.T) {
	env := setupEnv(t)
	logPath := filepath.Join(env.dir, "catalog.log")
	t.Setenv("LOG_FILE", logPath)
	t.Setenv("LOG_LEVEL", "debug")

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"prices", "show", "oro"})
	require.Error(t, cmd.Execute())
	require.NotNil(t, a.logFile, "log file should be open until close")

	require.NoError(t, a.close())
	require.Nil(t, a.logFile)
	require.NoError(t, a.close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "configuration loaded")
}

func TestQuery_ExamplesUseRangesOnlyForRangeFilters(t *testing.T) {
	cmd := newQueryCmd(&app{})
	for _, line := range strings.Split(cmd.Example, "\n") {
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		for i, arg := range args[:len(args)-1] {
			for _, f := range core.FilterOrder {
				if arg == "--"+flagName(f) && !f.IsRange() {
					require.NotContains(t, args[i+1], ",", "example %q passes a range to --%s", line, flagName(f))
				}
			}
		}
	}
}
