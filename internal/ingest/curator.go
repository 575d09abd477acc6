// Package ingest builds the consolidated price table from a folder of
// market dump files.
//
// Each dump is one JSON object describing a material:
//
//	{"category": "...", "name": "...", "pods": "...",
//	 "avg_price": "...", "x1": "...", "x10": "...", "x100": "..."}
//
// The numeric fields are free-form text. Every non-digit character is
// stripped ("12 500 k" becomes 12500) and an empty result counts as 0, which
// the price table treats as absent. Dumps without a name are ignored.
//
// When several dumps describe the same material (same normalized name), only
// the one with the newest modification time is used. With PruneDuplicates the
// older files are deleted from the folder.
package ingest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

// DefaultWorkers is the number of dump files read concurrently when
// Options.Workers is not set.
const DefaultWorkers = 8

// Options configures a Curator.
type Options struct {
	// DumpDir is the folder scanned for *.json dumps.
	DumpDir string
	// PricesPath is where the curated price table is saved.
	PricesPath string
	// Workers bounds concurrent file reads.
	Workers int
	// PruneDuplicates deletes dumps superseded by a newer one.
	PruneDuplicates bool
}

// Curator turns dump files into the price table.
type Curator struct {
	store  core.Storage
	opts   Options
	logger *slog.Logger
}

// NewCurator returns a Curator saving through store. A nil logger uses
// slog.Default().
func NewCurator(store core.Storage, opts Options, logger *slog.Logger) *Curator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Curator{store: store, opts: opts, logger: logger.With("component", "ingest")}
}

// Result summarizes one curation run.
type Result struct {
	Prices  *core.PriceTable
	Files   int      // dump files found
	Skipped []string // unreadable or nameless dumps
	Pruned  []string // deleted duplicates
}

// dump is one parsed dump file.
type dump struct {
	path    string
	modTime time.Time
	row     core.PriceRow
	key     string
}

// Curate reads every dump, keeps the newest per material, saves the price
// table to PricesPath and returns it. A missing dump folder yields an empty
// table.
func (c *Curator) Curate(ctx context.Context) (*Result, error) {
	paths, err := filepath.Glob(filepath.Join(c.opts.DumpDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.opts.DumpDir, err)
	}
	if len(paths) == 0 {
		if _, err := os.Stat(c.opts.DumpDir); err != nil {
			c.logger.Warn("price dump folder unavailable", "dir", c.opts.DumpDir, "error", err)
		}
	}
	slices.Sort(paths)

	dumps := make([]*dump, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := readDump(p)
			if err != nil {
				c.logger.Error("skipping price dump", "file", p, "error", err)
				return nil
			}
			dumps[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Files: len(paths)}
	latest := make(map[string]*dump)
	for i, d := range dumps {
		if d == nil {
			res.Skipped = append(res.Skipped, paths[i])
			continue
		}
		if cur, ok := latest[d.key]; !ok || newer(d, cur) {
			latest[d.key] = d
		}
	}

	if c.opts.PruneDuplicates {
		for _, d := range dumps {
			if d == nil || latest[d.key] == d {
				continue
			}
			if err := os.Remove(d.path); err != nil {
				c.logger.Error("failed deleting duplicate dump", "file", d.path, "error", err)
				continue
			}
			c.logger.Info("deleted duplicate dump", "file", filepath.Base(d.path))
			res.Pruned = append(res.Pruned, d.path)
		}
	}

	kept := make([]*dump, 0, len(latest))
	for _, d := range latest {
		kept = append(kept, d)
	}
	slices.SortFunc(kept, func(a, b *dump) int {
		return cmp.Or(strings.Compare(a.key, b.key), strings.Compare(a.path, b.path))
	})

	rows := make([]core.PriceRow, len(kept))
	for i, d := range kept {
		rows[i] = d.row
	}
	res.Prices = core.NewPriceTable(rows)

	if err := c.store.Save(res.Prices.ToSheet(), c.opts.PricesPath); err != nil {
		return nil, fmt.Errorf("save prices: %w", err)
	}
	c.logger.Info("price table curated",
		"files", res.Files,
		"materials", res.Prices.Len(),
		"skipped", len(res.Skipped),
		"pruned", len(res.Pruned),
		"path", c.opts.PricesPath,
	)
	return res, nil
}

// LoadPrices reads the saved price table. When the file does not exist and
// refreshIfMissing is set, the table is curated from the dumps instead.
func (c *Curator) LoadPrices(ctx context.Context, refreshIfMissing bool) (*core.PriceTable, error) {
	sheet, err := c.store.Load(c.opts.PricesPath)
	if errors.Is(err, fs.ErrNotExist) && refreshIfMissing {
		c.logger.Info("price table missing, curating dumps", "path", c.opts.PricesPath)
		res, err := c.Curate(ctx)
		if err != nil {
			return nil, err
		}
		return res.Prices, nil
	}
	if err != nil {
		return nil, err
	}
	return core.PricesFromSheet(sheet)
}

// Loader adapts LoadPrices for core.WithPriceLoader.
func (c *Curator) Loader(ctx context.Context, refreshIfMissing bool) core.PriceLoader {
	return func() (*core.PriceTable, error) {
		return c.LoadPrices(ctx, refreshIfMissing)
	}
}

// newer orders dumps by modification time, then by path.
func newer(a, b *dump) bool {
	if !a.modTime.Equal(b.modTime) {
		return a.modTime.After(b.modTime)
	}
	return a.path > b.path
}

var errNoName = errors.New("dump has no name")

func readDump(path string) (*dump, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New("dump is not an object")
	}

	row := core.PriceRow{
		Category: strings.TrimSpace(doc.Get("category").String()),
		Name:     strings.TrimSpace(doc.Get("name").String()),
		Pods:     strings.TrimSpace(doc.Get("pods").String()),
		AvgPrice: digitField(doc.Get("avg_price")),
		X1:       digitField(doc.Get("x1")),
		X10:      digitField(doc.Get("x10")),
		X100:     digitField(doc.Get("x100")),
	}
	if row.Name == "" {
		return nil, errNoName
	}

	return &dump{
		path:    path,
		modTime: info.ModTime(),
		row:     row,
		key:     core.Normalize(row.Name),
	}, nil
}

// digitField keeps only the digits of a dump value; nothing left means 0.
func digitField(v gjson.Result) float64 {
	n, _ := core.ParseDigits(core.DigitsOnly(v.String()))
	return n
}
