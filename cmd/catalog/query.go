package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

// queryColumns are printed unless --all is given.
var queryColumns = []string{
	core.ColFullName,
	core.ColLevel,
	core.ColCategory,
	core.ColFabricationPrice,
	core.ColAvgFabricationPrice,
	core.ColError,
}

func newQueryCmd(a *app) *cobra.Command {
	values := make(map[core.FilterName]*string, len(core.FilterOrder))
	var (
		allColumns bool
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the items matching the filters with their fabrication prices",
		Example: `  catalog query --level 40 --category armas
  catalog query --recipe-contains "tejido coralino" --price 1000,50000
  catalog query --level 60 --pods 10, --export subset.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.openManager(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range core.FilterOrder {
				if v := *values[f]; v != "" {
					if err := mgr.SetFilter(f, v); err != nil {
						return err
					}
				}
			}

			subset := mgr.Subset()
			cols := queryColumns
			if allColumns {
				cols = subset.DisplayColumns()
			}

			if exportPath != "" {
				if err := a.store.Save(subsetSheet(subset, cols), exportPath); err != nil {
					return err
				}
				a.logger.Info("query exported", "path", exportPath, "rows", subset.Len())
			}

			out := cmd.OutOrStdout()
			renderItems(out, subset, cols)
			fmt.Fprintf(out, "%d of %d rows\n", subset.Len(), mgr.Full().Len())
			return nil
		},
	}

	for _, f := range core.FilterOrder {
		v := new(string)
		values[f] = v
		usage := f.Label() + " filter"
		if f.IsRange() {
			usage += ` ("low,high", either side may be empty)`
		}
		cmd.Flags().StringVar(v, flagName(f), "", usage)
	}
	cmd.Flags().BoolVar(&allColumns, "all", false, "print every column")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the result, computed prices included, to this file")
	return cmd
}

func flagName(f core.FilterName) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

// subsetSheet renders the chosen columns, derived ones included, as a sheet.
func subsetSheet(t *core.ItemTable, cols []string) core.Sheet {
	s := core.Sheet{Columns: cols, Rows: make([][]string, 0, t.Len())}
	for i := range t.Items {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = t.Items[i].Field(c)
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

func renderItems(w io.Writer, t *core.ItemTable, cols []string) {
	s := subsetSheet(t, cols)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(cols...).
		Rows(s.Rows...)
	fmt.Fprintln(w, tbl.Render())
}
