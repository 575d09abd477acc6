package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

var errReportNotClean = errors.New("data-quality problems found")

func newReportCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Check the catalog for formatting problems and unpriced materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.openManager(cmd.Context())
			if err != nil {
				return err
			}

			r := mgr.Inspect()
			writeReport(cmd.OutOrStdout(), r)
			if strict && !r.Clean() {
				return errReportNotClean
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any problem is found")
	return cmd
}

func writeReport(w io.Writer, r *core.QualityReport) {
	fmt.Fprintf(w, "Rows checked: %d\n", r.Rows)
	if r.Clean() {
		fmt.Fprintln(w, "No problems found.")
		return
	}

	section(w, "Recipe gaps", len(r.RecipeGaps))
	for _, g := range r.RecipeGaps {
		fmt.Fprintf(w, "  row %d  %s  %s\n", g.Row, g.Pattern, g.FullName)
	}

	section(w, "Invalid full names", len(r.InvalidFullNames))
	for _, i := range r.InvalidFullNames {
		fmt.Fprintf(w, "  %s\n", i)
	}

	section(w, "Invalid categories", len(r.InvalidCategory))
	for _, i := range r.InvalidCategory {
		fmt.Fprintf(w, "  %s\n", i)
	}

	section(w, "Duplicate full names", len(r.Duplicates))
	for _, d := range r.Duplicates {
		fmt.Fprintf(w, "  %s rows %v", d.FullName, d.Rows)
		if len(d.Differing) > 0 {
			fmt.Fprintf(w, " differ in %s", strings.Join(d.Differing, ", "))
		}
		fmt.Fprintln(w)
	}

	section(w, "Unpriced materials", len(r.Unresolved))
	for _, u := range r.Unresolved {
		fmt.Fprintf(w, "  %s (%d uses)", u.Name, u.Uses)
		if len(u.Suggestions) > 0 {
			fmt.Fprintf(w, " did you mean: %s", strings.Join(u.Suggestions, ", "))
		}
		fmt.Fprintln(w)
	}
}

func section(w io.Writer, title string, n int) {
	if n > 0 {
		fmt.Fprintf(w, "\n%s (%d)\n", title, n)
	}
}
