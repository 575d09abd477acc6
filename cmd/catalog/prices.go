package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

func newPricesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Build and inspect the material price table",
	}
	cmd.AddCommand(newPricesCurateCmd(a), newPricesShowCmd(a))
	return cmd
}

func newPricesCurateCmd(a *app) *cobra.Command {
	var (
		prune   bool
		dumpDir string
	)
	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Rebuild the price table from the market dump folder",
		Long: `Reads every JSON market dump in PRICES_DUMP_DIR, keeps the newest dump
per material and writes the price table to PRICES_PATH. With --prune the
older duplicate dumps are deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("prune") {
				a.cfg.Ingest.PruneDuplicates = prune
			}
			if dumpDir != "" {
				a.cfg.Prices.DumpDir = dumpDir
			}

			res, err := a.curator(cmd.Context()).Curate(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Curated %d materials from %d files -> %s\n", res.Prices.Len(), res.Files, a.cfg.Prices.Path)
			for _, p := range res.Skipped {
				fmt.Fprintf(out, "  skipped %s\n", p)
			}
			if len(res.Pruned) > 0 {
				fmt.Fprintf(out, "Pruned %d duplicate dumps\n", len(res.Pruned))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "delete older duplicate dumps (overrides INGEST_PRUNE_DUPLICATES)")
	cmd.Flags().StringVar(&dumpDir, "dumps", "", "dump folder (overrides PRICES_DUMP_DIR)")
	return cmd
}

func newPricesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <material>",
		Short:   "Show the effective pack prices of one material",
		Example: `  catalog prices show "tejido coralino"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prices, err := a.curator(ctx).LoadPrices(ctx, a.cfg.Prices.RefreshIfMissing)
			if err != nil {
				return err
			}

			name := strings.Join(args, " ")
			row, ok := prices.Lookup(core.Normalize(name))
			if !ok {
				return fmt.Errorf("%w for %q", core.ErrNoPriceRow, name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", row.Name, row.Category)
			if row.Pods != "" {
				fmt.Fprintf(out, "pods: %s\n", row.Pods)
			}

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("pack", "price", "source")
			for _, size := range []core.PackSize{core.Pack1, core.Pack10, core.Pack100} {
				amount, source := core.ResolveTier(size, row)
				price := amount.String()
				if !amount.Valid {
					price, source = "-", "no data"
				}
				tbl.Row(fmt.Sprintf("x%d", size), price, source)
			}
			fmt.Fprintln(out, tbl.Render())
			return nil
		},
	}
}
