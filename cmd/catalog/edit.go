package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/craftcatalog/internal/application"
	"github.com/JonMunkholm/craftcatalog/internal/core"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Filter and edit the catalog in the terminal",
		Long: `Opens the filter menu over the catalog. From there the editor shows the
filtered rows as a grid with the full name frozen on the left; Enter edits a
cell, F2 saves. Computed price columns are shown but never saved.

When PRICES_WATCH is on, changes to the price file reprice the catalog live.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mgr, err := a.openManager(ctx)
			if err != nil {
				return err
			}

			opts := application.Options{
				VisibleColumns: a.cfg.Editor.VisibleColumns,
				Logger:         a.logger,
				Curate: func(ctx context.Context) (*core.PriceTable, error) {
					res, err := a.curator(ctx).Curate(ctx)
					if err != nil {
						return nil, err
					}
					return res.Prices, nil
				},
			}

			if a.cfg.Prices.Watch {
				w, err := application.WatchPrices(a.cfg.Prices.Path, 0, a.logger)
				if err != nil {
					a.logger.Warn("price watcher disabled", "error", err)
				} else {
					defer w.Close()
					opts.Watcher = w
				}
			}

			return application.Run(ctx, mgr, opts)
		},
	}
}
