package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/craftcatalog/internal/config"
	"github.com/JonMunkholm/craftcatalog/internal/core"
	"github.com/JonMunkholm/craftcatalog/internal/ingest"
	"github.com/JonMunkholm/craftcatalog/internal/logging"
	"github.com/JonMunkholm/craftcatalog/internal/storage"
)

// app holds what every subcommand shares once the configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *storage.Files
	logFile *os.File
}

// newRootCmd builds the command tree around a. The caller closes a once the
// command has run, whether it failed or not.
func newRootCmd(a *app) *cobra.Command {
	var catalogPath, pricesPath string

	root := &cobra.Command{
		Use:   "catalog",
		Short: "Curate the craft item catalog and its fabrication prices",
		Long: `Loads an item catalog (xlsx, csv, json or sqlite) together with the
material price table, computes the fabrication price of every item from its
recipe and lets you filter, edit and save the catalog.

Settings come from the environment (see CATALOG_PATH, PRICES_PATH, ...), an
optional .env file and an optional YAML file named by CATALOG_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, catalogPath, pricesPath)
		},
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (overrides CATALOG_PATH)")
	root.PersistentFlags().StringVar(&pricesPath, "prices", "", "price table file (overrides PRICES_PATH)")

	root.AddCommand(
		newEditCmd(a),
		newQueryCmd(a),
		newPricesCmd(a),
		newReportCmd(a),
	)
	return root
}

// setup loads the configuration, configures logging and starts a session.
func (a *app) setup(cmd *cobra.Command, catalogPath, pricesPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if pricesPath != "" {
		cfg.Prices.Path = pricesPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// The terminal UI owns the screen, so its logs go to a file or nowhere.
	out := cmd.ErrOrStderr()
	switch {
	case cfg.Logging.File != "":
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		out = f
	case cmd.Name() == "edit":
		out = io.Discard
	}

	a.cfg = cfg
	a.logger = logging.Setup(cfg.Logging.Level, cfg.Logging.Format, out)
	a.store = storage.New(cfg.Storage.SQLiteTable)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithSession(ctx, uuid.NewString()))

	a.logger.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// close releases the log file, if one was opened.
func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *app) curator(ctx context.Context) *ingest.Curator {
	return ingest.NewCurator(a.store, ingest.Options{
		DumpDir:         a.cfg.Prices.DumpDir,
		PricesPath:      a.cfg.Prices.Path,
		Workers:         a.cfg.Ingest.Workers,
		PruneDuplicates: a.cfg.Ingest.PruneDuplicates,
	}, logging.FromContext(ctx))
}

// openManager loads the configured catalog and its prices.
func (a *app) openManager(ctx context.Context) (*core.Manager, error) {
	opts := []core.ManagerOption{
		core.WithLogger(a.logger),
		core.WithPriceLoader(a.curator(ctx).Loader(ctx, a.cfg.Prices.RefreshIfMissing)),
	}
	if id := logging.SessionID(ctx); id != "" {
		opts = append(opts, core.WithSessionID(id))
	}

	mgr := core.NewManager(a.store, opts...)
	if err := mgr.Open(a.cfg.Catalog.Path); err != nil {
		return nil, err
	}
	return mgr, nil
}
