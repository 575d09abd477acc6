// Package config provides centralized configuration management for the catalog tools.
// Settings come from built-in defaults, an optional YAML file named by CATALOG_CONFIG,
// and environment variables, in that order. The result is validated on startup to
// fail fast on misconfiguration.
package config

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Prices  PricesConfig  `yaml:"prices"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Storage StorageConfig `yaml:"storage"`
	Editor  EditorConfig  `yaml:"editor"`
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig holds the item catalog location.
type CatalogConfig struct {
	// Path is the catalog file; the extension selects the format
	Path string `yaml:"path" env:"CATALOG_PATH" default:"data/objects/objects_pure.xlsx"`
}

// PricesConfig holds price table settings.
type PricesConfig struct {
	// Path is the curated price table (default: data/resources/prices.xlsx)
	Path string `yaml:"path" env:"PRICES_PATH" default:"data/resources/prices.xlsx"`

	// DumpDir is the folder of raw market dumps (default: data/resources/impure)
	DumpDir string `yaml:"dump_dir" env:"PRICES_DUMP_DIR" default:"data/resources/impure"`

	// RefreshIfMissing curates the dumps when Path does not exist (default: true)
	RefreshIfMissing bool `yaml:"refresh_if_missing" env:"PRICES_REFRESH_IF_MISSING" default:"true"`

	// Watch reprices the open catalog when Path changes on disk (default: true)
	Watch bool `yaml:"watch" env:"PRICES_WATCH" default:"true"`
}

// IngestConfig holds dump curation settings.
type IngestConfig struct {
	// Workers is the number of dumps read in parallel (default: 8)
	Workers int `yaml:"workers" env:"INGEST_WORKERS" default:"8"`

	// PruneDuplicates deletes superseded dumps (default: false)
	PruneDuplicates bool `yaml:"prune_duplicates" env:"INGEST_PRUNE_DUPLICATES" default:"false"`
}

// StorageConfig holds file format settings.
type StorageConfig struct {
	// SQLiteTable is the table used in .sqlite and .db files (default: catalog)
	SQLiteTable string `yaml:"sqlite_table" env:"STORAGE_SQLITE_TABLE" default:"catalog"`
}

// EditorConfig holds terminal editor settings.
type EditorConfig struct {
	// VisibleColumns is how many columns the grid shows beside the frozen one (default: 5)
	VisibleColumns int `yaml:"visible_columns" env:"EDITOR_VISIBLE_COLUMNS" default:"5"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`

	// File receives log output. Empty means stderr for commands and
	// discarded in the terminal editor.
	File string `yaml:"file" env:"LOG_FILE"`
}
