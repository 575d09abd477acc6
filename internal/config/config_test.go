package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	// Verify defaults
	if cfg.Catalog.Path != "data/objects/objects_pure.xlsx" {
		t.Errorf("Catalog.Path = %q, want %q", cfg.Catalog.Path, "data/objects/objects_pure.xlsx")
	}
	if cfg.Prices.Path != "data/resources/prices.xlsx" {
		t.Errorf("Prices.Path = %q, want %q", cfg.Prices.Path, "data/resources/prices.xlsx")
	}
	if cfg.Prices.DumpDir != "data/resources/impure" {
		t.Errorf("Prices.DumpDir = %q, want %q", cfg.Prices.DumpDir, "data/resources/impure")
	}
	if !cfg.Prices.RefreshIfMissing || !cfg.Prices.Watch {
		t.Errorf("Prices = %+v, want RefreshIfMissing and Watch enabled", cfg.Prices)
	}
	if cfg.Ingest.Workers != 8 {
		t.Errorf("Ingest.Workers = %d, want %d", cfg.Ingest.Workers, 8)
	}
	if cfg.Ingest.PruneDuplicates {
		t.Error("Ingest.PruneDuplicates = true, want false")
	}
	if cfg.Storage.SQLiteTable != "catalog" {
		t.Errorf("Storage.SQLiteTable = %q, want %q", cfg.Storage.SQLiteTable, "catalog")
	}
	if cfg.Editor.VisibleColumns != 5 {
		t.Errorf("Editor.VisibleColumns = %d, want %d", cfg.Editor.VisibleColumns, 5)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" || cfg.Logging.File != "" {
		t.Errorf("Logging = %+v, want info/text/no file", cfg.Logging)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("CATALOG_PATH", "catalog.csv")
	t.Setenv("INGEST_WORKERS", "3")
	t.Setenv("PRICES_WATCH", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Catalog.Path != "catalog.csv" {
		t.Errorf("Catalog.Path = %q, want %q", cfg.Catalog.Path, "catalog.csv")
	}
	if cfg.Ingest.Workers != 3 {
		t.Errorf("Ingest.Workers = %d, want %d", cfg.Ingest.Workers, 3)
	}
	if cfg.Prices.Watch {
		t.Error("Prices.Watch = true, want false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
catalog:
  path: objetos.sqlite
storage:
  sqlite_table: objetos
editor:
  visible_columns: 8
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	// Environment wins over the file.
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv(FileEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.Path != "objetos.sqlite" {
		t.Errorf("Catalog.Path = %q, want %q", cfg.Catalog.Path, "objetos.sqlite")
	}
	if cfg.Storage.SQLiteTable != "objetos" {
		t.Errorf("Storage.SQLiteTable = %q, want %q", cfg.Storage.SQLiteTable, "objetos")
	}
	if cfg.Editor.VisibleColumns != 8 {
		t.Errorf("Editor.VisibleColumns = %d, want %d", cfg.Editor.VisibleColumns, 8)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "error")
	}
	// Untouched keys keep their defaults.
	if cfg.Prices.Path != "data/resources/prices.xlsx" {
		t.Errorf("Prices.Path = %q, want default", cfg.Prices.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadFile() expected error for missing file")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("EDITOR_VISIBLE_COLUMNS", "many")

	_, err := LoadFile("")
	if err == nil {
		t.Fatal("LoadFile() expected error for non-numeric EDITOR_VISIBLE_COLUMNS")
	}
	if !strings.Contains(err.Error(), "EDITOR_VISIBLE_COLUMNS") {
		t.Errorf("error should mention EDITOR_VISIBLE_COLUMNS: %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{Path: "objects.xlsx"},
		Prices:  PricesConfig{Path: "prices.xlsx", DumpDir: "impure"},
		Ingest:  IngestConfig{Workers: 1},
		Storage: StorageConfig{SQLiteTable: "catalog"},
		Editor:  EditorConfig{VisibleColumns: 5},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unsupported catalog format", func(c *Config) { c.Catalog.Path = "objects.ods" }, "CATALOG_PATH"},
		{"empty prices path", func(c *Config) { c.Prices.Path = "" }, "PRICES_PATH"},
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }, "INGEST_WORKERS"},
		{"blank sqlite table", func(c *Config) { c.Storage.SQLiteTable = " " }, "STORAGE_SQLITE_TABLE"},
		{"no visible columns", func(c *Config) { c.Editor.VisibleColumns = 0 }, "EDITOR_VISIBLE_COLUMNS"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.Workers = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"INGEST_WORKERS", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	for _, want := range []string{"objects.xlsx", "prices.xlsx", "Workers: 1", "VisibleColumns: 5"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %s, missing %q", str, want)
		}
	}
}
