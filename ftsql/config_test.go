package ftsql

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != DefaultListenAddr || cfg.Generator.Table != "[dbo].[Real_Article]" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ftsql.json")
	body := `{
  "generator": {"database": "Docs", "top": 10},
  "runner": {"kind": "none", "timeoutSeconds": 3},
  "history": {"backend": "sqlite", "sqlitePath": "history.db"},
  "cacheSize": 0
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generator.Database != "Docs" || cfg.Generator.Top != 10 {
		t.Errorf("generator overrides not applied: %+v", cfg.Generator)
	}
	if cfg.Generator.Table != "[dbo].[Real_Article]" || !cfg.Generator.EscapeQuotes {
		t.Errorf("generator defaults lost: %+v", cfg.Generator)
	}
	if cfg.Runner.Kind != RunnerNone || cfg.Runner.Timeout() != 3*time.Second {
		t.Errorf("runner overrides not applied: %+v", cfg.Runner)
	}
	if cfg.History.SQLiteDriver != "sqlite" {
		t.Errorf("expected default sqlite driver, got %q", cfg.History.SQLiteDriver)
	}
	if cfg.CacheSize != 0 {
		t.Errorf("expected cache disabled, got %d", cfg.CacheSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); !IsKind(err, ErrIO) {
		t.Errorf("expected io error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !IsKind(err, ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	mutations := map[string]func(*Config){
		"generator":     func(c *Config) { c.Generator.Top = 0 },
		"cache":         func(c *Config) { c.CacheSize = -1 },
		"runner kind":   func(c *Config) { c.Runner.Kind = "odbc" },
		"sqlcmd server": func(c *Config) { c.Runner.Server = "" },
		"mssql dsn":     func(c *Config) { c.Runner.Kind = RunnerMSSQL },
		"history kind":  func(c *Config) { c.History.Backend = "mysql" },
		"sqlite path":   func(c *Config) { c.History.Backend = HistorySQLite },
		"postgres dsn":  func(c *Config) { c.History.Backend = HistoryPostgres },
	}
	for name, mutate := range mutations {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !IsKind(err, ErrConfig) {
			t.Errorf("%s: expected config error, got %v", name, err)
		}
	}
}

func TestRunnerTimeoutDefault(t *testing.T) {
	if got := (RunnerConfig{}).Timeout(); got != DefaultRunnerTimeout {
		t.Errorf("expected %v, got %v", DefaultRunnerTimeout, got)
	}
}
