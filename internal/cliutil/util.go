package cliutil

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ministore/ftsql/ftsql"
	"github.com/ministore/ftsql/internal/cliopt"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatJSON:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// ResolveConfig loads the config file named by --config and applies the
// global flags that were set on top of it.
func ResolveConfig(g cliopt.GlobalOptions) (ftsql.Config, error) {
	cfg, err := ftsql.LoadConfig(g.ConfigPath)
	if err != nil {
		return ftsql.Config{}, err
	}

	if g.IsSet("backend") {
		if g.Backend == "none" {
			cfg.History.Backend = ftsql.HistoryOff
		} else {
			cfg.History.Backend = g.Backend
		}
	}
	if g.IsSet("sqlite-path") {
		cfg.History.SQLitePath = g.SQLitePath
		if !g.IsSet("backend") && cfg.History.Backend == ftsql.HistoryOff {
			cfg.History.Backend = ftsql.HistorySQLite
		}
	}
	if g.IsSet("sqlite-driver") {
		cfg.History.SQLiteDriver = g.SQLiteDriver
	}
	if g.IsSet("pg-dsn") {
		cfg.History.PostgresDSN = g.PostgresDSN
	}
	if g.IsSet("pg-schema") {
		cfg.History.PostgresSchema = g.PostgresSchema
	}
	if g.IsSet("runner") {
		cfg.Runner.Kind = g.Runner
	}

	if err := cfg.Validate(); err != nil {
		return ftsql.Config{}, err
	}
	return cfg, nil
}
