package cliopt

import (
	"flag"
	"io"
	"os"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
// Flags left unset do not override the config file.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command router and per-command code.
type GlobalOptions struct {
	ConfigPath string

	Backend        string
	SQLitePath     string
	SQLiteDriver   string
	PostgresDSN    string
	PostgresSchema string

	Runner string
	Format string

	Stdout io.Writer
	Stderr io.Writer

	set map[string]bool
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Format: "pretty",
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func BindGlobalFlags(fs *flag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.ConfigPath, "config", g.ConfigPath, "JSON configuration file")

	fs.StringVar(&g.Backend, "backend", g.Backend, "history backend: none|sqlite|postgres")
	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite history database file")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: sqlite (pure Go) | sqlite3 (cgo)")
	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PostgresSchema, "pg-schema", g.PostgresSchema, "postgres schema for history tables")

	fs.StringVar(&g.Runner, "runner", g.Runner, "query runner: sqlcmd|mssql|none")
	fs.StringVar(&g.Format, "format", g.Format, "output: pretty|json")
}

// MarkSet records which flags were given on the command line. Call it after fs.Parse.
func (g *GlobalOptions) MarkSet(fs *flag.FlagSet) {
	g.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { g.set[f.Name] = true })
}

// IsSet reports whether the named flag was given on the command line.
func (g GlobalOptions) IsSet(name string) bool {
	return g.set[name]
}
