package commands

import (
	"flag"
	"fmt"

	"github.com/ministore/ftsql/ftsql"
	"github.com/ministore/ftsql/internal/cliopt"
	"github.com/ministore/ftsql/internal/cliutil"
)

func RunCompile(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var q string
	var predicateOnly bool
	bindQuery(fs, &q)
	fs.BoolVar(&predicateOnly, "predicate", false, "print only the full-text predicate")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	query := queryFrom(fs, q)
	if query == "" {
		fmt.Fprintln(g.Stderr, "missing --query")
		return 2
	}

	cfg, err := cliutil.ResolveConfig(g)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}

	var out string
	if predicateOnly {
		out, err = ftsql.Predicate(query)
	} else {
		out, err = ftsql.Compile(query, cfg.Generator)
	}
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}

	switch cliutil.ParseOutputFormat(g.Format) {
	case cliutil.FormatJSON:
		if err := cliutil.PrintJSON(g.Stdout, map[string]string{"query": query, "sql": out}); err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
	default:
		fmt.Fprintln(g.Stdout, out)
	}
	return 0
}
