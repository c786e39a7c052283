package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ministore/ftsql/ftsql"
	"github.com/ministore/ftsql/internal/cliopt"
	"github.com/ministore/ftsql/internal/cliutil"
)

func RunHistory(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var limit int
	var clearAll bool
	fs.IntVar(&limit, "limit", ftsql.DefaultHistoryLimit, "number of searches to show")
	fs.BoolVar(&clearAll, "clear", false, "delete all recorded searches")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if limit <= 0 {
		fmt.Fprintln(g.Stderr, "--limit must be positive")
		return 2
	}

	cfg, err := cliutil.ResolveConfig(g)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	adapter, err := ftsql.NewHistoryAdapter(cfg.History)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	if adapter == nil {
		fmt.Fprintln(g.Stderr, "history is disabled; set --backend or history.backend in the config")
		return 1
	}

	ctx := context.Background()
	h, err := ftsql.OpenHistory(ctx, adapter)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	defer h.Close()

	if clearAll {
		if err := h.Clear(ctx); err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
		fmt.Fprintln(g.Stdout, "history cleared")
		return 0
	}

	entries, err := h.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}

	switch cliutil.ParseOutputFormat(g.Format) {
	case cliutil.FormatJSON:
		if entries == nil {
			entries = []ftsql.Entry{}
		}
		if err := cliutil.PrintJSON(g.Stdout, entries); err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
	default:
		for _, e := range entries {
			ts := time.UnixMilli(e.CreatedAtMS).UTC().Format(time.RFC3339)
			status := fmt.Sprintf("%d results", len(e.Results))
			if e.Error != "" {
				status = "error: " + e.Error
			}
			fmt.Fprintf(g.Stdout, "#%d %s %dms %s\n    %s\n", e.ID, ts, e.DurationMS, e.Query, status)
		}
	}
	return 0
}
