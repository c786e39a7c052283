package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ministore/ftsql/ftsql"
	"github.com/ministore/ftsql/internal/cliopt"
	"github.com/ministore/ftsql/internal/cliutil"
)

type searchOutput struct {
	Query     string    `json:"query"`
	SQL       string    `json:"sql"`
	ElapsedMS int64     `json:"elapsedMs"`
	Results   []rowLink `json:"results"`
}

type rowLink struct {
	Title string `json:"title"`
	Rank  uint64 `json:"rank"`
	Link  string `json:"link"`
}

func RunSearch(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var q string
	var showSQL bool
	bindQuery(fs, &q)
	fs.StringVar(&g.Format, "format", g.Format, "format: pretty|json")
	fs.BoolVar(&showSQL, "sql", false, "print the generated SQL")
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

	ctx := context.Background()
	searcher, err := ftsql.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	defer searcher.Close()

	res, err := searcher.Search(ctx, query)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	if res.HistoryErr != nil {
		fmt.Fprintf(g.Stderr, "warning: search not recorded: %v\n", res.HistoryErr)
	}
	if err := printSearch(g.Stdout, cliutil.ParseOutputFormat(g.Format), res, cfg.LinkBase, showSQL); err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	return 0
}

func printSearch(w io.Writer, fmtOut cliutil.OutputFormat, res *ftsql.SearchResult, linkBase string, showSQL bool) error {
	rows := make([]rowLink, 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, rowLink{Title: r.Title, Rank: r.Rank, Link: r.Link(linkBase)})
	}

	switch fmtOut {
	case cliutil.FormatJSON:
		return cliutil.PrintJSON(w, searchOutput{
			Query:     res.Query,
			SQL:       res.SQL,
			ElapsedMS: res.Elapsed.Milliseconds(),
			Results:   rows,
		})
	default:
		if showSQL {
			fmt.Fprintf(w, "%s\n\n", res.SQL)
		}
		fmt.Fprintf(w, "Found %d results in %dms\n", len(rows), res.Elapsed.Milliseconds())
		for _, r := range rows {
			fmt.Fprintf(w, "- %s (%d) %s\n", r.Title, r.Rank, r.Link)
		}
	}
	return nil
}
