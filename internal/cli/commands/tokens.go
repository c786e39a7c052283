package commands

import (
	"flag"
	"fmt"

	"github.com/ministore/ftsql/ftsql/query"
	"github.com/ministore/ftsql/internal/cliopt"
	"github.com/ministore/ftsql/internal/cliutil"
)

type tokenView struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func RunTokens(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var q string
	bindQuery(fs, &q)
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	input := queryFrom(fs, q)
	if input == "" {
		fmt.Fprintln(g.Stderr, "missing --query")
		return 2
	}

	tokens := query.Lex(input)
	switch cliutil.ParseOutputFormat(g.Format) {
	case cliutil.FormatJSON:
		out := make([]tokenView, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, tokenView{Kind: tok.Kind.String(), Value: tok.Value})
		}
		if err := cliutil.PrintJSON(g.Stdout, out); err != nil {
			fmt.Fprintln(g.Stderr, err)
			return 1
		}
	default:
		for _, tok := range tokens {
			fmt.Fprintln(g.Stdout, tok)
		}
	}
	return 0
}
