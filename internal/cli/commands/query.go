package commands

import (
	"flag"
	"strings"
)

// bindQuery registers -q/--query. When neither is given the remaining
// positional arguments form the query.
func bindQuery(fs *flag.FlagSet, q *string) {
	fs.StringVar(q, "query", "", "query")
	fs.StringVar(q, "q", "", "query")
}

func queryFrom(fs *flag.FlagSet, q string) string {
	if q != "" {
		return strings.TrimSpace(q)
	}
	return strings.TrimSpace(strings.Join(fs.Args(), " "))
}
