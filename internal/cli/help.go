package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprintln(w, `ftsql - compile full-text search queries to SQL Server CONTAINSTABLE

USAGE
  ftsql [global flags] <command> [args]

GLOBAL FLAGS
  --config <file.json>
  --backend none|sqlite|postgres      search history store
  --sqlite-path <file.db>
  --sqlite-driver sqlite|sqlite3
  --pg-dsn <dsn>
  --pg-schema <name>
  --runner sqlcmd|mssql|none
  --format pretty|json

COMMANDS
  compile -q <query> [--predicate]    print the generated SQL
  tokens  -q <query>                  print the lexed tokens
  search  -q <query>                  compile, run and print ranked titles
  serve   [--listen addr]             serve the search form over HTTP
  history [--limit n] [--clear]       show recorded searches

QUERY SYNTAX
  @contains: "new york" | boston:
  @starts: comput:         @inflectional: run:      @thesaurus: car:
  @near: cat, dog, 3:      @weighted: cat, 0.25, dog, 0.75:
  predicates combine with & + | ; terms with & + | - ! and juxtaposition`)
}
