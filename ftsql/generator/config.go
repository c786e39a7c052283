package generator

import (
	"fmt"
	"strings"
)

// Config names the schema objects the generated query runs against.
type Config struct {
	Database      string `json:"database"`      // emitted as USE <db>; omitted when empty
	Table         string `json:"table"`         // full-text indexed table
	ReturnColumn  string `json:"returnColumn"`  // column returned next to RANK
	KeyColumn     string `json:"keyColumn"`     // column joined against CONTAINSTABLE's [KEY]
	SearchColumns string `json:"searchColumns"` // column list passed to CONTAINSTABLE
	Top           int    `json:"top"`
	MinRank       int    `json:"minRank"`
	EscapeQuotes  bool   `json:"escapeQuotes"` // double ' when splicing the predicate literal
}

// DefaultConfig returns the Wikipedia article schema.
func DefaultConfig() Config {
	return Config{
		Database:      "Wikipedia",
		Table:         "[dbo].[Real_Article]",
		ReturnColumn:  "Title",
		KeyColumn:     "[ID]",
		SearchColumns: "*",
		Top:           5,
		MinRank:       5,
		EscapeQuotes:  true,
	}
}

// Validate checks that every identifier the template needs is present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("generator: table is required")
	}
	if strings.TrimSpace(c.ReturnColumn) == "" {
		return fmt.Errorf("generator: return column is required")
	}
	if strings.TrimSpace(c.KeyColumn) == "" {
		return fmt.Errorf("generator: key column is required")
	}
	if strings.TrimSpace(c.SearchColumns) == "" {
		return fmt.Errorf("generator: search columns are required")
	}
	if c.Top <= 0 {
		return fmt.Errorf("generator: top must be positive, got %d", c.Top)
	}
	return nil
}

// Wrap splices a rendered predicate into the CONTAINSTABLE query.
func (c Config) Wrap(predicate string) string {
	if c.EscapeQuotes {
		predicate = strings.ReplaceAll(predicate, "'", "''")
	}

	var sb strings.Builder
	if c.Database != "" {
		fmt.Fprintf(&sb, "USE %s; ", c.Database)
	}
	fmt.Fprintf(&sb,
		"SELECT TOP %d * FROM (SELECT FT_TBL.%s, KEY_TBL.RANK FROM %s AS FT_TBL INNER JOIN CONTAINSTABLE(%s, %s, '%s') AS KEY_TBL ON FT_TBL.%s = KEY_TBL.[KEY] WHERE KEY_TBL.RANK > %d) AS FS_RESULT ORDER BY FS_RESULT.RANK DESC;",
		c.Top, c.ReturnColumn, c.Table, c.Table, c.SearchColumns, predicate, c.KeyColumn, c.MinRank,
	)
	return sb.String()
}
