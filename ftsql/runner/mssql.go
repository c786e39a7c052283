package runner

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/ministore/ftsql/ftsql/results"
)

// MSSQL runs queries over a native SQL Server connection.
type MSSQL struct {
	DB *sql.DB
}

// OpenMSSQL connects with a sqlserver:// DSN and verifies the connection.
func OpenMSSQL(ctx context.Context, dsn string) (*MSSQL, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &MSSQL{DB: db}, nil
}

func (m *MSSQL) Run(ctx context.Context, query string) ([]results.Row, error) {
	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []results.Row
	for rows.Next() {
		var title string
		var rank int64
		if err := rows.Scan(&title, &rank); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if rank < 0 {
			rank = 0
		}
		out = append(out, results.Row{Title: title, Rank: uint64(rank)})
	}
	return out, rows.Err()
}

func (m *MSSQL) Close() error {
	if m.DB == nil {
		return nil
	}
	return m.DB.Close()
}
