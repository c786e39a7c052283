// Package runner executes generated full-text queries against SQL Server.
package runner

import (
	"context"

	"github.com/ministore/ftsql/ftsql/results"
)

// Runner executes one generated query and returns its ranked rows.
type Runner interface {
	Run(ctx context.Context, sql string) ([]results.Row, error)
}

// Static returns fixed rows without touching a database.
type Static struct {
	Rows []results.Row
	Err  error
}

func (s Static) Run(ctx context.Context, sql string) ([]results.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rows, nil
}
