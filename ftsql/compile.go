package ftsql

import (
	"errors"

	"github.com/ministore/ftsql/ftsql/generator"
	"github.com/ministore/ftsql/ftsql/query"
)

// Compile lexes, parses and renders input into a complete CONTAINSTABLE query.
// Stage errors are wrapped in *Error; the typed query and generator errors stay
// reachable through errors.As.
func Compile(input string, cfg generator.Config) (string, error) {
	prog, err := parse(input)
	if err != nil {
		return "", err
	}
	sql, err := generator.Generate(prog, cfg)
	if err != nil {
		return "", Wrap(ErrGenerate, "generate sql", err)
	}
	return sql, nil
}

// Predicate compiles input into the bare full-text predicate without the query template.
func Predicate(input string) (string, error) {
	prog, err := parse(input)
	if err != nil {
		return "", err
	}
	pred, err := generator.Predicate(prog)
	if err != nil {
		return "", Wrap(ErrGenerate, "generate predicate", err)
	}
	return pred, nil
}

func parse(input string) (query.Program, error) {
	prog, err := query.ParseString(input)
	if err != nil {
		var we *query.WeightError
		if errors.As(err, &we) {
			return nil, Wrap(ErrWeights, "invalid weights", err)
		}
		return nil, Wrap(ErrQueryParse, "parse query", err)
	}
	return prog, nil
}
