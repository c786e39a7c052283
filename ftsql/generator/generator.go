// Package generator renders a parsed query as a SQL Server full-text
// predicate and embeds it into a CONTAINSTABLE query.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ministore/ftsql/ftsql/query"
)

// UnexpectedStatementError is returned for a statement shape the renderer does not know.
type UnexpectedStatementError struct {
	Statement query.Statement
}

func (e *UnexpectedStatementError) Error() string {
	return fmt.Sprintf("unexpected statement %#v", e.Statement)
}

// UnexpectedExprError is returned for an expression shape the renderer does not know.
type UnexpectedExprError struct {
	Expr query.Expr
}

func (e *UnexpectedExprError) Error() string {
	return fmt.Sprintf("unexpected expression %#v", e.Expr)
}

// Generate renders prog and wraps it in the query template described by cfg.
func Generate(prog query.Program, cfg Config) (string, error) {
	pred, err := Predicate(prog)
	if err != nil {
		return "", err
	}
	return cfg.Wrap(pred), nil
}

// Predicate renders prog as full-text predicate text. Statements are space separated.
func Predicate(prog query.Program) (string, error) {
	parts := make([]string, 0, len(prog))
	for _, stmt := range prog {
		s, err := renderStatement(stmt)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

func renderStatement(stmt query.Statement) (string, error) {
	switch s := stmt.(type) {
	case query.Compound:
		left, err := renderStatement(s.Left)
		if err != nil {
			return "", err
		}
		right, err := renderStatement(s.Right)
		if err != nil {
			return "", err
		}
		if s.Op == query.OpNot {
			return left + " " + right, nil
		}
		return left + " " + s.Op.String() + " " + right, nil

	case query.Contains:
		return renderExpr(s.Expr)

	case query.Starts:
		term, err := renderExpr(s.Expr)
		if err != nil {
			return "", err
		}
		if isQuoted(term) {
			return term[:len(term)-1] + `*"`, nil
		}
		return term + "*", nil

	case query.Inflection:
		term, err := renderExpr(s.Expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`FORMSOF(INFLECTIONAL, "%s")`, unquote(term)), nil

	case query.Thesaurus:
		term, err := renderExpr(s.Expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`FORMSOF(THESAURUS, "%s")`, unquote(term)), nil

	case query.Near:
		terms := make([]string, 0, len(s.Terms))
		for _, t := range s.Terms {
			term, err := renderExpr(t)
			if err != nil {
				return "", err
			}
			terms = append(terms, term)
		}
		proximity, err := renderExpr(s.Proximity)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NEAR((%s), %s)", strings.Join(terms, ", "), proximity), nil

	case query.Weighted:
		terms := make([]string, 0, len(s.Terms))
		for _, wt := range s.Terms {
			term, err := renderExpr(wt.Term)
			if err != nil {
				return "", err
			}
			weight, err := renderExpr(wt.Weight)
			if err != nil {
				return "", err
			}
			terms = append(terms, fmt.Sprintf("%s WEIGHT(%s)", term, weight))
		}
		return fmt.Sprintf("ISABOUT(%s)", strings.Join(terms, ", ")), nil

	default:
		return "", &UnexpectedStatementError{Statement: stmt}
	}
}

func renderExpr(expr query.Expr) (string, error) {
	switch e := expr.(type) {
	case query.WordOrPhrase:
		return e.Text, nil

	case query.Number:
		return strconv.FormatUint(e.Value, 10), nil

	case query.ZeroToOne:
		return strconv.FormatFloat(e.Value, 'f', -1, 64), nil

	case query.Infix:
		left, err := renderExpr(e.Left)
		if err != nil {
			return "", err
		}
		// NOT must precede the parenthesis; "(NOT x)" is not a valid operand.
		if p, ok := e.Right.(query.Prefix); ok && p.Op == query.OpNot {
			inner, err := renderExpr(p.Operand)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s) %s NOT (%s)", left, e.Op, inner), nil
		}
		right, err := renderExpr(e.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s) %s (%s)", left, e.Op, right), nil

	case query.Prefix:
		inner, err := renderExpr(e.Operand)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (%s)", e.Op, inner), nil

	default:
		return "", &UnexpectedExprError{Expr: expr}
	}
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}
