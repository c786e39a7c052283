package query

import (
	"errors"
	"fmt"
)

// ErrUnreachable reports a parser branch the grammar should never reach.
var ErrUnreachable = errors.New("entered unreachable code")

// UnexpectedTokenError is returned when a token cannot start or continue the current production.
type UnexpectedTokenError struct {
	Token Token
}

func (e *UnexpectedTokenError) Error() string {
	if e.Token.Kind == TokEOF {
		return "unexpected end of query"
	}
	return fmt.Sprintf("unexpected token %v", e.Token)
}

// WeightError is returned when the weights of a weighted predicate do not sum to 1.
type WeightError struct {
	Sum float64
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("weights do not add up to 1.0 (sum of all weights: %g)", e.Sum)
}
