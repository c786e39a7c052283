package query

import "fmt"

// Operator is a boolean connective
type Operator int

const (
	OpAnd Operator = iota
	OpOr
	OpNot
)

func (op Operator) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	default:
		return "?"
	}
}

// OperatorFor maps an operator token to its Operator. The parser only calls it
// on operator tokens; any other token yields ErrUnreachable.
func OperatorFor(tok Token) (Operator, error) {
	switch tok.Kind {
	case TokPlus, TokAnd:
		return OpAnd, nil
	case TokOr:
		return OpOr, nil
	case TokMinus, TokBang:
		return OpNot, nil
	default:
		return 0, fmt.Errorf("no operator for token %v: %w", tok, ErrUnreachable)
	}
}

// Expr is a boolean term inside a predicate body or parameter list
type Expr interface {
	isExpr()
}

// WordOrPhrase is a bare word or a quoted phrase (quotes retained)
type WordOrPhrase struct {
	Text string
}

func (WordOrPhrase) isExpr() {}

// IsPhrase reports whether the text is a quoted phrase
func (w WordOrPhrase) IsPhrase() bool {
	return isQuoted(w.Text)
}

// Number is a proximity count
type Number struct {
	Value uint64
}

func (Number) isExpr() {}

// ZeroToOne is a term weight in [0,1]
type ZeroToOne struct {
	Value float64
}

func (ZeroToOne) isExpr() {}

// Infix combines two expressions
type Infix struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (Infix) isExpr() {}

// Prefix applies an operator (in practice NOT) to one expression
type Prefix struct {
	Op      Operator
	Operand Expr
}

func (Prefix) isExpr() {}

// Statement is a top-level predicate or a combination of predicates
type Statement interface {
	isStatement()
}

// Contains matches the expression as written
type Contains struct {
	Expr Expr
}

func (Contains) isStatement() {}

// Starts matches terms beginning with the expression
type Starts struct {
	Expr Expr
}

func (Starts) isStatement() {}

// Inflection matches inflectional forms of the expression
type Inflection struct {
	Expr Expr
}

func (Inflection) isStatement() {}

// Thesaurus matches thesaurus expansions of the expression
type Thesaurus struct {
	Expr Expr
}

func (Thesaurus) isStatement() {}

// DefaultProximity is used when a near predicate omits its distance
var DefaultProximity Expr = Number{Value: 5}

// Near matches terms within Proximity words of each other. Term order is significant.
type Near struct {
	Terms     []Expr
	Proximity Expr
}

func (Near) isStatement() {}

// WeightedTerm pairs a term with its weight
type WeightedTerm struct {
	Term   Expr
	Weight Expr
}

// Weighted ranks matches by term importance. Weights sum to exactly 1.
type Weighted struct {
	Terms []WeightedTerm
}

func (Weighted) isStatement() {}

// Compound joins two statements with AND or OR
type Compound struct {
	Left  Statement
	Op    Operator
	Right Statement
}

func (Compound) isStatement() {}

// Program is the ordered list of top-level statements
type Program []Statement

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}
