package query

// ParseString lexes and parses a query string
func ParseString(input string) (Program, error) {
	return Parse(Lex(input))
}

// Parse parses a token sequence into top-level statements
func Parse(tokens []Token) (Program, error) {
	p := &parser{tokens: tokens, pos: 0}

	var prog Program
	for !p.match(TokEOF) {
		stmt, err := p.parseStatement(precLowest)
		if err != nil {
			return nil, err
		}
		prog = append(prog, stmt)
	}

	if len(prog) == 0 {
		return nil, &UnexpectedTokenError{Token: p.current()}
	}
	return prog, nil
}

type precedence int

const (
	precLowest precedence = iota
	precStatement
	precOr
	precAnd
	precNot
	precPrefix
	precGroup
)

func tokenPrecedence(tok Token) precedence {
	switch tok.Kind {
	case TokBang, TokMinus:
		return precNot
	case TokPlus, TokAnd, TokWordOrPhrase:
		return precAnd
	case TokOr:
		return precOr
	case TokLParen:
		return precGroup
	default:
		if tok.Kind.IsKeyword() {
			return precStatement
		}
		return precLowest
	}
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) parseStatement(prec precedence) (Statement, error) {
	var stmt Statement

	switch p.current().Kind {
	case TokContains:
		expr, err := p.parseBody(TokContains)
		if err != nil {
			return nil, err
		}
		stmt = Contains{Expr: expr}
	case TokStarts:
		expr, err := p.parseBody(TokStarts)
		if err != nil {
			return nil, err
		}
		stmt = Starts{Expr: expr}
	case TokInflection:
		expr, err := p.parseBody(TokInflection)
		if err != nil {
			return nil, err
		}
		stmt = Inflection{Expr: expr}
	case TokThesaurus:
		expr, err := p.parseBody(TokThesaurus)
		if err != nil {
			return nil, err
		}
		stmt = Thesaurus{Expr: expr}
	case TokNear:
		s, err := p.parseNear()
		if err != nil {
			return nil, err
		}
		stmt = s
	case TokWeighted:
		s, err := p.parseWeighted()
		if err != nil {
			return nil, err
		}
		stmt = s
	default:
		// Also rejects a bare !/- in front of a predicate.
		return nil, &UnexpectedTokenError{Token: p.current()}
	}

	for !p.match(TokEOF) && prec < tokenPrecedence(p.current()) {
		switch p.current().Kind {
		case TokPlus, TokAnd, TokOr:
			tok := p.current()
			op, err := OperatorFor(tok)
			if err != nil {
				return nil, err
			}
			p.advance()
			right, err := p.parseStatement(tokenPrecedence(tok))
			if err != nil {
				return nil, err
			}
			stmt = Compound{Left: stmt, Op: op, Right: right}
		default:
			return stmt, nil
		}
	}

	return stmt, nil
}

// parseBody handles "@kind: expr :" and returns the body expression.
func (p *parser) parseBody(kind TokenKind) (Expr, error) {
	if _, err := p.expect(kind); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precStatement)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseNear() (Statement, error) {
	if _, err := p.expect(TokNear); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	var terms []Expr
	proximity := DefaultProximity
	for !p.match(TokColon) {
		if p.match(TokComma) {
			p.advance()
		}
		expr, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		switch e := expr.(type) {
		case WordOrPhrase:
			terms = append(terms, e)
		case Number:
			// Only the last parameter may be a distance
			if !p.match(TokColon) {
				return nil, &UnexpectedTokenError{Token: p.current()}
			}
			proximity = e
		default:
			return nil, &UnexpectedTokenError{Token: p.current()}
		}
	}

	if len(terms) == 0 {
		return nil, &UnexpectedTokenError{Token: p.current()}
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	return Near{Terms: terms, Proximity: proximity}, nil
}

func (p *parser) parseWeighted() (Statement, error) {
	if _, err := p.expect(TokWeighted); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	var terms []WeightedTerm
	var sum float64
	for !p.match(TokColon) {
		if p.match(TokComma) {
			p.advance()
		}
		term, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, ok := term.(WordOrPhrase); !ok {
			return nil, &UnexpectedTokenError{Token: p.current()}
		}
		if _, err := p.expect(TokComma); err != nil {
			return nil, err
		}
		weight, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		w, ok := weight.(ZeroToOne)
		if !ok {
			return nil, &UnexpectedTokenError{Token: p.current()}
		}
		sum += w.Value
		terms = append(terms, WeightedTerm{Term: term, Weight: w})
	}

	// Exact comparison, no epsilon
	if sum != 1.0 {
		return nil, &WeightError{Sum: sum}
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	return Weighted{Terms: terms}, nil
}

func (p *parser) parseExpr(prec precedence) (Expr, error) {
	var expr Expr

	tok := p.current()
	switch tok.Kind {
	case TokWordOrPhrase:
		p.advance()
		expr = WordOrPhrase{Text: tok.Value}
	case TokNumber:
		p.advance()
		expr = Number{Value: tok.Count}
	case TokZeroToOne:
		p.advance()
		expr = ZeroToOne{Value: tok.Weight}
	case TokMinus, TokBang:
		op, err := OperatorFor(tok)
		if err != nil {
			return nil, err
		}
		p.advance()
		operand, err := p.parseExpr(precPrefix)
		if err != nil {
			return nil, err
		}
		expr = Prefix{Op: op, Operand: operand}
	case TokLParen:
		group, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		expr = group
	default:
		return nil, &UnexpectedTokenError{Token: tok}
	}

	for !p.match(TokEOF) && prec < tokenPrecedence(p.current()) {
		next, ok, err := p.parsePostfix(expr)
		if err != nil {
			return nil, err
		}
		if !ok {
			next, ok, err = p.parseInfix(expr)
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			break
		}
		expr = next
	}

	return expr, nil
}

// parsePostfix treats a term following another term with no connective as AND.
func (p *parser) parsePostfix(left Expr) (Expr, bool, error) {
	switch p.current().Kind {
	case TokMinus, TokBang, TokWordOrPhrase:
		right, err := p.parseExpr(precAnd)
		if err != nil {
			return nil, false, err
		}
		return Infix{Left: left, Op: OpAnd, Right: right}, true, nil
	default:
		return nil, false, nil
	}
}

func (p *parser) parseInfix(left Expr) (Expr, bool, error) {
	switch p.current().Kind {
	case TokPlus, TokAnd, TokOr:
		tok := p.current()
		op, err := OperatorFor(tok)
		if err != nil {
			return nil, false, err
		}
		p.advance()
		right, err := p.parseExpr(tokenPrecedence(tok))
		if err != nil {
			return nil, false, err
		}
		return Infix{Left: left, Op: op, Right: right}, true, nil
	default:
		return nil, false, nil
	}
}

func (p *parser) parseGroup() (Expr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(precStatement)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: TokEOF}
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) match(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return Token{}, &UnexpectedTokenError{Token: tok}
	}
	p.advance()
	return tok, nil
}
