package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Token represents a lexical token
type Token struct {
	Kind   TokenKind
	Value  string
	Count  uint64  // set for TokNumber
	Weight float64 // set for TokZeroToOne
}

func (t Token) String() string {
	switch t.Kind {
	case TokWordOrPhrase, TokNumber, TokZeroToOne, TokError:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
	default:
		return t.Kind.String()
	}
}

// TokenKind is the type of token
type TokenKind int

const (
	TokWordOrPhrase TokenKind = iota
	TokNumber
	TokZeroToOne
	TokBang
	TokMinus
	TokAnd
	TokPlus
	TokOr
	TokLParen
	TokRParen
	TokComma
	TokContains
	TokStarts
	TokInflection
	TokThesaurus
	TokNear
	TokWeighted
	TokColon
	TokEOF
	TokError
)

func (k TokenKind) String() string {
	switch k {
	case TokWordOrPhrase:
		return "WordOrPhrase"
	case TokNumber:
		return "Number"
	case TokZeroToOne:
		return "ZeroToOne"
	case TokBang:
		return "Bang"
	case TokMinus:
		return "Minus"
	case TokAnd:
		return "And"
	case TokPlus:
		return "Plus"
	case TokOr:
		return "Or"
	case TokLParen:
		return "LParen"
	case TokRParen:
		return "RParen"
	case TokComma:
		return "Comma"
	case TokContains:
		return "Contains"
	case TokStarts:
		return "Starts"
	case TokInflection:
		return "Inflection"
	case TokThesaurus:
		return "Thesaurus"
	case TokNear:
		return "Near"
	case TokWeighted:
		return "Weighted"
	case TokColon:
		return "Colon"
	case TokEOF:
		return "EOF"
	case TokError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsKeyword reports whether k introduces a predicate.
func (k TokenKind) IsKeyword() bool {
	switch k {
	case TokContains, TokStarts, TokInflection, TokThesaurus, TokNear, TokWeighted:
		return true
	}
	return false
}

var keywords = map[string]TokenKind{
	"@contains":     TokContains,
	"@startswith":   TokStarts,
	"@starts":       TokStarts,
	"@inflection":   TokInflection,
	"@inflectional": TokInflection,
	"@thesaurus":    TokThesaurus,
	"@near":         TokNear,
	"@weighted":     TokWeighted,
}

// Lexer tokenizes a query string
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a new lexer for the input string
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		pos:   0,
	}
}

// Lex tokenizes the entire input. It never fails: unrecognized input becomes
// TokError tokens which the parser rejects. No EOF token is appended.
func Lex(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, ok := lexer.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}

	return tokens
}

// Next returns the next token, or false once the input is exhausted
func (l *Lexer) Next() (Token, bool) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF}, false
	}

	ch := l.input[l.pos]

	// Single-character tokens
	switch ch {
	case '!':
		return l.single(TokBang), true
	case '-':
		return l.single(TokMinus), true
	case '&':
		return l.single(TokAnd), true
	case '+':
		return l.single(TokPlus), true
	case '|':
		return l.single(TokOr), true
	case '(':
		return l.single(TokLParen), true
	case ')':
		return l.single(TokRParen), true
	case ',':
		return l.single(TokComma), true
	case ':':
		return l.single(TokColon), true
	case '"':
		return l.scanPhrase(), true
	case '@':
		return l.scanKeyword(), true
	}

	if isDigit(ch) {
		return l.scanNumber(), true
	}

	if isWordChar(ch) {
		return l.scanWord(), true
	}

	l.pos++
	return Token{Kind: TokError, Value: string(ch)}, true
}

func (l *Lexer) single(kind TokenKind) Token {
	tok := Token{Kind: kind, Value: string(l.input[l.pos])}
	l.pos++
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

// scanPhrase keeps the surrounding quotes and any escapes verbatim.
func (l *Lexer) scanPhrase() Token {
	start := l.pos
	l.pos++ // opening quote

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		l.pos++
		if ch == '"' {
			return Token{Kind: TokWordOrPhrase, Value: string(l.input[start:l.pos])}
		}
	}

	return Token{Kind: TokError, Value: string(l.input[start:l.pos])}
}

func (l *Lexer) scanKeyword() Token {
	start := l.pos
	l.pos++ // @
	for l.pos < len(l.input) && unicode.IsLetter(l.input[l.pos]) {
		l.pos++
	}

	value := string(l.input[start:l.pos])
	if kind, ok := keywords[strings.ToLower(value)]; ok {
		return Token{Kind: kind, Value: value}
	}
	return Token{Kind: TokError, Value: value}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	// Fractional part only when a digit follows the dot
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	return classifyNumeral(string(l.input[start:l.pos]))
}

// classifyNumeral separates weights (0, 0.x, 1, 1.0) from proximity counts.
func classifyNumeral(s string) Token {
	intPart, frac, hasFrac := strings.Cut(s, ".")

	if intPart == "0" || (intPart == "1" && strings.Trim(frac, "0") == "") {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Token{Kind: TokError, Value: s}
		}
		return Token{Kind: TokZeroToOne, Value: s, Weight: w}
	}

	if hasFrac {
		return Token{Kind: TokError, Value: s}
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Token{Kind: TokError, Value: s}
	}
	return Token{Kind: TokNumber, Value: s, Count: n}
}

func (l *Lexer) scanWord() Token {
	start := l.pos

	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}

	return Token{Kind: TokWordOrPhrase, Value: string(l.input[start:l.pos])}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isWordChar(ch rune) bool {
	if unicode.IsLetter(ch) {
		return true
	}
	switch ch {
	case '?', ';', '.', '_', '<', '>', '´', '`', '#', '§', '$', '%', '/', '\\', '=', '€':
		return true
	}
	return false
}
