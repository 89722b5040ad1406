package dsl

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
	tokenComma
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string // decoded text for strings, raw text otherwise
	pos  int    // byte offset in the source
}

// lexer tokenizes rule source. Quoted strings are decoded here so the parser
// never has to care about embedded commas or parentheses.
type lexer struct {
	source string
	pos    int
}

func newLexer(source string) *lexer {
	return &lexer{source: source}
}

// next returns the next token. Lexical faults surface as *SyntaxError.
func (l *lexer) next() (token, error) {
	l.skipSpace()

	if l.pos >= len(l.source) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.source[l.pos]

	switch {
	case ch == '(':
		l.pos++
		return token{kind: tokenLParen, text: "(", pos: start}, nil

	case ch == ')':
		l.pos++
		return token{kind: tokenRParen, text: ")", pos: start}, nil

	case ch == ',':
		l.pos++
		return token{kind: tokenComma, text: ",", pos: start}, nil

	case ch == '"' || ch == '\'':
		return l.scanString()

	case ch == '-' || ch >= '0' && ch <= '9':
		return l.scanNumber()

	case isIdentStart(rune(ch)):
		return l.scanIdent()

	default:
		return token{}, syntaxErrorf(l.source, start, "unexpected character %q", ch)
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// scanString scans a quoted string with backslash escapes. An embedded comma
// or parenthesis is plain content, never a separator.
func (l *lexer) scanString() (token, error) {
	start := l.pos
	quote := l.source[l.pos]
	l.pos++

	var sb strings.Builder
	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		switch ch {
		case quote:
			l.pos++
			return token{kind: tokenString, text: sb.String(), pos: start}, nil

		case '\\':
			l.pos++
			if l.pos >= len(l.source) {
				return token{}, syntaxErrorf(l.source, start, "unterminated string literal")
			}
			switch esc := l.source[l.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				// \" \' \\ and anything else: take the character literally
				sb.WriteByte(esc)
			}
			l.pos++

		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}

	return token{}, syntaxErrorf(l.source, start, "unterminated string literal")
}

func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	if l.source[l.pos] == '-' {
		l.pos++
	}

	digits := 0
	for l.pos < len(l.source) && l.source[l.pos] >= '0' && l.source[l.pos] <= '9' {
		l.pos++
		digits++
	}
	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.source) && l.source[l.pos] >= '0' && l.source[l.pos] <= '9' {
			l.pos++
			digits++
		}
	}

	if digits == 0 {
		return token{}, syntaxErrorf(l.source, start, "malformed number")
	}

	return token{kind: tokenNumber, text: l.source[start:l.pos], pos: start}, nil
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.source) && isIdentPart(rune(l.source[l.pos])) {
		l.pos++
	}
	return token{kind: tokenIdent, text: l.source[start:l.pos], pos: start}, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}
