package dsl

import (
	"strconv"
	"strings"
)

// parser is a recursive-descent parser over the token stream with one token
// of lookahead.
type parser struct {
	source string
	lex    *lexer
	tok    token
}

// Parse parses rule source into an AST without validating predicate names
// or arities; Compile layers that validation on top.
func Parse(source string) (Expr, error) {
	if strings.TrimSpace(source) == "" {
		return nil, syntaxErrorf(source, 0, "empty rule expression")
	}

	p := &parser{source: source, lex: newLexer(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.tok.kind != tokenEOF {
		return nil, syntaxErrorf(source, p.tok.pos, "unexpected %s after expression", p.tok.kind)
	}

	return expr, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.tok.kind != kind {
		return token{}, syntaxErrorf(p.source, p.tok.pos, "expected %s, got %s", kind, p.tok.kind)
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

// parseExpr parses a logical or predicate call.
func (p *parser) parseExpr() (Expr, error) {
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}

	switch name.text {
	case "and", "or", "not":
		return p.parseLogical(LogicalOp(name.text), name.pos)
	default:
		return p.parsePredicate(name.text, name.pos)
	}
}

// parseLogical parses the children of an and/or/not call.
func (p *parser) parseLogical(op LogicalOp, pos int) (Expr, error) {
	var children []Expr

	for p.tok.kind != tokenRParen {
		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, child)

		if p.tok.kind == tokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind == tokenRParen {
				return nil, syntaxErrorf(p.source, p.tok.pos, "expected expression after ','")
			}
			continue
		}
		break
	}

	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return nil, syntaxErrorf(p.source, pos, "%s() requires at least one argument", op)
	}
	if op == OpNot && len(children) != 1 {
		return nil, syntaxErrorf(p.source, pos, "not() requires exactly one argument, got %d", len(children))
	}

	return &LogicalNode{Op: op, Children: children}, nil
}

// parsePredicate parses the argument list of a predicate call. Arguments are
// literals or dotted path references; nested calls are only legal under the
// logical combinators.
func (p *parser) parsePredicate(name string, pos int) (Expr, error) {
	var args []Arg

	for p.tok.kind != tokenRParen {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.tok.kind == tokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind == tokenRParen {
				return nil, syntaxErrorf(p.source, p.tok.pos, "expected argument after ','")
			}
			continue
		}
		break
	}

	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}

	return &PredicateNode{Name: name, Args: args}, nil
}

// parseArg parses a single predicate argument.
func (p *parser) parseArg() (Arg, error) {
	switch p.tok.kind {
	case tokenString:
		lit := Literal{Value: p.tok.text}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil

	case tokenNumber:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return nil, syntaxErrorf(p.source, p.tok.pos, "malformed number %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Literal{Value: f}, nil

	case tokenIdent:
		tok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokenLParen {
			return nil, syntaxErrorf(p.source, tok.pos, "nested call %q not allowed in predicate arguments", tok.text)
		}
		return identToArg(p.source, tok)

	default:
		return nil, syntaxErrorf(p.source, p.tok.pos, "expected argument, got %s", p.tok.kind)
	}
}

// identToArg interprets a bare identifier: keyword literals become Literal
// values, everything else is a dotted path reference.
func identToArg(source string, tok token) (Arg, error) {
	switch tok.text {
	case "true":
		return Literal{Value: true}, nil
	case "false":
		return Literal{Value: false}, nil
	case "null":
		return Literal{Value: nil}, nil
	}

	segments := strings.Split(tok.text, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, syntaxErrorf(source, tok.pos, "malformed path %q", tok.text)
		}
	}

	if segments[0] == "context" {
		if len(segments) == 1 {
			return nil, syntaxErrorf(source, tok.pos, "context path %q needs at least one segment", tok.text)
		}
		return PathRef{Path: segments[1:], FromContext: true}, nil
	}

	return PathRef{Path: segments}, nil
}
