package savedvars

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxInputSize is the largest export accepted, in bytes.
	MaxInputSize = 16 << 20

	// MaxDepth bounds table nesting.
	MaxDepth = 64
)

var (
	// ErrSyntax is wrapped by every lexical or grammatical failure.
	ErrSyntax = errors.New("savedvars: syntax error")

	// ErrTooLarge is returned for input above MaxInputSize.
	ErrTooLarge = errors.New("savedvars: input too large")
)

// Assignment is one top-level `Name = literal` statement.
type Assignment struct {
	Name  string
	Value Value
}

// Document is a parsed SavedVariables file: a sequence of global
// assignments, or a single bare literal (Name is empty).
type Document struct {
	Assignments []Assignment
}

// Lookup returns the value last assigned to name.
func (d *Document) Lookup(name string) (Value, bool) {
	for i := len(d.Assignments) - 1; i >= 0; i-- {
		if d.Assignments[i].Name == name {
			return d.Assignments[i].Value, true
		}
	}
	return Nil, false
}

// ParseDocument parses src as a data-only SavedVariables document. Only
// literals are accepted: no expressions, calls or references.
func ParseDocument(src string) (*Document, error) {
	if len(src) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(src), MaxInputSize)
	}
	src = strings.TrimPrefix(src, "\uFEFF")

	p, err := newParser(src)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	if p.tok.kind != tokIdent || isKeyword(p.tok.text) {
		v, err := p.parseValue(0)
		if err != nil {
			return nil, err
		}
		doc.Assignments = append(doc.Assignments, Assignment{Value: v})
	}

	for p.tok.kind != tokEOF {
		if p.tok.kind == tokSemicolon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokIdent || isKeyword(p.tok.text) {
			return nil, p.unexpected("assignment")
		}
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(tokAssign); err != nil {
			return nil, err
		}
		v, err := p.parseValue(0)
		if err != nil {
			return nil, err
		}
		doc.Assignments = append(doc.Assignments, Assignment{Name: name, Value: v})
	}
	return doc, nil
}

// ParseValue parses src as exactly one literal.
func ParseValue(src string) (Value, error) {
	if len(src) > MaxInputSize {
		return Nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(src), MaxInputSize)
	}
	p, err := newParser(strings.TrimPrefix(src, "\uFEFF"))
	if err != nil {
		return Nil, err
	}
	v, err := p.parseValue(0)
	if err != nil {
		return Nil, err
	}
	if p.tok.kind != tokEOF {
		return Nil, p.unexpected("end of input")
	}
	return v, nil
}

type parser struct {
	lex *lexer
	tok token
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.unexpected(kind.String())
	}
	return p.advance()
}

func (p *parser) unexpected(want string) error {
	got := p.tok.kind.String()
	if p.tok.text != "" {
		got = fmt.Sprintf("%s %q", got, p.tok.text)
	}
	return p.lex.errorf(p.tok.pos, "%s expected, got %s", want, got)
}

func (p *parser) parseValue(depth int) (Value, error) {
	switch p.tok.kind {
	case tokLBrace:
		return p.parseTable(depth + 1)
	case tokString:
		v := String(p.tok.text)
		return v, p.advance()
	case tokNumber:
		v := Number(p.tok.num)
		return v, p.advance()
	case tokMinus:
		if err := p.advance(); err != nil {
			return Nil, err
		}
		if p.tok.kind != tokNumber {
			return Nil, p.unexpected("number")
		}
		v := Number(-p.tok.num)
		return v, p.advance()
	case tokIdent:
		var v Value
		switch p.tok.text {
		case "true":
			v = Bool(true)
		case "false":
			v = Bool(false)
		case "nil":
			v = Nil
		default:
			return Nil, p.lex.errorf(p.tok.pos, "only literal values are allowed, got name %q", p.tok.text)
		}
		return v, p.advance()
	default:
		return Nil, p.unexpected("value")
	}
}

func (p *parser) parseTable(depth int) (Value, error) {
	if depth > MaxDepth {
		return Nil, p.lex.errorf(p.tok.pos, "tables nested deeper than %d", MaxDepth)
	}
	if err := p.expect(tokLBrace); err != nil {
		return Nil, err
	}

	t := NewTable()
	for p.tok.kind != tokRBrace {
		if err := p.parseField(t, depth); err != nil {
			return Nil, err
		}
		if p.tok.kind == tokComma || p.tok.kind == tokSemicolon {
			if err := p.advance(); err != nil {
				return Nil, err
			}
			continue
		}
		if p.tok.kind != tokRBrace {
			return Nil, p.unexpected("'}'")
		}
	}
	return TableValue(t), p.advance()
}

func (p *parser) parseField(t *Table, depth int) error {
	switch {
	case p.tok.kind == tokLBracket:
		if err := p.advance(); err != nil {
			return err
		}
		keyPos := p.tok.pos
		key, err := p.parseValue(depth)
		if err != nil {
			return err
		}
		switch key.Kind() {
		case KindNil:
			return p.lex.errorf(keyPos, "table index is nil")
		case KindTable:
			return p.lex.errorf(keyPos, "table keys must be strings, numbers or booleans")
		}
		if err := p.expect(tokRBracket); err != nil {
			return err
		}
		if err := p.expect(tokAssign); err != nil {
			return err
		}
		v, err := p.parseValue(depth)
		if err != nil {
			return err
		}
		t.Set(key, v)
		return nil

	case p.tok.kind == tokIdent && !isKeyword(p.tok.text):
		name := p.tok.text
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expect(tokAssign); err != nil {
			return err
		}
		v, err := p.parseValue(depth)
		if err != nil {
			return err
		}
		t.Set(String(name), v)
		return nil

	default:
		v, err := p.parseValue(depth)
		if err != nil {
			return err
		}
		t.Append(v)
		return nil
	}
}

func isKeyword(name string) bool {
	switch name {
	case "true", "false", "nil":
		return true
	}
	return false
}
