// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Elem is a path element: either a name (field or child component) or a bit
// range [Lo, Hi).
type Elem struct {
	Name   string
	Lo, Hi int
}

// IsRange returns true if e is a bit range.
func (e Elem) IsRange() bool { return e.Name == "" }

func (e Elem) String() string {
	if e.IsRange() {
		if e.Hi == e.Lo+1 {
			return "[" + strconv.Itoa(e.Lo) + "]"
		}
		return "[" + strconv.Itoa(e.Lo) + ":" + strconv.Itoa(e.Hi) + "]"
	}
	return e.Name
}

// Path is a parsed signal path.
type Path struct {
	Elems []Elem
	Pos   int
}

func (p Path) String() string {
	var b strings.Builder
	for i, e := range p.Elems {
		if i > 0 && !e.IsRange() {
			b.WriteByte('.')
		}
		b.WriteString(e.String())
	}
	return b.String()
}

// Conn is a connection between two paths.
type Conn struct {
	LHS, RHS Path
}

// Parser is a simplistic recursive descent parser over a Lexer.
type Parser struct {
	input string
	l     *Lexer
	i     Item
}

func newParser(input string) *Parser {
	p := &Parser{input: input, l: NewLexer(input)}
	p.next()
	return p
}

func (p *Parser) next() { p.i = p.l.Lex() }

// ParsePath parses a single signal path.
func ParsePath(input string) (Path, error) {
	p := newParser(input)
	path, err := p.path()
	if err != nil {
		return Path{}, err
	}
	if p.i.Type != EOF {
		return Path{}, p.errorf("unexpected %v", p.i)
	}
	return path, nil
}

// ParseConns parses a comma separated list of connections. An empty input
// returns no connections.
func ParseConns(input string) ([]Conn, error) {
	p := newParser(input)
	var out []Conn
	if p.i.Type == EOF {
		return nil, nil
	}
	for {
		lhs, err := p.path()
		if err != nil {
			return nil, err
		}
		if p.i.Type != Equal {
			return nil, p.errorf("expected %v, got %v", Equal, p.i)
		}
		p.next()
		rhs, err := p.path()
		if err != nil {
			return nil, err
		}
		out = append(out, Conn{lhs, rhs})
		switch p.i.Type {
		case EOF:
			return out, nil
		case Comma:
			p.next()
		default:
			return nil, p.errorf("expected %v or %v, got %v", Comma, EOF, p.i)
		}
	}
}

func (p *Parser) path() (Path, error) {
	path := Path{Pos: p.i.Pos}
	if p.i.Type != Ident {
		return path, p.errorf("expected signal name, got %v", p.i)
	}
	path.Elems = append(path.Elems, Elem{Name: p.i.Value})
	p.next()
	for {
		switch p.i.Type {
		case Dot:
			p.next()
			if p.i.Type != Ident {
				return path, p.errorf("expected name after '.', got %v", p.i)
			}
			path.Elems = append(path.Elems, Elem{Name: p.i.Value})
			p.next()
		case BracketOpen:
			e, err := p.bitRange()
			if err != nil {
				return path, err
			}
			path.Elems = append(path.Elems, e)
		default:
			return path, nil
		}
	}
}

func (p *Parser) bitRange() (Elem, error) {
	p.next()
	if p.i.Type != Int {
		return Elem{}, p.errorf("integer value expected after '['")
	}
	lo := p.i.Int
	hi := lo + 1
	p.next()
	if p.i.Type == Colon {
		p.next()
		if p.i.Type != Int {
			return Elem{}, p.errorf("integer value expected after ':'")
		}
		hi = p.i.Int
		p.next()
	}
	if p.i.Type != BracketClose {
		return Elem{}, p.errorf("closing ']' expected after index or range")
	}
	p.next()
	if hi <= lo {
		return Elem{}, p.errorf("empty bit range [%d:%d]", lo, hi)
	}
	return Elem{Lo: lo, Hi: hi}, nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: %s", p.input, p.i.Pos+1, fmt.Sprintf(format, args...))
}
