// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements the small grammar used to name signals and describe
// connections in string form:
//
//	path  = ident { "." ident | "[" int [ ":" int ] "]" }
//	conns = conn { "," conn }
//	conn  = path "=" path
package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Type is a token type.
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Colon
	Dot
	Equal
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "character",
	Ident:        "identifier",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Int:          "integer",
	Colon:        "':'",
	Dot:          "'.'",
	Equal:        "'='",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "token(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Item is a lexed token.
type Item struct {
	Type  Type
	Pos   int
	Value string
	Int   int
}

func (i Item) String() string {
	switch i.Type {
	case Ident, Int, Raw:
		return i.Type.String() + " " + strconv.Quote(i.Value)
	}
	return i.Type.String()
}

// Lexer splits an input string into tokens.
type Lexer struct {
	input string
	pos   int
}

// NewLexer returns a lexer reading from input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek() (rune, int) {
	if l.pos >= len(l.input) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// Lex returns the next token. Once the input is exhausted, it returns EOF
// forever.
func (l *Lexer) Lex() Item {
	r, n := l.peek()
	for r >= 0 && unicode.IsSpace(r) {
		l.pos += n
		r, n = l.peek()
	}
	start := l.pos
	if r < 0 {
		return Item{Type: EOF, Pos: start}
	}
	l.pos += n
	switch {
	case unicode.IsLetter(r) || r == '_':
		for {
			r, n = l.peek()
			if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
				break
			}
			l.pos += n
		}
		return Item{Type: Ident, Pos: start, Value: l.input[start:l.pos]}
	case '0' <= r && r <= '9':
		v := int(r - '0')
		for {
			r, n = l.peek()
			if r < '0' || r > '9' {
				break
			}
			v = v*10 + int(r-'0')
			l.pos += n
		}
		return Item{Type: Int, Pos: start, Value: l.input[start:l.pos], Int: v}
	case r == '[':
		return Item{Type: BracketOpen, Pos: start}
	case r == ']':
		return Item{Type: BracketClose, Pos: start}
	case r == ',':
		return Item{Type: Comma, Pos: start}
	case r == ':':
		return Item{Type: Colon, Pos: start}
	case r == '.':
		return Item{Type: Dot, Pos: start}
	case r == '=':
		return Item{Type: Equal, Pos: start}
	}
	return Item{Type: Raw, Pos: start, Value: string(r)}
}

// IsIdent returns true if s is a valid identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || i > 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
