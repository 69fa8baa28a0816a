// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"strconv"
	"strings"

	"github.com/db47h/cyclesim/internal/hdl"
	"github.com/pkg/errors"
)

// MaxWidth is the maximum width in bits of a signal.
const MaxWidth = 64

// Type is the declared type of a signal: either a plain bit vector or a
// struct of named fields. Struct fields are laid out LSB first, in declaration
// order.
type Type struct {
	width  int
	fields []FieldType
}

// FieldType is a named member of a struct Type.
type FieldType struct {
	Name string
	Type Type
}

// Bits returns an n bits wide vector type.
func Bits(n int) Type { return Type{width: n} }

// Struct returns a struct type with the given fields.
func Struct(fields ...FieldType) Type {
	t := Type{fields: make([]FieldType, len(fields))}
	copy(t.fields, fields)
	for _, f := range fields {
		t.width += f.Type.width
	}
	return t
}

// Width returns the width of t in bits.
func (t Type) Width() int { return t.width }

// IsStruct returns true if t has fields.
func (t Type) IsStruct() bool { return len(t.fields) > 0 }

// Fields returns the fields of a struct type.
func (t Type) Fields() []FieldType { return t.fields }

// field returns the bit offset and type of the named field.
func (t Type) field(name string) (int, Type, bool) {
	off := 0
	for _, f := range t.fields {
		if f.Name == name {
			return off, f.Type, true
		}
		off += f.Type.width
	}
	return 0, Type{}, false
}

func (t Type) String() string {
	if !t.IsStruct() {
		return "Bits" + strconv.Itoa(t.width)
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range t.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}

func (t Type) validate() error {
	if t.width <= 0 || t.width > MaxWidth {
		return errors.Errorf("invalid width %d for type %v: must be in [1, %d]", t.width, t, MaxWidth)
	}
	seen := make(map[string]bool, len(t.fields))
	for _, f := range t.fields {
		if !hdl.IsIdent(f.Name) {
			return errors.Errorf("invalid field name %q in type %v", f.Name, t)
		}
		if seen[f.Name] {
			return errors.Errorf("duplicate field name %q in type %v", f.Name, t)
		}
		seen[f.Name] = true
		if err := f.Type.validate(); err != nil {
			return err
		}
	}
	return nil
}
