// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"strconv"

	"github.com/pkg/errors"
)

// A Signal is a handle to a signal (port, wire, slice or struct field) in a
// Design. Handles are only meaningful within the design that created them.
// The zero value is not a valid signal.
//
// A Signal is a bare index: a handle from another design is only rejected if
// it is out of range for the receiving design. Otherwise it silently refers to
// an unrelated signal.
type Signal uint32

// Dir is the direction of a signal.
type Dir uint8

// Signal directions.
const (
	DirWire Dir = iota
	DirIn
	DirOut
)

func (d Dir) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	}
	return "wire"
}

// Kind tells whether a signal is a top-level declaration, a slice or a field of
// another signal.
type Kind uint8

// Signal kinds.
const (
	KindLeaf Kind = iota
	KindSlice
	KindField
)

// sigInfo holds the registry data of a signal. Every signal maps to the bit
// range [lo, hi) of its root signal.
type sigInfo struct {
	name   string
	owner  *Component
	kind   Kind
	dir    Dir
	typ    Type
	parent Signal
	root   Signal
	lo, hi int
	subs   map[string]Signal // memoized slices and fields
}

// registry is the arena owning all signals of a design.
type registry struct {
	sigs []sigInfo
}

func newRegistry() *registry {
	// entry 0 is reserved for the invalid signal.
	return &registry{sigs: make([]sigInfo, 1)}
}

func (r *registry) len() int { return len(r.sigs) }

func (r *registry) valid(s Signal) bool {
	return s > 0 && int(s) < len(r.sigs)
}

func (r *registry) check(s Signal) error {
	if !r.valid(s) {
		return errors.Errorf("invalid signal handle %d", s)
	}
	return nil
}

func (r *registry) info(s Signal) *sigInfo { return &r.sigs[s] }

func (r *registry) alloc(si sigInfo) Signal {
	s := Signal(len(r.sigs))
	if si.kind == KindLeaf {
		si.root = s
	}
	r.sigs = append(r.sigs, si)
	return s
}

func (r *registry) declare(owner *Component, name string, dir Dir, t Type) Signal {
	return r.alloc(sigInfo{
		name:  name,
		owner: owner,
		kind:  KindLeaf,
		dir:   dir,
		typ:   t,
		lo:    0,
		hi:    t.width,
	})
}

func (r *registry) sub(parent Signal, key string, si sigInfo) Signal {
	p := r.info(parent)
	if s, ok := p.subs[key]; ok {
		return s
	}
	s := r.alloc(si)
	p = r.info(parent) // alloc may have moved the slice
	if p.subs == nil {
		p.subs = make(map[string]Signal)
	}
	p.subs[key] = s
	return s
}

func (r *registry) slice(s Signal, lo, hi int) (Signal, error) {
	if err := r.check(s); err != nil {
		return 0, err
	}
	si := r.info(s)
	if lo < 0 || hi > si.hi-si.lo || lo >= hi {
		return 0, errors.Errorf("invalid bit range [%d:%d] for %s (%d bits)", lo, hi, r.path(s), si.hi-si.lo)
	}
	if lo == 0 && hi == si.hi-si.lo {
		return s, nil
	}
	// slices of slices are folded into their closest non-slice ancestor.
	for si.kind == KindSlice {
		off := si.lo - r.info(si.parent).lo
		lo, hi = lo+off, hi+off
		s = si.parent
		si = r.info(s)
	}
	key := strconv.Itoa(lo) + ":" + strconv.Itoa(hi)
	name := "[" + key + "]"
	if hi == lo+1 {
		name = "[" + strconv.Itoa(lo) + "]"
	}
	return r.sub(s, key, sigInfo{
		name:   name,
		owner:  si.owner,
		kind:   KindSlice,
		dir:    si.dir,
		typ:    Bits(hi - lo),
		parent: s,
		root:   si.root,
		lo:     si.lo + lo,
		hi:     si.lo + hi,
	}), nil
}

func (r *registry) field(s Signal, name string) (Signal, error) {
	if err := r.check(s); err != nil {
		return 0, err
	}
	si := r.info(s)
	off, ft, ok := si.typ.field(name)
	if !ok {
		return 0, errors.Errorf("no field %q in %s (type %v)", name, r.path(s), si.typ)
	}
	return r.sub(s, "."+name, sigInfo{
		name:   name,
		owner:  si.owner,
		kind:   KindField,
		dir:    si.dir,
		typ:    ft,
		parent: s,
		root:   si.root,
		lo:     si.lo + off,
		hi:     si.lo + off + ft.width,
	}), nil
}

func (r *registry) overlaps(a, b Signal) bool {
	ia, ib := r.info(a), r.info(b)
	return ia.root == ib.root && ia.lo < ib.hi && ib.lo < ia.hi
}

func (r *registry) contains(a, b Signal) bool {
	ia, ib := r.info(a), r.info(b)
	return ia.root == ib.root && ia.lo <= ib.lo && ib.hi <= ia.hi
}

func (r *registry) path(s Signal) string {
	if !r.valid(s) {
		return "<invalid signal " + strconv.FormatUint(uint64(s), 10) + ">"
	}
	si := r.info(s)
	switch si.kind {
	case KindSlice:
		return r.path(si.parent) + si.name
	case KindField:
		return r.path(si.parent) + "." + si.name
	}
	return si.owner.Path() + "." + si.name
}

// sigIndex groups signals by root for overlap queries.
type sigIndex struct {
	r      *registry
	byRoot map[Signal][]Signal
}

func newSigIndex(r *registry) *sigIndex {
	return &sigIndex{r: r, byRoot: make(map[Signal][]Signal)}
}

func (x *sigIndex) add(s Signal) {
	root := x.r.info(s).root
	x.byRoot[root] = append(x.byRoot[root], s)
}

// overlaps returns true if s overlaps any signal in x.
func (x *sigIndex) overlaps(s Signal) bool {
	for _, t := range x.byRoot[x.r.info(s).root] {
		if x.r.overlaps(s, t) {
			return true
		}
	}
	return false
}

// Slice returns the signal for bits [lo, hi) of s. Repeated calls with the
// same arguments return the same handle, and the full range returns s itself.
func (d *Design) Slice(s Signal, lo, hi int) (Signal, error) {
	r, err := d.reg.slice(s, lo, hi)
	if err != nil {
		return 0, d.fail(err)
	}
	return r, nil
}

// Bit returns the signal for bit i of s.
func (d *Design) Bit(s Signal, i int) (Signal, error) {
	return d.Slice(s, i, i+1)
}

// Field returns the signal for field name of a struct typed signal s.
func (d *Design) Field(s Signal, name string) (Signal, error) {
	r, err := d.reg.field(s, name)
	if err != nil {
		return 0, d.fail(err)
	}
	return r, nil
}

// Overlaps returns true if a and b share at least one bit.
func (d *Design) Overlaps(a, b Signal) bool {
	if !d.reg.valid(a) || !d.reg.valid(b) {
		return false
	}
	return d.reg.overlaps(a, b)
}

// Contains returns true if every bit of b is also a bit of a. In particular,
// a signal contains all its slices and fields.
func (d *Design) Contains(a, b Signal) bool {
	if !d.reg.valid(a) || !d.reg.valid(b) {
		return false
	}
	return d.reg.contains(a, b)
}

// Path returns the full hierarchical name of s, like "top.alu.x[0:4]".
func (d *Design) Path(s Signal) string { return d.reg.path(s) }

// Width returns the width of s in bits.
func (d *Design) Width(s Signal) int {
	if !d.reg.valid(s) {
		return 0
	}
	si := d.reg.info(s)
	return si.hi - si.lo
}

// TypeOf returns the declared type of s.
func (d *Design) TypeOf(s Signal) Type {
	if !d.reg.valid(s) {
		return Type{}
	}
	return d.reg.info(s).typ
}

// DirOf returns the direction of s. Slices and fields inherit the direction of
// their parent.
func (d *Design) DirOf(s Signal) Dir {
	if !d.reg.valid(s) {
		return DirWire
	}
	return d.reg.info(s).dir
}

// KindOf returns the kind of s.
func (d *Design) KindOf(s Signal) Kind {
	if !d.reg.valid(s) {
		return KindLeaf
	}
	return d.reg.info(s).kind
}

// Parent returns the parent of a slice or field, or 0 for top-level signals.
func (d *Design) Parent(s Signal) Signal {
	if !d.reg.valid(s) {
		return 0
	}
	return d.reg.info(s).parent
}
