// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"github.com/pkg/errors"
)

// A BlockFunc is the body of an update block. It reads and writes signal
// values through the Circuit. Returning an error aborts the current tick and
// invalidates the circuit.
//
// For example, an adder could be declared like this:
//
//	top.Update("add", cyclesim.RW{Reads: []cyclesim.Signal{a, b}, Writes: []cyclesim.Signal{out}},
//		func(c *cyclesim.Circuit) error {
//			c.Set(out, c.Get(a)+c.Get(b))
//			return nil
//		})
type BlockFunc func(c *Circuit) error

// RW is the manifest of the signals an update block reads and writes.
type RW struct {
	Reads  []Signal
	Writes []Signal
}

// A Block is an update block: a named body with a declared read set and write
// set, run once per cycle in schedule order.
type Block struct {
	id     int
	name   string
	host   *Component
	reads  []Signal
	writes []Signal
	onEdge bool
	body   BlockFunc
}

// ID returns the block's id. Ids follow declaration order; net copy blocks are
// numbered after all declared blocks.
func (b *Block) ID() int { return b.id }

// Name returns the block's local name.
func (b *Block) Name() string { return b.name }

// Host returns the component the block belongs to. It is nil for the blocks
// synthesized to propagate net values.
func (b *Block) Host() *Component { return b.host }

// Path returns the block's full hierarchical name.
func (b *Block) Path() string {
	if b.host == nil {
		return b.name
	}
	return b.host.Path() + "." + b.name
}

// Reads returns the declared read set.
func (b *Block) Reads() []Signal { return b.reads }

// Writes returns the declared write set.
func (b *Block) Writes() []Signal { return b.writes }

// OnEdge returns true for edge-triggered blocks.
func (b *Block) OnEdge() bool { return b.onEdge }

// IsNetCopy returns true if b was synthesized to propagate a net.
func (b *Block) IsNetCopy() bool { return b.host == nil }

func (b *Block) String() string { return b.Path() }

// Update declares a combinational update block. A combinational block that
// writes a signal runs before all blocks reading it in the same cycle.
func (c *Component) Update(name string, rw RW, body BlockFunc) (*Block, error) {
	return c.update(name, rw, false, body)
}

// UpdateOnEdge declares an edge-triggered update block, modelling a register:
// blocks reading the signals it writes observe the values from the previous
// cycle, i.e. they run before it.
func (c *Component) UpdateOnEdge(name string, rw RW, body BlockFunc) (*Block, error) {
	return c.update(name, rw, true, body)
}

func (c *Component) update(name string, rw RW, onEdge bool, body BlockFunc) (*Block, error) {
	if body == nil {
		return nil, c.d.fail(errors.Errorf("nil body for block %s.%s", c.Path(), name))
	}
	for _, s := range rw.Reads {
		if err := c.d.reg.check(s); err != nil {
			return nil, c.d.fail(errors.Wrapf(err, "reads of block %s.%s", c.Path(), name))
		}
	}
	for _, s := range rw.Writes {
		if err := c.d.reg.check(s); err != nil {
			return nil, c.d.fail(errors.Wrapf(err, "writes of block %s.%s", c.Path(), name))
		}
	}
	b := &Block{
		id:     len(c.d.blocks),
		name:   name,
		host:   c,
		reads:  append([]Signal(nil), rw.Reads...),
		writes: append([]Signal(nil), rw.Writes...),
		onEdge: onEdge,
		body:   body,
	}
	if err := c.claim(name, b); err != nil {
		return nil, err
	}
	c.blocks = append(c.blocks, b)
	c.d.blocks = append(c.d.blocks, b)
	return b, nil
}

type constraintKind uint8

const (
	byBlock constraintKind = iota
	byReads
	byWrites
)

// A Constraint is an explicit ordering constraint between update blocks.
// Explicit constraints take precedence over the implicit ordering derived from
// signal accesses. Use Before, ReadsBefore, WritesBefore, BeforeReads and
// BeforeWrites to create them.
type Constraint struct {
	kind   constraintKind
	sig    Signal
	a, b   *Block
	before bool
}

// Before returns the constraint a < b: a runs before b.
func Before(a, b *Block) Constraint {
	return Constraint{kind: byBlock, a: a, b: b, before: true}
}

// ReadsBefore returns the constraint RD(x) < b: every block reading x runs
// before b.
func ReadsBefore(x Signal, b *Block) Constraint {
	return Constraint{kind: byReads, sig: x, b: b, before: true}
}

// WritesBefore returns the constraint WR(x) < b: every block writing x runs
// before b.
func WritesBefore(x Signal, b *Block) Constraint {
	return Constraint{kind: byWrites, sig: x, b: b, before: true}
}

// BeforeReads returns the constraint b < RD(x): b runs before every block
// reading x.
func BeforeReads(b *Block, x Signal) Constraint {
	return Constraint{kind: byReads, sig: x, b: b}
}

// BeforeWrites returns the constraint b < WR(x): b runs before every block
// writing x.
func BeforeWrites(b *Block, x Signal) Constraint {
	return Constraint{kind: byWrites, sig: x, b: b}
}

// AddConstraints records explicit ordering constraints.
func (c *Component) AddConstraints(cs ...Constraint) error {
	for _, k := range cs {
		if k.b == nil || k.kind == byBlock && k.a == nil {
			return c.d.fail(errors.Errorf("%s: constraint with nil block", c.Path()))
		}
		if k.b.host == nil || k.b.host.d != c.d || k.kind == byBlock && (k.a.host == nil || k.a.host.d != c.d) {
			return c.d.fail(errors.Errorf("%s: constraint on a block from another design", c.Path()))
		}
		if k.kind != byBlock {
			if err := c.d.reg.check(k.sig); err != nil {
				return c.d.fail(errors.Wrapf(err, "%s: constraint", c.Path()))
			}
		}
	}
	c.d.constraints = append(c.d.constraints, cs...)
	return nil
}
