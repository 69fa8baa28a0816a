// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/cyclesim"
)

// Not returns a bitwise NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = ^in
func Not(parent *cyclesim.Component, name string, bits int) (*Unary, error) {
	p, err := newUnary(parent, name, bits)
	if err != nil {
		return nil, err
	}
	_, err = p.Update("eval", cyclesim.RW{Reads: sigs(p.In), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		c.Set(p.Out, ^c.Get(p.In))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// other gates
type gate func(a, b uint64) uint64

func (g gate) mount(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	p, err := newBinary(parent, name, bits)
	if err != nil {
		return nil, err
	}
	_, err = p.Update("eval", cyclesim.RW{Reads: sigs(p.A, p.B), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		c.Set(p.Out, g(c.Get(p.A), c.Get(p.B)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

var (
	and  = gate(func(a, b uint64) uint64 { return a & b })
	nand = gate(func(a, b uint64) uint64 { return ^(a & b) })
	or   = gate(func(a, b uint64) uint64 { return a | b })
	nor  = gate(func(a, b uint64) uint64 { return ^(a | b) })
	xor  = gate(func(a, b uint64) uint64 { return a ^ b })
	xnor = gate(func(a, b uint64) uint64 { return ^(a ^ b) })
)

// And returns a bitwise AND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a & b
func And(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	return and.mount(parent, name, bits)
}

// Nand returns a bitwise NAND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a & b)
func Nand(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	return nand.mount(parent, name, bits)
}

// Or returns a bitwise OR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a | b
func Or(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	return or.mount(parent, name, bits)
}

// Nor returns a bitwise NOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a | b)
func Nor(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	return nor.mount(parent, name, bits)
}

// Xor returns a bitwise XOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a ^ b
func Xor(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	return xor.mount(parent, name, bits)
}

// Xnor returns a bitwise XNOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a ^ b)
func Xnor(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	return xnor.mount(parent, name, bits)
}
