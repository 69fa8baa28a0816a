// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math/bits"

	"github.com/db47h/cyclesim"
)

// AdderPorts holds the ports of an Adder.
type AdderPorts struct {
	*cyclesim.Component
	A   cyclesim.Signal `hw:"in"`
	B   cyclesim.Signal `hw:"in"`
	Out cyclesim.Signal `hw:"out"`
	C   cyclesim.Signal `hw:"out,1"`
}

// Adder returns a N-bits adder.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = lsb(a + b)
//	          c = carry(a + b)
func Adder(parent *cyclesim.Component, name string, width int) (*AdderPorts, error) {
	p := new(AdderPorts)
	c, err := mount(parent, name, width, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	_, err = c.Update("eval", cyclesim.RW{Reads: sigs(p.A, p.B), Writes: sigs(p.Out, p.C)}, func(c *cyclesim.Circuit) error {
		sum, carry := bits.Add64(c.Get(p.A), c.Get(p.B), 0)
		if width < 64 {
			carry = sum >> uint(width) & 1
		}
		c.Set(p.Out, sum)
		c.Set(p.C, carry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Incr returns a N-bits incrementer.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = in + 1
func Incr(parent *cyclesim.Component, name string, width int) (*Unary, error) {
	p, err := newUnary(parent, name, width)
	if err != nil {
		return nil, err
	}
	_, err = p.Update("eval", cyclesim.RW{Reads: sigs(p.In), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		c.Set(p.Out, c.Get(p.In)+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
