// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/cyclesim"
)

// Reg returns a register.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
// Signals connected to out observe the new value one tick later: net copies
// from out run before the edge-triggered update.
func Reg(parent *cyclesim.Component, name string, bits int) (*Unary, error) {
	p, err := newUnary(parent, name, bits)
	if err != nil {
		return nil, err
	}
	_, err = p.UpdateOnEdge("seq", cyclesim.RW{Reads: sigs(p.In), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		c.Set(p.Out, c.Get(p.In))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RegEnPorts holds the ports of a RegEn.
type RegEnPorts struct {
	*cyclesim.Component
	In  cyclesim.Signal `hw:"in"`
	En  cyclesim.Signal `hw:"in,1"`
	Out cyclesim.Signal `hw:"out"`
}

// RegEn returns a register with load enable. Like Reg, signals connected to
// out lag it by one tick.
//
//	Inputs: in[bits], en
//	Outputs: out[bits]
//	Function: if en(t-1) { out(t) = in(t-1) } else { out(t) = out(t-1) }
func RegEn(parent *cyclesim.Component, name string, bits int) (*RegEnPorts, error) {
	p := new(RegEnPorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	_, err = c.UpdateOnEdge("seq", cyclesim.RW{Reads: sigs(p.In, p.En), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		if c.GetBool(p.En) {
			c.Set(p.Out, c.Get(p.In))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RegRstPorts holds the ports of a RegRst.
type RegRstPorts struct {
	*cyclesim.Component
	In    cyclesim.Signal `hw:"in"`
	Reset cyclesim.Signal `hw:"in,1"`
	Out   cyclesim.Signal `hw:"out"`
}

// RegRst returns a register with synchronous reset to the value init. Like
// Reg, signals connected to out lag it by one tick.
//
//	Inputs: in[bits], reset
//	Outputs: out[bits]
//	Function: if reset(t-1) { out(t) = init } else { out(t) = in(t-1) }
func RegRst(parent *cyclesim.Component, name string, bits int, init uint64) (*RegRstPorts, error) {
	p := new(RegRstPorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	_, err = c.UpdateOnEdge("seq", cyclesim.RW{Reads: sigs(p.In, p.Reset), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		if c.GetBool(p.Reset) {
			c.Set(p.Out, init)
		} else {
			c.Set(p.Out, c.Get(p.In))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
