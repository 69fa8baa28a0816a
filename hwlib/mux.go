// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"github.com/db47h/cyclesim"
)

// MuxPorts holds the ports of a Mux.
type MuxPorts struct {
	*cyclesim.Component
	A   cyclesim.Signal `hw:"in"`
	B   cyclesim.Signal `hw:"in"`
	Sel cyclesim.Signal `hw:"in,1"`
	Out cyclesim.Signal `hw:"out"`
}

// Mux returns a multiplexer.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: if sel == 0 { out = a } else { out = b }
func Mux(parent *cyclesim.Component, name string, bits int) (*MuxPorts, error) {
	p := new(MuxPorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	_, err = c.Update("eval", cyclesim.RW{Reads: sigs(p.A, p.B, p.Sel), Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		if c.GetBool(p.Sel) {
			c.Set(p.Out, c.Get(p.B))
		} else {
			c.Set(p.Out, c.Get(p.A))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DMuxPorts holds the ports of a DMux.
type DMuxPorts struct {
	*cyclesim.Component
	In  cyclesim.Signal `hw:"in"`
	Sel cyclesim.Signal `hw:"in,1"`
	A   cyclesim.Signal `hw:"out"`
	B   cyclesim.Signal `hw:"out"`
}

// DMux returns a demultiplexer.
//
//	Inputs: in[bits], sel
//	Outputs: a[bits], b[bits]
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
func DMux(parent *cyclesim.Component, name string, bits int) (*DMuxPorts, error) {
	p := new(DMuxPorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	_, err = c.Update("eval", cyclesim.RW{Reads: sigs(p.In, p.Sel), Writes: sigs(p.A, p.B)}, func(c *cyclesim.Circuit) error {
		if c.GetBool(p.Sel) {
			c.Set(p.A, 0)
			c.Set(p.B, c.Get(p.In))
		} else {
			c.Set(p.A, c.Get(p.In))
			c.Set(p.B, 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Mux4WayPorts holds the ports of a Mux4Way.
type Mux4WayPorts struct {
	*cyclesim.Component
	In  [4]cyclesim.Signal `hw:"in"`
	Sel cyclesim.Signal    `hw:"in,2"`
	Out cyclesim.Signal    `hw:"out"`
}

// Mux4Way returns a 4-way multiplexer.
//
//	Inputs: in0[bits], in1[bits], in2[bits], in3[bits], sel[2]
//	Outputs: out[bits]
//	Function: out = in[sel]
func Mux4Way(parent *cyclesim.Component, name string, bits int) (*Mux4WayPorts, error) {
	p := new(Mux4WayPorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	reads := append(sigs(p.Sel), p.In[:]...)
	_, err = c.Update("eval", cyclesim.RW{Reads: reads, Writes: sigs(p.Out)}, func(c *cyclesim.Circuit) error {
		c.Set(p.Out, c.Get(p.In[c.Get(p.Sel)]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
