// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable components for cyclesim.
//
// Each constructor creates a child component of the given parent, declares its
// ports and update blocks, and returns a struct holding the component and its
// port handles. Components are wired together with Connect or ConnectString on
// their common parent:
//
//	d := cyclesim.NewDesign("top")
//	add, _ := hwlib.Adder(d.Top(), "add", 8)
//	reg, _ := hwlib.Reg(d.Top(), "acc", 8)
//	d.Top().ConnectString("add.out=acc.in, acc.out=add.b")
package hwlib

import (
	"github.com/db47h/cyclesim"
)

// Unary holds the ports of single input components.
type Unary struct {
	*cyclesim.Component
	In  cyclesim.Signal `hw:"in"`
	Out cyclesim.Signal `hw:"out"`
}

// Binary holds the ports of two input components.
type Binary struct {
	*cyclesim.Component
	A   cyclesim.Signal `hw:"in"`
	B   cyclesim.Signal `hw:"in"`
	Out cyclesim.Signal `hw:"out"`
}

func sigs(s ...cyclesim.Signal) []cyclesim.Signal { return s }

// mount creates the child component name under parent and declares the ports
// tagged in ports.
func mount(parent *cyclesim.Component, name string, bits int, ports interface{}) (*cyclesim.Component, error) {
	c, err := parent.Child(name)
	if err != nil {
		return nil, err
	}
	if err = c.Ports(ports, bits); err != nil {
		return nil, err
	}
	return c, nil
}

func newUnary(parent *cyclesim.Component, name string, bits int) (*Unary, error) {
	p := new(Unary)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	return p, nil
}

func newBinary(parent *cyclesim.Component, name string, bits int) (*Binary, error) {
	p := new(Binary)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	return p, nil
}
