// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"github.com/db47h/cyclesim/internal/hdl"
	"github.com/pkg/errors"
)

type connection struct {
	a, b Signal
	host *Component
}

// A Design holds the component hierarchy, the signals, update blocks,
// connections and explicit constraints of a hardware model. A design is built
// once, then elaborated into a Schedule.
//
// Construction errors are returned by the method that caused them and also
// recorded: Elaborate fails with the first of them.
type Design struct {
	reg         *registry
	top         *Component
	blocks      []*Block
	conns       []connection
	constraints []Constraint
	err         error
}

// NewDesign returns an empty design whose top component has the given name.
func NewDesign(top string) *Design {
	d := &Design{reg: newRegistry()}
	d.top = newComponent(d, nil, top)
	if !hdl.IsIdent(top) {
		d.fail(errors.Errorf("invalid top component name %q", top))
	}
	return d
}

// Top returns the top component.
func (d *Design) Top() *Component { return d.top }

// Err returns the first construction error, if any.
func (d *Design) Err() error { return d.err }

// Blocks returns all declared update blocks in declaration order.
func (d *Design) Blocks() []*Block { return d.blocks }

// Components returns all components in preorder.
func (d *Design) Components() []*Component {
	var cs []*Component
	d.top.walk(func(c *Component) { cs = append(cs, c) })
	return cs
}

// Lookup resolves a full signal path like "top.sub.x[0:4]".
func (d *Design) Lookup(path string) (Signal, error) {
	p, err := hdl.ParsePath(path)
	if err != nil {
		return 0, d.fail(err)
	}
	if p.Elems[0].Name != d.top.name {
		return 0, d.fail(errors.Errorf("%s: path does not start with top component %q", p, d.top.name))
	}
	p.Elems = p.Elems[1:]
	if len(p.Elems) == 0 {
		return 0, d.fail(errors.Errorf("%s: %s is a component, not a signal", path, d.top.name))
	}
	return d.top.lookup(p)
}

// Elaborate elaborates d with the default Elaborator settings.
func (d *Design) Elaborate() (*Schedule, error) {
	return MakeElaborator().Elaborate(d)
}

func (d *Design) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return err
}
