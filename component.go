// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"github.com/db47h/cyclesim/internal/hdl"
	"github.com/pkg/errors"
)

// A Component is a node in the design hierarchy. It owns signals, update
// blocks and child components. Signals, children and blocks share a single
// namespace per component.
type Component struct {
	name     string
	parent   *Component
	d        *Design
	names    map[string]interface{}
	children []*Component
	signals  []Signal
	blocks   []*Block

	done      func() bool
	lineTrace func() string
}

func newComponent(d *Design, parent *Component, name string) *Component {
	return &Component{
		name:   name,
		parent: parent,
		d:      d,
		names:  make(map[string]interface{}),
	}
}

// Name returns the component's local name.
func (c *Component) Name() string { return c.name }

// Path returns the component's full hierarchical name.
func (c *Component) Path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Path() + "." + c.name
}

// Parent returns the parent component, nil for the top component.
func (c *Component) Parent() *Component { return c.parent }

// Design returns the design c belongs to.
func (c *Component) Design() *Design { return c.d }

// Children returns the child components in declaration order.
func (c *Component) Children() []*Component { return c.children }

// Signals returns the top-level signals declared by c in declaration order.
func (c *Component) Signals() []Signal { return c.signals }

// Blocks returns the update blocks declared by c in declaration order.
func (c *Component) Blocks() []*Block { return c.blocks }

func (c *Component) claim(name string, v interface{}) error {
	if !hdl.IsIdent(name) {
		return c.d.fail(errors.Errorf("invalid name %q in %s", name, c.Path()))
	}
	if _, ok := c.names[name]; ok {
		return c.d.fail(errors.WithStack(&DuplicateNameError{Owner: c.Path(), Name: name}))
	}
	c.names[name] = v
	return nil
}

// Child creates a new child component.
func (c *Component) Child(name string) (*Component, error) {
	cc := newComponent(c.d, c, name)
	if err := c.claim(name, cc); err != nil {
		return nil, err
	}
	c.children = append(c.children, cc)
	return cc, nil
}

func (c *Component) declare(name string, dir Dir, t Type) (Signal, error) {
	if err := t.validate(); err != nil {
		return 0, c.d.fail(errors.Wrapf(err, "declare %s.%s", c.Path(), name))
	}
	if err := c.claim(name, nil); err != nil {
		return 0, err
	}
	s := c.d.reg.declare(c, name, dir, t)
	c.names[name] = s
	c.signals = append(c.signals, s)
	return s, nil
}

// InPort declares an input port.
func (c *Component) InPort(name string, t Type) (Signal, error) {
	return c.declare(name, DirIn, t)
}

// OutPort declares an output port.
func (c *Component) OutPort(name string, t Type) (Signal, error) {
	return c.declare(name, DirOut, t)
}

// Wire declares an internal wire.
func (c *Component) Wire(name string, t Type) (Signal, error) {
	return c.declare(name, DirWire, t)
}

// Signal returns the top-level signal with the given local name.
func (c *Component) Signal(name string) (Signal, bool) {
	s, ok := c.names[name].(Signal)
	return s, ok
}

// Lookup resolves a path relative to c, like "sub.x[0:4].f". Slices and
// fields are created as needed.
func (c *Component) Lookup(path string) (Signal, error) {
	p, err := hdl.ParsePath(path)
	if err != nil {
		return 0, c.d.fail(err)
	}
	return c.lookup(p)
}

func (c *Component) lookup(p hdl.Path) (Signal, error) {
	cur := c
	var s Signal
	for _, e := range p.Elems {
		switch {
		case s == 0 && e.IsRange():
			return 0, c.d.fail(errors.Errorf("%s: cannot slice component %s", p, cur.Path()))
		case s == 0:
			switch v := cur.names[e.Name].(type) {
			case *Component:
				cur = v
			case Signal:
				s = v
			default:
				return 0, c.d.fail(errors.Errorf("%s: no signal or component %q in %s", p, e.Name, cur.Path()))
			}
		case e.IsRange():
			var err error
			if s, err = c.d.Slice(s, e.Lo, e.Hi); err != nil {
				return 0, err
			}
		default:
			var err error
			if s, err = c.d.Field(s, e.Name); err != nil {
				return 0, err
			}
		}
	}
	if s == 0 {
		return 0, c.d.fail(errors.Errorf("%s: %s is a component, not a signal", p, cur.Path()))
	}
	return s, nil
}

// SetDone registers fn as the component's termination hook. See Circuit.Done.
func (c *Component) SetDone(fn func() bool) { c.done = fn }

// SetLineTrace registers fn as the component's line trace hook. See
// Circuit.LineTrace.
func (c *Component) SetLineTrace(fn func() string) { c.lineTrace = fn }

// walk calls fn for c and all its descendants in preorder.
func (c *Component) walk(fn func(*Component)) {
	fn(c)
	for _, cc := range c.children {
		cc.walk(fn)
	}
}
