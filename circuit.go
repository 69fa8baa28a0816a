// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"strings"

	"github.com/pkg/errors"
)

// Circuit is a runnable simulation of an elaborated design. It holds the value
// of every signal and runs the schedule once per Tick.
//
// A Circuit is not safe for concurrent use.
type Circuit struct {
	*HookableBase

	s      *Schedule
	vals   []uint64 // indexed by root signal
	cycle  uint64
	cur    *Block
	err    error
	accErr error
	comps  []*Component
}

// NewCircuit returns a new circuit running s. All signals start at 0. The
// circuit logs its ticks to the elaboration logger through a LogHook.
// Signals declared after s was elaborated are unknown to the circuit: Get and
// Set panic on them. Slices and fields of signals known to the circuit can be
// created at any time.
func (s *Schedule) NewCircuit() *Circuit {
	c := &Circuit{
		HookableBase: NewHookableBase(),
		s:            s,
		vals:         make([]uint64, s.d.reg.len()),
		comps:        s.d.Components(),
	}
	if s.logger != nil {
		c.AcceptHook(NewLogHook(s.logger))
	}
	return c
}

// Schedule returns the schedule run by c.
func (c *Circuit) Schedule() *Schedule { return c.s }

// Cycles returns the number of completed ticks.
func (c *Circuit) Cycles() uint64 { return c.cycle }

// Err returns the error that invalidated the circuit, if any.
func (c *Circuit) Err() error { return c.err }

func mask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(w) - 1
}

func (c *Circuit) info(s Signal) *sigInfo {
	si := c.s.d.reg.info(s)
	if int(si.root) >= len(c.vals) {
		panic(errors.Errorf("%s: signal declared after elaboration", c.s.d.reg.path(s)))
	}
	return si
}

// Get returns the value of signal s. Update blocks must only read signals
// they declared.
func (c *Circuit) Get(s Signal) uint64 {
	si := c.info(s)
	if c.cur != nil && c.s.strict {
		c.checkAccess(s, c.cur.reads, false)
	}
	return c.vals[si.root] >> uint(si.lo) & mask(si.hi-si.lo)
}

// Set sets the value of signal s, truncated to its width. Update blocks must
// only write signals they declared.
func (c *Circuit) Set(s Signal, v uint64) {
	si := c.info(s)
	if c.cur != nil && c.s.strict {
		c.checkAccess(s, c.cur.writes, true)
	}
	m := mask(si.hi-si.lo) << uint(si.lo)
	c.vals[si.root] = c.vals[si.root]&^m | v<<uint(si.lo)&m
}

// GetBool returns true if any bit of s is set.
func (c *Circuit) GetBool(s Signal) bool { return c.Get(s) != 0 }

// SetBool sets all bits of s to v.
func (c *Circuit) SetBool(s Signal, v bool) {
	if v {
		c.Set(s, ^uint64(0))
	} else {
		c.Set(s, 0)
	}
}

// checkAccess records an AccessError if s is not covered by any of the
// declared signals. A block may also read what it writes.
func (c *Circuit) checkAccess(s Signal, decl []Signal, write bool) {
	r := c.s.d.reg
	for _, d := range decl {
		if r.contains(d, s) {
			return
		}
	}
	if !write {
		for _, d := range c.cur.writes {
			if r.contains(d, s) {
				return
			}
		}
	}
	if c.accErr == nil {
		c.accErr = errors.WithStack(&AccessError{Signal: r.path(s), Write: write})
	}
}

// Tick runs every scheduled block once, in order. If a block fails, Tick
// returns a *RuntimeBlockError and the circuit is invalidated: every further
// call to Tick returns the same error. Panics in blocks are not recovered.
func (c *Circuit) Tick() error {
	if c.err != nil {
		return c.err
	}
	c.InvokeHook(HookCtx{Domain: c, Pos: HookPosBeforeTick, Item: c.cycle})
	for _, b := range c.s.order {
		c.cur = b
		err := b.body(c)
		if err == nil {
			err, c.accErr = c.accErr, nil
		}
		c.cur = nil
		if err != nil {
			c.err = errors.WithStack(&RuntimeBlockError{Block: b.Path(), Cycle: c.cycle, Err: err})
			c.InvokeHook(HookCtx{Domain: c, Pos: HookPosBlockError, Item: b, Detail: c.err})
			return c.err
		}
	}
	c.cycle++
	c.InvokeHook(HookCtx{Domain: c, Pos: HookPosAfterTick, Item: c.cycle})
	return nil
}

// Done returns true if at least one component registered a done hook with
// SetDone and all of them return true.
func (c *Circuit) Done() bool {
	n := 0
	for _, cc := range c.comps {
		if cc.done == nil {
			continue
		}
		if !cc.done() {
			return false
		}
		n++
	}
	return n > 0
}

// LineTrace returns the line traces of all components that registered one
// with SetLineTrace, in preorder, separated by " | ".
func (c *Circuit) LineTrace() string {
	var b strings.Builder
	for _, cc := range c.comps {
		if cc.lineTrace == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(cc.lineTrace())
	}
	return b.String()
}

// Run ticks the circuit until Done returns true. It fails if a tick fails or
// if the circuit is not done after maxCycles ticks.
func (c *Circuit) Run(maxCycles uint64) error {
	for i := uint64(0); !c.Done(); i++ {
		if i >= maxCycles {
			return errors.Errorf("not done after %d cycles", maxCycles)
		}
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// ResetPort is the name of the top-level input port driven by Reset.
const ResetPort = "reset"

// Reset drives the top component's reset input high for two cycles, then low.
func (c *Circuit) Reset() error {
	rst, ok := c.s.d.top.Signal(ResetPort)
	if !ok || c.s.d.reg.info(rst).dir != DirIn {
		return errors.Errorf("%s has no %s input port", c.s.d.top.Path(), ResetPort)
	}
	c.SetBool(rst, true)
	for i := 0; i < 2; i++ {
		if err := c.Tick(); err != nil {
			return err
		}
	}
	c.SetBool(rst, false)
	return nil
}
