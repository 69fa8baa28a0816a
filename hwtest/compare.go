// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
package hwtest

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/db47h/cyclesim"
	"github.com/stretchr/testify/require"
)

// A PartFn creates a component named name under parent. Its input and output
// ports are the top-level signals it declares with direction DirIn and
// DirOut.
type PartFn func(parent *cyclesim.Component, name string) (*cyclesim.Component, error)

// A Builder returns a new design. Components like test sources keep their
// state outside of signals, so every circuit needs a freshly built design.
type Builder func() (*cyclesim.Design, error)

func ports(c *cyclesim.Component) (in, out []cyclesim.Signal) {
	d := c.Design()
	for _, s := range c.Signals() {
		switch d.DirOf(s) {
		case cyclesim.DirIn:
			in = append(in, s)
		case cyclesim.DirOut:
			out = append(out, s)
		}
	}
	return in, out
}

// portList returns the local names and widths of ports, like "a[8]".
func portList(c *cyclesim.Component, ports []cyclesim.Signal) []string {
	d := c.Design()
	l := make([]string, len(ports))
	for i, s := range ports {
		l[i] = fmt.Sprintf("%s[%d]", strings.TrimPrefix(d.Path(s), c.Path()+"."), d.Width(s))
	}
	return l
}

// ComparePart takes two parts and compares their outputs given the same inputs,
// cycle by cycle. Both parts must have the same input/output interface.
//
// Inputs are set to all zeros, then all ones, then to iter random values.
func ComparePart(t *testing.T, iter int, part1 PartFn, part2 PartFn) {
	t.Helper()

	d := cyclesim.NewDesign("cmp")
	top := d.Top()
	p1, err := part1(top, "p1")
	require.NoError(t, err)
	p2, err := part2(top, "p2")
	require.NoError(t, err)

	in1, out1 := ports(p1)
	in2, out2 := ports(p2)
	require.Equal(t, portList(p1, in1), portList(p2, in2), "inputs")
	require.Equal(t, portList(p1, out1), portList(p2, out2), "outputs")

	inputs := make([]cyclesim.Signal, len(in1))
	for i, s := range in1 {
		inputs[i], err = top.InPort(fmt.Sprintf("in%d", i), cyclesim.Bits(d.Width(s)))
		require.NoError(t, err)
		require.NoError(t, top.Connect(inputs[i], s))
		require.NoError(t, top.Connect(inputs[i], in2[i]))
	}
	// probe outputs through top-level ports so that nets feeding them are
	// kept.
	outputs := make([][2]cyclesim.Signal, len(out1))
	for o := range out1 {
		for k, s := range []cyclesim.Signal{out1[o], out2[o]} {
			outputs[o][k], err = top.OutPort(fmt.Sprintf("out%d_%d", o, k+1), cyclesim.Bits(d.Width(s)))
			require.NoError(t, err)
			require.NoError(t, top.Connect(s, outputs[o][k]))
		}
	}

	s, err := cyclesim.MakeElaborator().WithStrictAccess().Elaborate(d)
	require.NoError(t, err)
	CheckSchedule(t, s)
	c := s.NewCircuit()

	seed := uint64(time.Now().UnixNano())
	rnd := rand.New(rand.NewPCG(seed, 0))

	errString := func(o int) string {
		var b strings.Builder
		for i, s := range inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%#x", portList(p1, in1[i:i+1])[0], c.Get(s))
		}
		return fmt.Sprintf("cycle %d (seed %d): %s => %s: %s=%#x, %s=%#x",
			c.Cycles(), seed, b.String(), portList(p1, out1[o:o+1])[0],
			d.Path(out1[o]), c.Get(outputs[o][0]), d.Path(out2[o]), c.Get(outputs[o][1]))
	}

	start := time.Now()
	for i := -2; i < iter; i++ {
		for _, in := range inputs {
			switch i {
			case -2:
				c.Set(in, 0)
			case -1:
				c.Set(in, ^uint64(0))
			default:
				c.Set(in, rnd.Uint64())
			}
		}
		require.NoError(t, c.Tick())
		for o, out := range outputs {
			if c.Get(out[0]) != c.Get(out[1]) {
				t.Fatal(errString(o))
			}
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d blocks. %d cycles in %v => %.2f Hz", len(s.Order()), c.Cycles(), elapsed, float64(c.Cycles())/elapsed.Seconds())
}

// CheckSchedule fails t if s is not a valid schedule: every block must appear
// exactly once and every ordering constraint must hold.
func CheckSchedule(t testing.TB, s *cyclesim.Schedule) {
	t.Helper()
	require.Len(t, s.Order(), len(s.Blocks()), "scheduled blocks")
	pos := make(map[*cyclesim.Block]int, len(s.Order()))
	for i, b := range s.Order() {
		_, dup := pos[b]
		require.False(t, dup, "block %s scheduled twice", b)
		pos[b] = i
	}
	for _, e := range s.Edges() {
		require.Less(t, pos[e.From], pos[e.To], "constraint %s < %s", e.From, e.To)
	}
}

// FuzzSchedules elaborates designs returned by build with a random tie-break
// for each seed, checks every schedule and runs it until done. A design whose
// behavior depends on the tie-break is missing an ordering constraint.
//
// Circuits are elaborated with strict access checks.
func FuzzSchedules(t *testing.T, build Builder, seeds []uint64, maxCycles uint64) {
	t.Helper()
	for _, seed := range seeds {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			d, err := build()
			require.NoError(t, err)
			s, err := cyclesim.MakeElaborator().
				WithTieBreak(cyclesim.RandomTieBreak(seed)).
				WithStrictAccess().
				Elaborate(d)
			require.NoError(t, err)
			CheckSchedule(t, s)
			Run(t, s.NewCircuit(), maxCycles)
		})
	}
}

// Run resets c if its design has a reset port, then runs it until done. The
// line trace of every cycle is logged to t.
func Run(t testing.TB, c *cyclesim.Circuit, maxCycles uint64) {
	t.Helper()
	c.AcceptHook(&lineTraceHook{t})
	if _, ok := c.Schedule().Design().Top().Signal(cyclesim.ResetPort); ok {
		require.NoError(t, c.Reset())
	}
	require.NoError(t, c.Run(maxCycles))
}

// lineTraceHook logs the circuit line trace after each tick.
type lineTraceHook struct {
	t testing.TB
}

func (h *lineTraceHook) Func(ctx cyclesim.HookCtx) {
	if ctx.Pos != cyclesim.HookPosAfterTick {
		return
	}
	if c, ok := ctx.Domain.(*cyclesim.Circuit); ok {
		if tr := c.LineTrace(); tr != "" {
			h.t.Logf("%3d: %s", ctx.Item, tr)
		}
	}
}
