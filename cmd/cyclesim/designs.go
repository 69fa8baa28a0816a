// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"sort"

	"github.com/db47h/cyclesim"
	"github.com/db47h/cyclesim/hwlib"
	"github.com/db47h/cyclesim/hwtest"
	"github.com/pkg/errors"
)

var demoMsgs = []uint64{0x01, 0x02, 0x03, 0x10, 0x7f, 0x80, 0xfe, 0xff}

// designs are the built-in demo designs. Every design has a reset input and
// is done once its sink has checked all expected messages.
var designs = map[string]hwtest.Builder{
	"pipeline":    pipeline,
	"accumulator": accumulator,
	"fanout":      fanout,
}

func sortedDesigns() []string {
	names := make([]string, 0, len(designs))
	for n := range designs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func buildDesign(name string) (*cyclesim.Design, error) {
	b, ok := designs[name]
	if !ok {
		return nil, errors.Errorf("unknown design %q, expected one of %s", name, designNames())
	}
	d, err := b()
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", name)
	}
	return d, nil
}

// builder accumulates the first error of a sequence of construction calls.
type builder struct {
	err error
}

func (b *builder) do(err error) {
	if b.err == nil {
		b.err = err
	}
}

// pipeline: src -> reg -> incr -> reg -> sink, with the valid bit following
// the data through two registers.
func pipeline() (*cyclesim.Design, error) {
	d := cyclesim.NewDesign("pipeline")
	top := d.Top()
	exp := make([]uint64, len(demoMsgs))
	for i, m := range demoMsgs {
		exp[i] = (m + 1) & 0xff
	}
	var b builder
	_, err := top.InPort(cyclesim.ResetPort, cyclesim.Bits(1))
	b.do(err)
	_, err = hwlib.Source(top, "src", 8, demoMsgs)
	b.do(err)
	for _, n := range []string{"s0", "s1"} {
		_, err = hwlib.Reg(top, n, 8)
		b.do(err)
		_, err = hwlib.Reg(top, n+"val", 1)
		b.do(err)
	}
	_, err = hwlib.Incr(top, "inc", 8)
	b.do(err)
	_, err = hwlib.Sink(top, "sink", 8, exp)
	b.do(err)
	b.do(top.ConnectString("reset=src.reset, reset=sink.reset, " +
		"src.out=s0.in, s0.out=inc.in, inc.out=s1.in, s1.out=sink.in, " +
		"src.val=s0val.in, s0val.out=s1val.in, s1val.out=sink.val"))
	return d, b.err
}

// accumulator: sink receives the running sum of the source messages.
func accumulator() (*cyclesim.Design, error) {
	d := cyclesim.NewDesign("accumulator")
	top := d.Top()
	exp := make([]uint64, len(demoMsgs))
	var sum uint64
	for i, m := range demoMsgs {
		sum = (sum + m) & 0xff
		exp[i] = sum
	}
	var b builder
	_, err := top.InPort(cyclesim.ResetPort, cyclesim.Bits(1))
	b.do(err)
	_, err = hwlib.Source(top, "src", 8, demoMsgs)
	b.do(err)
	_, err = hwlib.Adder(top, "add", 8)
	b.do(err)
	_, err = hwlib.RegRst(top, "acc", 8, 0)
	b.do(err)
	_, err = hwlib.Reg(top, "val", 1)
	b.do(err)
	_, err = hwlib.Sink(top, "sink", 8, exp)
	b.do(err)
	b.do(top.ConnectString("reset=src.reset, reset=acc.reset, reset=sink.reset, " +
		"src.out=add.a, acc.out=add.b, add.out=acc.in, acc.out=sink.in, " +
		"src.val=val.in, val.out=sink.val"))
	return d, b.err
}

// fanout: one source net read by two gates whose outputs are combined.
func fanout() (*cyclesim.Design, error) {
	d := cyclesim.NewDesign("fanout")
	top := d.Top()
	exp := make([]uint64, len(demoMsgs))
	for i, m := range demoMsgs {
		exp[i] = (^m ^ (m + 1)) & 0xff
	}
	var b builder
	_, err := top.InPort(cyclesim.ResetPort, cyclesim.Bits(1))
	b.do(err)
	_, err = hwlib.Source(top, "src", 8, demoMsgs)
	b.do(err)
	_, err = hwlib.Not(top, "not", 8)
	b.do(err)
	_, err = hwlib.Incr(top, "inc", 8)
	b.do(err)
	_, err = hwlib.Xor(top, "xor", 8)
	b.do(err)
	_, err = hwlib.Sink(top, "sink", 8, exp)
	b.do(err)
	b.do(top.ConnectString("reset=src.reset, reset=sink.reset, " +
		"src.out=not.in, src.out=inc.in, not.out=xor.a, inc.out=xor.b, " +
		"xor.out=sink.in, src.val=sink.val"))
	return d, b.err
}
