// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"fmt"

	"github.com/db47h/cyclesim"
	"github.com/pkg/errors"
)

// SourcePorts holds the ports of a Source.
type SourcePorts struct {
	*cyclesim.Component
	Reset cyclesim.Signal `hw:"in,1"`
	Out   cyclesim.Signal `hw:"out"`
	Val   cyclesim.Signal `hw:"out,1"`
}

// Source returns a test source sending one message per cycle.
//
//	Inputs: reset
//	Outputs: out[bits], val
//	Function: out = msgs[i], val = 1 for the i-th cycle after reset is
//	          released, val = 0 once all messages are sent.
//
// The source is done once all messages are sent. Its line trace shows the
// message sent in the current cycle.
func Source(parent *cyclesim.Component, name string, bits int, msgs []uint64) (*SourcePorts, error) {
	p := new(SourcePorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	var i int
	trace := idle(bits)
	_, err = c.Update("send", cyclesim.RW{Reads: sigs(p.Reset), Writes: sigs(p.Out, p.Val)}, func(c *cyclesim.Circuit) error {
		if c.GetBool(p.Reset) || i >= len(msgs) {
			c.Set(p.Out, 0)
			c.Set(p.Val, 0)
			trace = idle(bits)
			return nil
		}
		c.Set(p.Out, msgs[i])
		c.Set(p.Val, 1)
		trace = msg(bits, msgs[i])
		i++
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.SetDone(func() bool { return i >= len(msgs) })
	c.SetLineTrace(func() string { return trace })
	return p, nil
}

// SinkPorts holds the ports of a Sink.
type SinkPorts struct {
	*cyclesim.Component
	Reset cyclesim.Signal `hw:"in,1"`
	In    cyclesim.Signal `hw:"in"`
	Val   cyclesim.Signal `hw:"in,1"`
}

// Sink returns a test sink checking the messages it receives.
//
//	Inputs: reset, in[bits], val
//	Function: on every cycle where val is set and reset is not, check that in
//	          matches the next expected message.
//
// A mismatch or an unexpected message fails the current tick. The sink is done
// once all expected messages are received. Its line trace shows the message
// received in the current cycle.
func Sink(parent *cyclesim.Component, name string, bits int, expected []uint64) (*SinkPorts, error) {
	p := new(SinkPorts)
	c, err := mount(parent, name, bits, p)
	if err != nil {
		return nil, err
	}
	p.Component = c
	var i int
	trace := idle(bits)
	_, err = c.Update("recv", cyclesim.RW{Reads: sigs(p.Reset, p.In, p.Val)}, func(cc *cyclesim.Circuit) error {
		trace = idle(bits)
		if cc.GetBool(p.Reset) || !cc.GetBool(p.Val) {
			return nil
		}
		v := cc.Get(p.In)
		trace = msg(bits, v)
		if i >= len(expected) {
			return errors.Errorf("%s: unexpected message %#x", c.Path(), v)
		}
		if v != expected[i] {
			return errors.Errorf("%s: message %d: expected %#x, got %#x", c.Path(), i, expected[i], v)
		}
		i++
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.SetDone(func() bool { return i >= len(expected) })
	c.SetLineTrace(func() string { return trace })
	return p, nil
}

func digits(bits int) int { return (bits + 3) / 4 }

func idle(bits int) string { return fmt.Sprintf("%*s", digits(bits), ".") }

func msg(bits int, v uint64) string { return fmt.Sprintf("%0*x", digits(bits), v) }
