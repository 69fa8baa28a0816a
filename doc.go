/*
Package cyclesim is a cycle-level hardware simulation kernel.

A design is a hierarchy of components owning signals (ports and wires) and
update blocks. Each update block declares the signals it reads and writes;
there is no introspection of block bodies. Signals can be connected into nets,
sliced into bit ranges and, for struct types, split into fields.

Elaboration resolves the single writer of every net, synthesizes one copy
block per net, derives ordering constraints between blocks from their
declared accesses and from explicit constraints, and sorts all blocks into
one serial schedule. A Circuit then runs that schedule once per Tick.

	d := cyclesim.NewDesign("top")
	top := d.Top()
	in, _ := top.InPort("in", cyclesim.Bits(8))
	out, _ := top.OutPort("out", cyclesim.Bits(8))
	top.Update("incr", cyclesim.RW{Reads: []cyclesim.Signal{in}, Writes: []cyclesim.Signal{out}},
		func(c *cyclesim.Circuit) error {
			c.Set(out, c.Get(in)+1)
			return nil
		})
	s, err := d.Elaborate()
	if err != nil {
		// handle error
	}
	c := s.NewCircuit()
	c.Set(in, 41)
	c.Tick() // c.Get(out) == 42

Combinational blocks writing a signal run before the blocks that read it.
Edge-triggered blocks (UpdateOnEdge) model registers: the blocks reading what
they write run first and observe the previous cycle's value.

The kernel is single threaded: elaboration is a one-shot computation and a
tick runs every block sequentially.
*/
package cyclesim
