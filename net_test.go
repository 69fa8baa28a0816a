package cyclesim_test

import (
	"strconv"
	"testing"

	cs "github.com/db47h/cyclesim"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNet_singleWriter(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	a, _ := top.Wire("a", cs.Bits(8))
	b, _ := top.Wire("b", cs.Bits(8))
	var got uint64
	w, _ := top.Update("W", cs.RW{Writes: sigs(a)}, func(c *cs.Circuit) error {
		c.Set(a, 42)
		return nil
	})
	r, _ := top.Update("R", cs.RW{Reads: sigs(b)}, func(c *cs.Circuit) error {
		got = c.Get(b)
		return nil
	})
	require.NoError(t, top.Connect(a, b))

	s, err := d.Elaborate()
	require.NoError(t, err)
	require.Len(t, s.Nets(), 1)
	n := s.Nets()[0]
	assert.Equal(t, a, n.Writer())
	assert.Equal(t, []cs.Signal{a, b}, n.Members())
	assert.Equal(t, []cs.Signal{b}, n.Readers())
	assert.Less(t, s.Position(w), s.Position(r))
	assert.Equal(t, []string{"top.W", "net[top.a]", "top.R"}, s.PrintOrder())

	c := s.NewCircuit()
	require.NoError(t, c.Tick())
	assert.Equal(t, uint64(42), got)
	assert.Equal(t, uint64(42), c.Get(b))
}

func TestNet_connectionOrder(t *testing.T) {
	build := func(swap bool) *cs.Schedule {
		d := cs.NewDesign("top")
		top := d.Top()
		a, _ := top.Wire("a", cs.Bits(8))
		b, _ := top.Wire("b", cs.Bits(8))
		c, _ := top.Wire("c", cs.Bits(8))
		top.Update("W", cs.RW{Writes: sigs(c)}, nop)
		top.Update("R", cs.RW{Reads: sigs(a)}, nop)
		if swap {
			top.Connect(c, b)
			top.Connect(b, a)
		} else {
			top.Connect(a, b)
			top.Connect(b, c)
		}
		s, err := d.Elaborate()
		require.NoError(t, err)
		return s
	}
	s1, s2 := build(false), build(true)
	require.Len(t, s1.Nets(), 1)
	require.Len(t, s2.Nets(), 1)
	assert.Equal(t, s1.Nets()[0].Writer(), s2.Nets()[0].Writer())
	assert.Equal(t, s1.PrintOrder(), s2.PrintOrder())
	assert.Equal(t, []string{"top.W", "net[top.c]", "top.R"}, s1.PrintOrder())
}

func TestNet_noWriter(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	x, _ := top.Wire("x", cs.Bits(1))
	y, _ := top.Wire("y", cs.Bits(1))
	z, _ := top.Wire("z", cs.Bits(1))
	top.Connect(x, y)
	top.Connect(y, z)
	top.Update("R", cs.RW{Reads: sigs(z)}, nop)

	_, err := d.Elaborate()
	var nw *cs.NoWriterError
	require.True(t, errors.As(err, &nw), "got %v", err)
	assert.Equal(t, [][]string{{"top.x", "top.y", "top.z"}}, nw.Nets)
	assert.EqualError(t, err, "no writer for net {top.x, top.y, top.z}")
}

func TestNet_dangling(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	x, _ := top.Wire("x", cs.Bits(1))
	y, _ := top.Wire("y", cs.Bits(1))
	top.Connect(x, y)
	top.Update("U", cs.RW{}, nop)

	s, err := d.Elaborate()
	require.NoError(t, err)
	assert.Empty(t, s.Nets())
	assert.Equal(t, []string{"top.U"}, s.PrintOrder())
}

func TestNet_multipleCandidates(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	a, _ := top.Wire("a", cs.Bits(4))
	b, _ := top.Wire("b", cs.Bits(4))
	c, _ := top.Wire("c", cs.Bits(4))
	top.Update("W1", cs.RW{Writes: sigs(a)}, nop)
	top.Update("W2", cs.RW{Writes: sigs(b)}, nop)
	top.Update("R", cs.RW{Reads: sigs(c)}, nop)
	top.Connect(a, c)
	top.Connect(c, b)

	_, err := d.Elaborate()
	var mw *cs.MultiWriterError
	require.True(t, errors.As(err, &mw), "got %v", err)
	assert.Equal(t, "net {top.a, top.b, top.c}", mw.Signal)
	assert.Equal(t, []string{"top.W1", "top.W2"}, mw.Writers())
}

func TestNet_topInput(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	in, _ := top.InPort("in", cs.Bits(8))
	sub, _ := top.Child("sub")
	x, _ := sub.InPort("x", cs.Bits(8))
	var got uint64
	sub.Update("use", cs.RW{Reads: sigs(x)}, func(c *cs.Circuit) error {
		got = c.Get(x)
		return nil
	})
	require.NoError(t, top.Connect(in, x))

	s, err := d.Elaborate()
	require.NoError(t, err)
	require.Len(t, s.Nets(), 1)
	assert.Equal(t, in, s.Nets()[0].Writer())
	assert.Equal(t, []string{"net[top.in]", "top.sub.use"}, s.PrintOrder())

	c := s.NewCircuit()
	c.Set(in, 0x5a)
	require.NoError(t, c.Tick())
	assert.Equal(t, uint64(0x5a), got)
}

func TestNet_nested(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	in, _ := top.InPort("in", cs.Bits(8))
	sub, _ := top.Child("sub")
	a, _ := sub.InPort("a", cs.Bits(8))
	b, _ := sub.Wire("b", cs.Bits(4))
	var got uint64
	use, _ := sub.Update("use", cs.RW{Reads: sigs(b)}, func(c *cs.Circuit) error {
		got = c.Get(b)
		return nil
	})
	require.NoError(t, top.Connect(in, a))
	require.NoError(t, sub.ConnectString("a[0:4]=b"))

	s, err := d.Elaborate()
	require.NoError(t, err)
	require.Len(t, s.Nets(), 2)
	lo, _ := d.Slice(a, 0, 4)
	assert.Equal(t, in, s.Nets()[0].Writer())
	assert.Equal(t, lo, s.Nets()[1].Writer())
	assert.Equal(t, []string{"net[top.in]", "net[top.sub.a[0:4]]", "top.sub.use"}, s.PrintOrder())
	assert.Equal(t, 2, s.Position(use))

	c := s.NewCircuit()
	c.Set(in, 0xab)
	require.NoError(t, c.Tick())
	assert.Equal(t, uint64(0xb), got)
	assert.Equal(t, uint64(0xab), c.Get(a))
}

func TestNet_partialDrivers(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	in, _ := top.InPort("in", cs.Bits(8))
	a, _ := top.Wire("a", cs.Bits(8))
	b, _ := top.Wire("b", cs.Bits(4))
	top.Update("W", cs.RW{Writes: sigs(b)}, nop)
	top.Update("R", cs.RW{Reads: sigs(a)}, nop)
	top.Connect(in, a)
	top.ConnectString("b=a[4:8]")

	_, err := d.Elaborate()
	var mw *cs.MultiWriterError
	require.True(t, errors.As(err, &mw), "got %v", err)
	assert.Equal(t, []string{"top.W", "net top.in"}, mw.Writers())
}

func TestNet_compaction(t *testing.T) {
	build := func() (*cs.Design, cs.Signal, cs.Signal, cs.Signal) {
		d := cs.NewDesign("top")
		top := d.Top()
		a, _ := top.Wire("a", cs.Bits(8))
		b, _ := top.Wire("b", cs.Bits(8))
		c, _ := top.Wire("c", cs.Bits(8))
		top.Update("W", cs.RW{Writes: sigs(a)}, nop)
		top.Update("R", cs.RW{Reads: sigs(b)}, nop)
		top.Connect(a, b)
		top.Connect(a, c)
		return d, a, b, c
	}

	d, _, b, c := build()
	s, err := d.Elaborate()
	require.NoError(t, err)
	require.Len(t, s.Nets(), 1)
	assert.Equal(t, []cs.Signal{b}, s.Nets()[0].Readers())

	d, _, b, c = build()
	s, err = cs.MakeElaborator().WithoutNetCompaction().Elaborate(d)
	require.NoError(t, err)
	require.Len(t, s.Nets(), 1)
	assert.Equal(t, []cs.Signal{b, c}, s.Nets()[0].Readers())
}

func TestNet_unreadDropped(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	a, _ := top.Wire("a", cs.Bits(8))
	b, _ := top.Wire("b", cs.Bits(8))
	o, _ := top.OutPort("o", cs.Bits(8))
	top.Update("W", cs.RW{Writes: sigs(a)}, nop)
	top.Connect(a, b)

	s, err := d.Elaborate()
	require.NoError(t, err)
	assert.Empty(t, s.Nets())
	assert.Equal(t, []string{"top.W"}, s.PrintOrder())

	// top level outputs are observed by the environment.
	require.NoError(t, top.Connect(b, o))
	s, err = d.Elaborate()
	require.NoError(t, err)
	require.Len(t, s.Nets(), 1)
	assert.Equal(t, []cs.Signal{o}, s.Nets()[0].Readers())
}

func TestNet_idempotent(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	in, _ := top.InPort("in", cs.Bits(8))
	sub, _ := top.Child("sub")
	a, _ := sub.InPort("a", cs.Bits(8))
	o, _ := sub.OutPort("o", cs.Bits(8))
	out, _ := top.OutPort("out", cs.Bits(8))
	sub.Update("inc", cs.RW{Reads: sigs(a), Writes: sigs(o)}, nop)
	top.Connect(in, a)
	top.Connect(o, out)

	s1, err := d.Elaborate()
	require.NoError(t, err)
	s2, err := d.Elaborate()
	require.NoError(t, err)
	assert.Equal(t, s1.PrintOrder(), s2.PrintOrder())
	require.Equal(t, len(s1.Nets()), len(s2.Nets()))
	for i := range s1.Nets() {
		assert.Equal(t, s1.Nets()[i].Writer(), s2.Nets()[i].Writer())
		assert.Equal(t, s1.Nets()[i].Readers(), s2.Nets()[i].Readers())
	}
	assert.NotEqual(t, s1.Session(), s2.Session())
}

func TestConnect_errors(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	a, _ := top.Wire("a", cs.Bits(8))
	c, _ := top.Wire("c", cs.Bits(4))

	require.NoError(t, top.Connect(a, a))
	require.EqualError(t, top.Connect(a, c), "top: cannot connect top.a (8 bits) to top.c (4 bits)")
	require.Error(t, cs.NewDesign("t").Top().Connect(0, 1))

	d = cs.NewDesign("top")
	d.Top().Wire("a", cs.Bits(8))
	require.Error(t, d.Top().ConnectString("a="))
	require.Error(t, d.Top().ConnectString("a=b"))
	require.NoError(t, d.Top().ConnectString(""))
}

func TestConnect_foreignHandle(t *testing.T) {
	d1 := cs.NewDesign("top")
	d1.Top().Wire("a", cs.Bits(8))
	d1.Top().Wire("b", cs.Bits(8))
	c1, _ := d1.Top().Wire("c", cs.Bits(8))

	d2 := cs.NewDesign("top")
	x, _ := d2.Top().Wire("x", cs.Bits(8))
	require.EqualError(t, d2.Top().Connect(x, c1), "top: connect: invalid signal handle 3")
	_, err := d2.Elaborate()
	require.EqualError(t, err, "design construction failed: top: connect: invalid signal handle 3")
}

// TestNet_nestedChain checks writer propagation through a chain of nested
// nets, each x[k] driving the low bits of x[k+1]. Wires and connections are
// declared from the end of the chain.
func TestNet_nestedChain(t *testing.T) {
	const n = 20
	d := cs.NewDesign("top")
	top := d.Top()
	x := make([]cs.Signal, n+1)
	for k := n; k > 0; k-- {
		x[k], _ = top.Wire("x"+strconv.Itoa(k), cs.Bits(k+1))
	}
	x[0], _ = top.InPort("in", cs.Bits(1))
	var got uint64
	top.Update("use", cs.RW{Reads: sigs(x[n])}, func(c *cs.Circuit) error {
		got = c.Get(x[n])
		return nil
	})
	for k := n - 1; k >= 0; k-- {
		lo, err := d.Slice(x[k+1], 0, k+1)
		require.NoError(t, err)
		require.NoError(t, top.Connect(x[k], lo))
	}

	s, err := d.Elaborate()
	require.NoError(t, err)
	require.Len(t, s.Nets(), n)
	writers := make(map[cs.Signal]bool)
	for _, nt := range s.Nets() {
		writers[nt.Writer()] = true
	}
	for k := 0; k < n; k++ {
		assert.True(t, writers[x[k]], "x%d", k)
	}

	c := s.NewCircuit()
	c.Set(x[0], 1)
	require.NoError(t, c.Tick())
	assert.Equal(t, uint64(1), got)
}
