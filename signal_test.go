package cyclesim_test

import (
	"testing"

	cs "github.com/db47h/cyclesim"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigs(s ...cs.Signal) []cs.Signal { return s }

func nop(*cs.Circuit) error { return nil }

func TestDeclare(t *testing.T) {
	d := cs.NewDesign("top")
	top := d.Top()
	a, err := top.InPort("a", cs.Bits(8))
	require.NoError(t, err)
	sub, err := top.Child("sub")
	require.NoError(t, err)
	x, err := sub.Wire("x", cs.Bits(4))
	require.NoError(t, err)

	assert.Equal(t, "top.a", d.Path(a))
	assert.Equal(t, "top.sub.x", d.Path(x))
	assert.Equal(t, 8, d.Width(a))
	assert.Equal(t, cs.DirIn, d.DirOf(a))
	assert.Equal(t, cs.DirWire, d.DirOf(x))
	assert.Equal(t, cs.KindLeaf, d.KindOf(x))
	assert.Equal(t, []cs.Signal{a}, top.Signals())
	s, ok := sub.Signal("x")
	assert.True(t, ok)
	assert.Equal(t, x, s)
	assert.NotEqual(t, a, x)
	require.NoError(t, d.Err())
}

func TestDeclare_errors(t *testing.T) {
	td := []struct {
		name string
		fn   func(c *cs.Component) error
		err  string
	}{
		{"dup_signal", func(c *cs.Component) error {
			c.Wire("a", cs.Bits(1))
			_, err := c.OutPort("a", cs.Bits(2))
			return err
		}, `duplicate name "a" in top`},
		{"dup_child", func(c *cs.Component) error {
			c.Wire("a", cs.Bits(1))
			_, err := c.Child("a")
			return err
		}, `duplicate name "a" in top`},
		{"dup_block", func(c *cs.Component) error {
			c.Child("sub")
			_, err := c.Update("sub", cs.RW{}, nop)
			return err
		}, `duplicate name "sub" in top`},
		{"bad_name", func(c *cs.Component) error {
			_, err := c.Wire("a.b", cs.Bits(1))
			return err
		}, `invalid name "a.b" in top`},
		{"too_wide", func(c *cs.Component) error {
			_, err := c.Wire("a", cs.Bits(65))
			return err
		}, `declare top.a: invalid width 65 for type Bits65: must be in [1, 64]`},
		{"zero_width", func(c *cs.Component) error {
			_, err := c.Wire("a", cs.Bits(0))
			return err
		}, `declare top.a: invalid width 0 for type Bits0: must be in [1, 64]`},
		{"dup_field", func(c *cs.Component) error {
			_, err := c.Wire("a", cs.Struct(cs.FieldType{Name: "f", Type: cs.Bits(1)}, cs.FieldType{Name: "f", Type: cs.Bits(2)}))
			return err
		}, `declare top.a: duplicate field name "f" in type {f:Bits1, f:Bits2}`},
		{"nil_body", func(c *cs.Component) error {
			_, err := c.Update("u", cs.RW{}, nil)
			return err
		}, `nil body for block top.u`},
		{"bad_handle", func(c *cs.Component) error {
			_, err := c.Update("u", cs.RW{Reads: sigs(42)}, nop)
			return err
		}, `reads of block top.u: invalid signal handle 42`},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			dsn := cs.NewDesign("top")
			err := d.fn(dsn.Top())
			require.EqualError(t, err, d.err)
			// construction errors are sticky
			_, err = dsn.Elaborate()
			require.EqualError(t, err, "design construction failed: "+d.err)
		})
	}
}

func TestDuplicateNameError(t *testing.T) {
	d := cs.NewDesign("top")
	sub, _ := d.Top().Child("sub")
	sub.Wire("x", cs.Bits(1))
	_, err := sub.Wire("x", cs.Bits(1))
	var dn *cs.DuplicateNameError
	require.True(t, errors.As(err, &dn))
	assert.Equal(t, "top.sub", dn.Owner)
	assert.Equal(t, "x", dn.Name)
}

func TestSlice(t *testing.T) {
	d := cs.NewDesign("top")
	x, _ := d.Top().Wire("x", cs.Bits(16))

	s1, err := d.Slice(x, 0, 8)
	require.NoError(t, err)
	s2, err := d.Slice(x, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, s1, s2, "slices must be memoized")
	assert.Equal(t, "top.x[0:8]", d.Path(s1))
	assert.Equal(t, cs.KindSlice, d.KindOf(s1))
	assert.Equal(t, x, d.Parent(s1))

	full, err := d.Slice(x, 0, 16)
	require.NoError(t, err)
	assert.Equal(t, x, full)

	b3, err := d.Bit(x, 3)
	require.NoError(t, err)
	assert.Equal(t, "top.x[3]", d.Path(b3))

	// slices of slices fold into the parent.
	s3, err := d.Slice(s1, 2, 4)
	require.NoError(t, err)
	s4, _ := d.Slice(x, 2, 4)
	assert.Equal(t, s4, s3)
	hi, _ := d.Slice(x, 8, 16)
	s5, err := d.Slice(hi, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "top.x[8:12]", d.Path(s5))

	_, err = d.Slice(x, 4, 4)
	require.EqualError(t, err, "invalid bit range [4:4] for top.x (16 bits)")
	_, err = d.Slice(x, 0, 17)
	require.Error(t, err)
	_, err = d.Slice(s1, 0, 9)
	require.EqualError(t, err, "invalid bit range [0:9] for top.x[0:8] (8 bits)")
}

func TestField(t *testing.T) {
	d := cs.NewDesign("top")
	msgT := cs.Struct(
		cs.FieldType{Name: "addr", Type: cs.Bits(8)},
		cs.FieldType{Name: "hdr", Type: cs.Struct(
			cs.FieldType{Name: "op", Type: cs.Bits(2)},
			cs.FieldType{Name: "len", Type: cs.Bits(6)},
		)},
	)
	assert.Equal(t, 16, msgT.Width())
	assert.Equal(t, "{addr:Bits8, hdr:{op:Bits2, len:Bits6}}", msgT.String())
	m, err := d.Top().OutPort("m", msgT)
	require.NoError(t, err)

	addr, err := d.Field(m, "addr")
	require.NoError(t, err)
	hdr, err := d.Field(m, "hdr")
	require.NoError(t, err)
	op, err := d.Field(hdr, "op")
	require.NoError(t, err)
	again, _ := d.Field(m, "addr")
	assert.Equal(t, addr, again)

	assert.Equal(t, "top.m.hdr.op", d.Path(op))
	assert.Equal(t, cs.KindField, d.KindOf(op))
	assert.Equal(t, cs.DirOut, d.DirOf(op))
	assert.Equal(t, 2, d.Width(op))
	assert.True(t, d.Contains(m, op))
	assert.True(t, d.Contains(hdr, op))
	assert.False(t, d.Overlaps(addr, op))
	assert.False(t, d.Overlaps(addr, hdr))

	lo, _ := d.Slice(m, 0, 9)
	assert.True(t, d.Overlaps(lo, addr))
	assert.True(t, d.Overlaps(lo, op))
	ln, _ := d.Field(hdr, "len")
	assert.False(t, d.Overlaps(lo, ln))

	_, err = d.Field(m, "nope")
	require.EqualError(t, err, `no field "nope" in top.m (type {addr:Bits8, hdr:{op:Bits2, len:Bits6}})`)
	_, err = d.Field(addr, "x")
	require.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	d := cs.NewDesign("top")
	x, _ := d.Top().Wire("x", cs.Bits(8))
	y, _ := d.Top().Wire("y", cs.Bits(8))
	a, _ := d.Slice(x, 0, 4)
	b, _ := d.Slice(x, 2, 6)
	c, _ := d.Slice(x, 4, 8)
	ya, _ := d.Slice(y, 0, 4)

	td := []struct {
		a, b     cs.Signal
		overlaps bool
		contains bool
	}{
		{a, b, true, false},
		{b, c, true, false},
		{a, c, false, false},
		{x, a, true, true},
		{a, x, true, false},
		{a, a, true, true},
		{a, ya, false, false},
		{x, y, false, false},
		{x, 0, false, false},
	}
	for _, tc := range td {
		assert.Equal(t, tc.overlaps, d.Overlaps(tc.a, tc.b), "Overlaps(%s, %s)", d.Path(tc.a), d.Path(tc.b))
		assert.Equal(t, tc.contains, d.Contains(tc.a, tc.b), "Contains(%s, %s)", d.Path(tc.a), d.Path(tc.b))
	}
}

func TestLookup(t *testing.T) {
	d := cs.NewDesign("top")
	sub, _ := d.Top().Child("sub")
	x, _ := sub.Wire("x", cs.Struct(cs.FieldType{Name: "f", Type: cs.Bits(4)}, cs.FieldType{Name: "g", Type: cs.Bits(4)}))

	s, err := d.Lookup("top.sub.x")
	require.NoError(t, err)
	assert.Equal(t, x, s)

	s, err = d.Lookup("top.sub.x.g[1:3]")
	require.NoError(t, err)
	assert.Equal(t, "top.sub.x.g[1:3]", d.Path(s))
	assert.Equal(t, 2, d.Width(s))

	s2, err := sub.Lookup("x.g[1:3]")
	require.NoError(t, err)
	assert.Equal(t, s, s2)

	for _, p := range []string{"other.x", "top", "top.sub", "top.nope", "top.sub[0]", "top.sub.x.h", "top.sub.x[9]", "top..x"} {
		_, err := d.Lookup(p)
		assert.Error(t, err, p)
	}
}

func TestPorts(t *testing.T) {
	d := cs.NewDesign("top")
	var p struct {
		A    cs.Signal    `hw:"in"`
		Sel  cs.Signal    `hw:"in,1"`
		Out  [2]cs.Signal `hw:"out,,y"`
		Tmp  cs.Signal    `hw:"wire,3,scratch"`
		Skip cs.Signal
	}
	require.NoError(t, d.Top().Ports(&p, 8))

	assert.Equal(t, "top.a", d.Path(p.A))
	assert.Equal(t, 8, d.Width(p.A))
	assert.Equal(t, cs.DirIn, d.DirOf(p.A))
	assert.Equal(t, 1, d.Width(p.Sel))
	assert.Equal(t, "top.y0", d.Path(p.Out[0]))
	assert.Equal(t, "top.y1", d.Path(p.Out[1]))
	assert.Equal(t, cs.DirOut, d.DirOf(p.Out[1]))
	assert.Equal(t, "top.scratch", d.Path(p.Tmp))
	assert.Equal(t, cs.DirWire, d.DirOf(p.Tmp))
	assert.Equal(t, 3, d.Width(p.Tmp))
	assert.Equal(t, cs.Signal(0), p.Skip)

	var bad struct {
		X cs.Signal `hw:"inout"`
	}
	require.Error(t, d.Top().Ports(&bad, 1))
	var badType struct {
		X int `hw:"in"`
	}
	require.Error(t, cs.NewDesign("t").Top().Ports(&badType, 1))
	require.Error(t, cs.NewDesign("t").Top().Ports(p, 1))
}
