package hwlib_test

import (
	"testing"

	cs "github.com/db47h/cyclesim"
	"github.com/stretchr/testify/require"
)

// harness wraps the ports of a component under test with top-level ports of
// the same name and width.
type harness struct {
	d   *cs.Design
	c   *cs.Circuit
	top map[string]cs.Signal
}

// newHarness builds the component with build under a top component named
// "top", then exposes every port of the child named "dut".
func newHarness(t *testing.T, build func(top *cs.Component) error) *harness {
	t.Helper()
	d := cs.NewDesign("top")
	require.NoError(t, build(d.Top()))
	var dut *cs.Component
	for _, c := range d.Top().Children() {
		if c.Name() == "dut" {
			dut = c
		}
	}
	require.NotNil(t, dut)
	h := &harness{d: d, top: make(map[string]cs.Signal)}
	for _, s := range dut.Signals() {
		name := d.Path(s)[len(dut.Path())+1:]
		var (
			p   cs.Signal
			err error
		)
		switch d.DirOf(s) {
		case cs.DirIn:
			p, err = d.Top().InPort(name, d.TypeOf(s))
		case cs.DirOut:
			p, err = d.Top().OutPort(name, d.TypeOf(s))
		default:
			continue
		}
		require.NoError(t, err)
		require.NoError(t, d.Top().Connect(p, s))
		h.top[name] = p
	}
	s, err := cs.MakeElaborator().WithStrictAccess().Elaborate(d)
	require.NoError(t, err)
	h.c = s.NewCircuit()
	return h
}

func (h *harness) set(name string, v uint64) { h.c.Set(h.top[name], v) }

func (h *harness) get(name string) uint64 { return h.c.Get(h.top[name]) }

func (h *harness) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, h.c.Tick())
}
