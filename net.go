// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"github.com/db47h/cyclesim/internal/dset"
	"github.com/db47h/cyclesim/internal/hdl"
	"github.com/pkg/errors"
)

// Connect connects signals a and b. Connected signals form nets: the members
// of a net are copied from the net's single writer once per tick, by a copy
// block scheduled after the writer's block. Both signals must have the same
// width.
//
// If the writer is updated by an edge-triggered block, the copy runs before
// that block, so the other members of the net hold the writer's value from
// the previous tick.
func (c *Component) Connect(a, b Signal) error {
	for _, s := range []Signal{a, b} {
		if err := c.d.reg.check(s); err != nil {
			return c.d.fail(errors.Wrapf(err, "%s: connect", c.Path()))
		}
	}
	if a == b {
		return nil
	}
	if wa, wb := c.d.Width(a), c.d.Width(b); wa != wb {
		return c.d.fail(errors.Errorf("%s: cannot connect %s (%d bits) to %s (%d bits)",
			c.Path(), c.d.Path(a), wa, c.d.Path(b), wb))
	}
	c.d.conns = append(c.d.conns, connection{a, b, c})
	return nil
}

// ConnectString parses a list of connections like "in=sub.in, sub.out[0:4]=x"
// and connects each pair. Paths are relative to c.
func (c *Component) ConnectString(conns string) error {
	cs, err := hdl.ParseConns(conns)
	if err != nil {
		return c.d.fail(err)
	}
	for _, cn := range cs {
		a, err := c.lookup(cn.LHS)
		if err != nil {
			return err
		}
		b, err := c.lookup(cn.RHS)
		if err != nil {
			return err
		}
		if err = c.Connect(a, b); err != nil {
			return err
		}
	}
	return nil
}

// A Net is a set of connected signals with a single writer.
type Net struct {
	members []Signal
	writer  Signal
	readers []Signal
}

// Members returns all signals in the net, sorted by handle.
func (n *Net) Members() []Signal { return n.members }

// Writer returns the signal driving the net, or 0 if the net is unresolved.
func (n *Net) Writer() Signal { return n.writer }

// Readers returns the members that receive the writer's value. After
// compaction, members that nothing reads are omitted.
func (n *Net) Readers() []Signal { return n.readers }

// buildNets computes the transitive closure of all connections.
func buildNets(d *Design) []*Net {
	ds := dset.New(d.reg.len())
	for _, cn := range d.conns {
		ds.Union(int(cn.a), int(cn.b))
	}
	groups := ds.Groups(2)
	nets := make([]*Net, len(groups))
	for i, g := range groups {
		ms := make([]Signal, len(g))
		for j, s := range g {
			ms[j] = Signal(s)
		}
		nets[i] = &Net{members: ms}
	}
	return nets
}

// writeRec is a write to a signal. origin is the index of the net that
// propagated the write, or -1 for direct writes.
type writeRec struct {
	sig    Signal
	site   string
	origin int
}

type writeIndex struct {
	r      *registry
	byRoot map[Signal][]writeRec
}

func (w *writeIndex) add(rec writeRec) {
	root := w.r.info(rec.sig).root
	w.byRoot[root] = append(w.byRoot[root], rec)
}

// candidates returns the members of net i that overlap a write not
// originating from net i, along with the matching write sites.
func (w *writeIndex) candidates(n *Net, i int) ([]Signal, []WriteSite) {
	var cands []Signal
	var sites []WriteSite
	for _, m := range n.members {
		found := false
		for _, rec := range w.byRoot[w.r.info(m).root] {
			if rec.origin == i || !w.r.overlaps(m, rec.sig) {
				continue
			}
			found = true
			sites = append(sites, WriteSite{Signal: w.r.path(rec.sig), Writer: rec.site})
		}
		if found {
			cands = append(cands, m)
		}
	}
	return cands, sites
}

// environment is the write site of top-level input ports.
const environment = "environment"

// resolveWriters finds the writer of every net. A member is a writer
// candidate if it overlaps a signal written by a block, a top-level input
// port, or a reader of another resolved net. Resolving a net propagates its
// writer to its other members, and the nets overlapping those members are
// checked again, so that writes propagate through nested nets.
//
// Unresolved nets that nothing reads are dropped from the result.
func resolveWriters(d *Design, nets []*Net) ([]*Net, error) {
	r := d.reg
	w := &writeIndex{r: r, byRoot: make(map[Signal][]writeRec)}
	for _, b := range d.blocks {
		for _, s := range b.writes {
			w.add(writeRec{s, b.Path(), -1})
		}
	}
	for _, s := range d.top.signals {
		if r.info(s).dir == DirIn {
			w.add(writeRec{s, environment, -1})
		}
	}

	// nets sharing a root with a propagated write must be checked again.
	byRoot := make(map[Signal][]int)
	queue := make([]int, len(nets))
	queued := make([]bool, len(nets))
	for i, n := range nets {
		n.writer = 0
		queue[i], queued[i] = i, true
		for _, m := range n.members {
			root := r.info(m).root
			if l := byRoot[root]; len(l) == 0 || l[len(l)-1] != i {
				byRoot[root] = append(l, i)
			}
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue, queued[i] = queue[1:], false
		n := nets[i]
		cands, sites := w.candidates(n, i)
		switch {
		case len(cands) > 1:
			return nil, errors.WithStack(&MultiWriterError{Signal: netName(r, n), Sites: sites})
		case len(cands) == 1 && n.writer == 0:
			n.writer = cands[0]
			site := "net " + r.path(n.writer)
			for _, m := range n.members {
				if m == n.writer {
					continue
				}
				w.add(writeRec{m, site, i})
				for _, j := range byRoot[r.info(m).root] {
					if j != i && !queued[j] {
						queue, queued[j] = append(queue, j), true
					}
				}
			}
		}
	}

	reads := liveReads(d)
	var bad [][]string
	var out []*Net
	for _, n := range nets {
		if n.writer != 0 {
			out = append(out, n)
			continue
		}
		for _, m := range n.members {
			if reads.overlaps(m) {
				bad = append(bad, memberPaths(r, n))
				break
			}
		}
	}
	if len(bad) > 0 {
		return nil, errors.WithStack(&NoWriterError{Nets: bad})
	}
	return out, nil
}

// liveReads returns an index of the signals read by declared blocks and the
// output ports of the top component.
func liveReads(d *Design) *sigIndex {
	x := newSigIndex(d.reg)
	for _, b := range d.blocks {
		for _, s := range b.reads {
			x.add(s)
		}
	}
	for _, s := range d.top.signals {
		if d.reg.info(s).dir == DirOut {
			x.add(s)
		}
	}
	return x
}

func memberPaths(r *registry, n *Net) []string {
	ps := make([]string, len(n.members))
	for i, m := range n.members {
		ps[i] = r.path(m)
	}
	return ps
}

func netName(r *registry, n *Net) string {
	s := "net {"
	for i, p := range memberPaths(r, n) {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + "}"
}
