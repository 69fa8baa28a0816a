// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"sort"

	"github.com/pkg/errors"
)

// An Edge is an ordering constraint: From runs before To within a cycle.
type Edge struct {
	From, To *Block
	Explicit bool
}

type access struct {
	b *Block
	s Signal
}

// accessIndex groups block accesses by root signal.
type accessIndex struct {
	r      *registry
	byRoot map[Signal][]access
	roots  []Signal
}

func newAccessIndex(r *registry) *accessIndex {
	return &accessIndex{r: r, byRoot: make(map[Signal][]access)}
}

func (x *accessIndex) add(b *Block, s Signal) {
	root := x.r.info(s).root
	if _, ok := x.byRoot[root]; !ok {
		x.roots = append(x.roots, root)
	}
	x.byRoot[root] = append(x.byRoot[root], access{b, s})
}

func (x *accessIndex) overlapping(s Signal) []access {
	var out []access
	for _, a := range x.byRoot[x.r.info(s).root] {
		if x.r.overlaps(a.s, s) {
			out = append(out, a)
		}
	}
	return out
}

func indexAccesses(r *registry, blocks []*Block) (reads, writes *accessIndex) {
	reads, writes = newAccessIndex(r), newAccessIndex(r)
	for _, b := range blocks {
		for _, s := range b.reads {
			reads.add(b, s)
		}
		for _, s := range b.writes {
			writes.add(b, s)
		}
	}
	sort.Slice(writes.roots, func(i, j int) bool { return writes.roots[i] < writes.roots[j] })
	return reads, writes
}

// checkMultiWriters fails if overlapping bits of a signal are written by two
// different declared blocks, or if a block writes an input port of the top
// component.
func checkMultiWriters(d *Design) error {
	r := d.reg
	_, writes := indexAccesses(r, d.blocks)
	for _, root := range writes.roots {
		ws := writes.byRoot[root]
		ext := root
		if r.info(root).dir != DirIn || r.info(root).owner != d.top {
			ext = 0
		}
		for i, wi := range ws {
			var sites []WriteSite
			if ext != 0 {
				sites = append(sites, WriteSite{Signal: r.path(ext), Writer: environment})
			}
			for _, wj := range ws[i+1:] {
				if wj.b != wi.b && r.overlaps(wi.s, wj.s) {
					sites = append(sites, WriteSite{Signal: r.path(wj.s), Writer: wj.b.Path()})
				}
			}
			if len(sites) > 0 {
				sites = append([]WriteSite{{Signal: r.path(wi.s), Writer: wi.b.Path()}}, sites...)
				return errors.WithStack(&MultiWriterError{Signal: r.path(wi.s), Sites: sites})
			}
		}
	}
	return nil
}

type edgeKey struct{ from, to int }

// synthesize derives the ordering constraints between blocks.
//
// Implicit constraints: if U writes a signal overlapping a signal read by V,
// U runs before V. If U is edge-triggered the order is inverted: V samples the
// value from the previous cycle before U updates it.
//
// Explicit constraints are expanded over every block accessing an overlapping
// signal, and win over implicit constraints in the opposite direction.
func synthesize(d *Design, blocks []*Block) []Edge {
	r := d.reg
	reads, writes := indexAccesses(r, blocks)

	implicit := make(map[edgeKey]bool)
	for _, root := range writes.roots {
		for _, w := range writes.byRoot[root] {
			for _, rd := range reads.byRoot[root] {
				if w.b == rd.b || !r.overlaps(w.s, rd.s) {
					continue
				}
				if w.b.onEdge {
					implicit[edgeKey{rd.b.id, w.b.id}] = true
				} else {
					implicit[edgeKey{w.b.id, rd.b.id}] = true
				}
			}
		}
	}

	explicit := make(map[edgeKey]bool)
	order := func(before bool, x, y *Block) {
		if x == y {
			return
		}
		if !before {
			x, y = y, x
		}
		explicit[edgeKey{x.id, y.id}] = true
	}
	for _, c := range d.constraints {
		switch c.kind {
		case byBlock:
			order(true, c.a, c.b)
		case byReads:
			for _, a := range reads.overlapping(c.sig) {
				order(c.before, a.b, c.b)
			}
		case byWrites:
			for _, a := range writes.overlapping(c.sig) {
				order(c.before, a.b, c.b)
			}
		}
	}

	edges := make([]Edge, 0, len(implicit)+len(explicit))
	for k := range explicit {
		edges = append(edges, Edge{From: blocks[k.from], To: blocks[k.to], Explicit: true})
	}
	for k := range implicit {
		if explicit[k] || explicit[edgeKey{k.to, k.from}] {
			continue
		}
		edges = append(edges, Edge{From: blocks[k.from], To: blocks[k.to]})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From.id != edges[j].From.id {
			return edges[i].From.id < edges[j].From.id
		}
		return edges[i].To.id < edges[j].To.id
	})
	return edges
}
