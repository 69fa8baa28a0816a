// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteOrder writes the execution order, one block per line, along with the
// host component path ("-" for net copy blocks).
func (s *Schedule) WriteOrder(w io.Writer) error {
	for i, b := range s.order {
		host := "-"
		if b.host != nil {
			host = b.host.Path()
		}
		kind := "comb"
		if b.onEdge {
			kind = "edge"
		}
		if _, err := fmt.Fprintf(w, "%4d %-4s %s (%s)\n", i, kind, b.Path(), host); err != nil {
			return err
		}
	}
	return nil
}

// WriteConstraints writes every ordering constraint as "from < to", sorted by
// block path. Explicit constraints are marked with a '*'.
func (s *Schedule) WriteConstraints(w io.Writer) error {
	lines := make([]string, len(s.edges))
	for i, e := range s.edges {
		mark := ""
		if e.Explicit {
			mark = " *"
		}
		lines[i] = e.From.Path() + " < " + e.To.Path() + mark
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteNets writes every net as "writer -> reader, reader...".
func (s *Schedule) WriteNets(w io.Writer) error {
	for _, n := range s.nets {
		rs := make([]string, len(n.readers))
		for i, r := range n.readers {
			rs[i] = s.d.Path(r)
		}
		if _, err := fmt.Fprintf(w, "%s -> %s\n", s.d.Path(n.writer), strings.Join(rs, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteDot writes the constraint graph in graphviz dot format. Edge-triggered
// blocks are drawn as boxes, net copy blocks as ellipses with a dashed outline
// and explicit constraints in bold.
func (s *Schedule) WriteDot(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph schedule\n{\n")
	fmt.Fprintf(&b, "  node\t[fontname=\"Helvetica\"];\n")
	for i, blk := range s.order {
		attrs := ""
		switch {
		case blk.onEdge:
			attrs = ", shape=box"
		case blk.host == nil:
			attrs = ", style=dashed"
		}
		fmt.Fprintf(&b, "  b%d\t[label=\"%d: %s\"%s];\n", blk.id, i, blk.Path(), attrs)
	}
	for _, e := range s.edges {
		if e.Explicit {
			fmt.Fprintf(&b, "  b%d -> b%d [style=bold];\n", e.From.id, e.To.id)
		} else {
			fmt.Fprintf(&b, "  b%d -> b%d;\n", e.From.id, e.To.id)
		}
	}
	fmt.Fprintf(&b, "}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
