// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

// compactNets sets the readers of each resolved net. A reader is kept if it
// overlaps a live signal: a signal read by a declared block, the writer of
// any net, or an output port of the top component. Nets left without readers
// are dropped. With keepAll set, every non-writer member is a reader.
func compactNets(d *Design, nets []*Net, keepAll bool) []*Net {
	live := liveReads(d)
	for _, n := range nets {
		live.add(n.writer)
	}
	var out []*Net
	for _, n := range nets {
		n.readers = nil
		for _, m := range n.members {
			if m != n.writer && (keepAll || live.overlaps(m)) {
				n.readers = append(n.readers, m)
			}
		}
		if len(n.readers) > 0 {
			out = append(out, n)
		}
	}
	return out
}

// netCopyBlocks synthesizes one update block per net that copies the writer's
// value to every reader. Block ids start at firstID.
func netCopyBlocks(d *Design, nets []*Net, firstID int) []*Block {
	bs := make([]*Block, len(nets))
	for i, n := range nets {
		w, rs := n.writer, n.readers
		bs[i] = &Block{
			id:     firstID + i,
			name:   "net[" + d.Path(w) + "]",
			reads:  []Signal{w},
			writes: rs,
			body: func(c *Circuit) error {
				v := c.Get(w)
				for _, r := range rs {
					c.Set(r, v)
				}
				return nil
			},
		}
	}
	return bs
}
