// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
)

// A TieBreak picks the next block to schedule among the ready blocks. ready
// is sorted by block id and never empty. Pick returns an index into ready.
type TieBreak interface {
	Pick(ready []*Block) int
}

type stableTieBreak struct{}

func (stableTieBreak) Pick([]*Block) int { return 0 }

// StableTieBreak returns the default tie-break strategy: the ready block with
// the lowest id, i.e. declaration order, is scheduled first.
func StableTieBreak() TieBreak { return stableTieBreak{} }

type randomTieBreak struct {
	rnd *rand.Rand
}

func (t *randomTieBreak) Pick(ready []*Block) int { return t.rnd.IntN(len(ready)) }

// RandomTieBreak returns a tie-break strategy picking a random ready block. It
// is meant for tests: any schedule it produces is valid, and a design whose
// behavior depends on the tie-break has a missing constraint. The same seed
// always yields the same schedule.
func RandomTieBreak(seed uint64) TieBreak {
	return &randomTieBreak{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// A Schedule is the result of elaborating a design: a serial order of all
// update blocks, including the blocks synthesized for nets, that satisfies
// every ordering constraint.
type Schedule struct {
	d       *Design
	order   []*Block
	blocks  []*Block // by id
	edges   []Edge
	nets    []*Net
	strict  bool
	logger  *slog.Logger
	session string
}

// Design returns the elaborated design.
func (s *Schedule) Design() *Design { return s.d }

// Order returns the blocks in execution order.
func (s *Schedule) Order() []*Block { return s.order }

// Blocks returns all scheduled blocks ordered by id.
func (s *Schedule) Blocks() []*Block { return s.blocks }

// Edges returns the ordering constraints sorted by (From, To) id.
func (s *Schedule) Edges() []Edge { return s.edges }

// Nets returns the resolved nets that have a net copy block.
func (s *Schedule) Nets() []*Net { return s.nets }

// Session returns the unique id of the elaboration that produced s.
func (s *Schedule) Session() string { return s.session }

// PrintOrder returns the paths of the blocks in execution order.
func (s *Schedule) PrintOrder() []string {
	out := make([]string, len(s.order))
	for i, b := range s.order {
		out[i] = b.Path()
	}
	return out
}

// Position returns the index of b in the execution order, or -1.
func (s *Schedule) Position(b *Block) int {
	for i, o := range s.order {
		if o == b {
			return i
		}
	}
	return -1
}

// topoSort sorts blocks with Kahn's algorithm. blocks must be indexed by id.
func topoSort(blocks []*Block, edges []Edge, tb TieBreak) ([]*Block, error) {
	indeg := make([]int, len(blocks))
	succ := make([][]int, len(blocks))
	for _, e := range edges {
		succ[e.From.id] = append(succ[e.From.id], e.To.id)
		indeg[e.To.id]++
	}
	var ready []*Block
	for _, b := range blocks {
		if indeg[b.id] == 0 {
			ready = append(ready, b)
		}
	}
	order := make([]*Block, 0, len(blocks))
	for len(ready) > 0 {
		i := tb.Pick(ready)
		b := ready[i]
		ready = append(ready[:i], ready[i+1:]...)
		order = append(order, b)
		for _, n := range succ[b.id] {
			indeg[n]--
			if indeg[n] == 0 {
				ready = insertByID(ready, blocks[n])
			}
		}
	}
	if len(order) < len(blocks) {
		return nil, errors.WithStack(cyclicError(blocks, edges, indeg))
	}
	return order, nil
}

func insertByID(bs []*Block, b *Block) []*Block {
	i := sort.Search(len(bs), func(i int) bool { return bs[i].id > b.id })
	bs = append(bs, nil)
	copy(bs[i+1:], bs[i:])
	bs[i] = b
	return bs
}

// cyclicError reports the blocks left with pending predecessors. Walking
// pending predecessors from any of them must eventually loop, which gives a
// concrete cycle.
func cyclicError(blocks []*Block, edges []Edge, indeg []int) *CyclicDependencyError {
	e := &CyclicDependencyError{}
	pred := make(map[int][]int)
	for _, b := range blocks {
		if indeg[b.id] > 0 {
			e.Blocks = append(e.Blocks, b.Path())
		}
	}
	for _, ed := range edges {
		if indeg[ed.From.id] > 0 && indeg[ed.To.id] > 0 {
			e.Edges = append(e.Edges, [2]string{ed.From.Path(), ed.To.Path()})
			pred[ed.To.id] = append(pred[ed.To.id], ed.From.id)
		}
	}
	sort.Strings(e.Blocks)
	sort.Slice(e.Edges, func(i, j int) bool {
		if e.Edges[i][0] != e.Edges[j][0] {
			return e.Edges[i][0] < e.Edges[j][0]
		}
		return e.Edges[i][1] < e.Edges[j][1]
	})

	start := -1
	for _, b := range blocks {
		if indeg[b.id] > 0 {
			start = b.id
			break
		}
	}
	seen := make(map[int]int)
	var path []int
	for cur := start; cur >= 0; {
		if at, ok := seen[cur]; ok {
			path = path[at:]
			break
		}
		seen[cur] = len(path)
		path = append(path, cur)
		ps := pred[cur]
		if len(ps) == 0 {
			// unreachable for a residual block
			path = nil
			break
		}
		next := ps[0]
		for _, p := range ps[1:] {
			if p < next {
				next = p
			}
		}
		cur = next
	}
	// path follows predecessors; reverse it into execution order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for _, id := range path {
		e.Cycle = append(e.Cycle, blocks[id].Path())
	}
	return e
}
