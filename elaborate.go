// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Elaborator turns a Design into a Schedule. The zero value is not usable,
// use MakeElaborator.
//
// Elaboration runs the following passes:
//
//   - check that no two blocks write overlapping bits of a signal
//   - build nets from connections and resolve the writer of each net
//   - drop net readers that nothing reads and synthesize one copy block per net
//   - derive ordering constraints from signal accesses and explicit constraints
//   - sort all blocks topologically
type Elaborator struct {
	tieBreak TieBreak
	logger   *slog.Logger
	strict   bool
	keepAll  bool
}

// MakeElaborator returns an Elaborator with default settings: stable
// tie-break, no logging, no access checks and net compaction enabled.
func MakeElaborator() Elaborator {
	return Elaborator{
		tieBreak: StableTieBreak(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTieBreak sets the strategy used to order independent blocks.
func (e Elaborator) WithTieBreak(tb TieBreak) Elaborator {
	e.tieBreak = tb
	return e
}

// WithLogger sets the logger used during elaboration and by circuits created
// from the resulting schedule.
func (e Elaborator) WithLogger(l *slog.Logger) Elaborator {
	e.logger = l
	return e
}

// WithStrictAccess makes circuits fail a tick when a block accesses a signal
// it did not declare.
func (e Elaborator) WithStrictAccess() Elaborator {
	e.strict = true
	return e
}

// WithoutNetCompaction keeps every net member as a reader, even if nothing
// reads it.
func (e Elaborator) WithoutNetCompaction() Elaborator {
	e.keepAll = true
	return e
}

// Elaborate elaborates d. It can be called again after d has been modified;
// previously returned schedules are not affected.
func (e Elaborator) Elaborate(d *Design) (*Schedule, error) {
	session := xid.New().String()
	log := e.logger.With("session", session, "design", d.top.name)

	s, err := e.elaborate(d)
	if err != nil {
		log.Error("elaboration failed", "error", err)
		return nil, err
	}
	s.session = session
	s.logger = log
	log.Debug("elaborated",
		"blocks", len(d.blocks),
		"nets", len(s.nets),
		"edges", len(s.edges),
		"order", s.PrintOrder())
	return s, nil
}

func (e Elaborator) elaborate(d *Design) (*Schedule, error) {
	if d.err != nil {
		return nil, errors.Wrap(d.err, "design construction failed")
	}
	if err := checkMultiWriters(d); err != nil {
		return nil, err
	}
	nets, err := resolveWriters(d, buildNets(d))
	if err != nil {
		return nil, err
	}
	nets = compactNets(d, nets, e.keepAll)

	blocks := make([]*Block, 0, len(d.blocks)+len(nets))
	blocks = append(blocks, d.blocks...)
	blocks = append(blocks, netCopyBlocks(d, nets, len(d.blocks))...)

	edges := synthesize(d, blocks)
	order, err := topoSort(blocks, edges, e.tieBreak)
	if err != nil {
		return nil, err
	}
	return &Schedule{
		d:      d,
		order:  order,
		blocks: blocks,
		edges:  edges,
		nets:   nets,
		strict: e.strict,
	}, nil
}
