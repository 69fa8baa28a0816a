// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cyclesim

import (
	"strconv"
	"strings"
)

// DuplicateNameError is returned when a signal, child component or update block
// is declared with a name already in use within the same component.
type DuplicateNameError struct {
	Owner string // path of the owner component
	Name  string
}

func (e *DuplicateNameError) Error() string {
	return "duplicate name " + strconv.Quote(e.Name) + " in " + e.Owner
}

// A WriteSite identifies who writes a signal.
type WriteSite struct {
	Signal string // full path of the written signal
	Writer string // block path, "net <writer path>" or "environment"
}

func (w WriteSite) String() string {
	return w.Writer + " writes " + w.Signal
}

// MultiWriterError is returned by elaboration when overlapping bits of a signal
// are written by more than one update block, or when a net has more than one
// candidate writer.
type MultiWriterError struct {
	Signal string
	Sites  []WriteSite
}

func (e *MultiWriterError) Error() string {
	var b strings.Builder
	b.WriteString("multiple writers for ")
	b.WriteString(e.Signal)
	b.WriteString(": ")
	for i, s := range e.Sites {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Writers returns the distinct writers in e.Sites.
func (e *MultiWriterError) Writers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range e.Sites {
		if !seen[s.Writer] {
			seen[s.Writer] = true
			out = append(out, s.Writer)
		}
	}
	return out
}

// NoWriterError is returned by elaboration for nets that are read but have no
// resolvable writer. Nets lists the member paths of each offending net.
type NoWriterError struct {
	Nets [][]string
}

func (e *NoWriterError) Error() string {
	var b strings.Builder
	b.WriteString("no writer for net")
	if len(e.Nets) > 1 {
		b.WriteByte('s')
	}
	for i, n := range e.Nets {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(" {")
		b.WriteString(strings.Join(n, ", "))
		b.WriteByte('}')
	}
	return b.String()
}

// CyclicDependencyError is returned by elaboration when the constraint graph
// has no topological order. Blocks lists every block left unscheduled, Edges
// the pending constraints between them and Cycle one offending cycle.
type CyclicDependencyError struct {
	Blocks []string
	Edges  [][2]string
	Cycle  []string
}

func (e *CyclicDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("cyclic dependency between ")
	b.WriteString(strings.Join(e.Blocks, ", "))
	if len(e.Cycle) > 0 {
		b.WriteString(" (cycle: ")
		b.WriteString(strings.Join(e.Cycle, " < "))
		b.WriteString(" < ")
		b.WriteString(e.Cycle[0])
		b.WriteByte(')')
	}
	return b.String()
}

// RuntimeBlockError wraps an error returned by an update block during a tick.
// A circuit that returned a RuntimeBlockError is unusable.
type RuntimeBlockError struct {
	Block string
	Cycle uint64
	Err   error
}

func (e *RuntimeBlockError) Error() string {
	return "cycle " + strconv.FormatUint(e.Cycle, 10) + ": block " + e.Block + ": " + e.Err.Error()
}

// Unwrap returns the error returned by the block.
func (e *RuntimeBlockError) Unwrap() error { return e.Err }

// Cause implements the causer interface from github.com/pkg/errors.
func (e *RuntimeBlockError) Cause() error { return e.Err }

// AccessError reports a signal access that an update block did not declare.
// It is only raised by circuits built with strict access checks.
type AccessError struct {
	Signal string
	Write  bool
}

func (e *AccessError) Error() string {
	if e.Write {
		return "undeclared write to " + e.Signal
	}
	return "undeclared read of " + e.Signal
}
