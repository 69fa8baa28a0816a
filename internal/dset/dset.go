// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dset implements an index based disjoint-set forest.
package dset

import "sort"

// Set is a disjoint-set forest over the integers [0, n).
type Set struct {
	parent []int
	rank   []uint8
}

// New returns a new Set with n singleton elements.
func New(n int) *Set {
	s := &Set{
		parent: make([]int, n),
		rank:   make([]uint8, n),
	}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

// Len returns the number of elements in s.
func (s *Set) Len() int { return len(s.parent) }

// Find returns the representative of x's set.
func (s *Set) Find(x int) int {
	r := x
	for s.parent[r] != r {
		r = s.parent[r]
	}
	// path compression
	for s.parent[x] != r {
		x, s.parent[x] = s.parent[x], r
	}
	return r
}

// Union merges the sets containing x and y. It returns false if x and y were
// already in the same set.
func (s *Set) Union(x, y int) bool {
	rx, ry := s.Find(x), s.Find(y)
	if rx == ry {
		return false
	}
	switch {
	case s.rank[rx] < s.rank[ry]:
		s.parent[rx] = ry
	case s.rank[rx] > s.rank[ry]:
		s.parent[ry] = rx
	default:
		s.parent[ry] = rx
		s.rank[rx]++
	}
	return true
}

// Same reports whether x and y belong to the same set.
func (s *Set) Same(x, y int) bool { return s.Find(x) == s.Find(y) }

// Groups returns all sets with at least min members. Members of a group are
// sorted in ascending order and groups are sorted by their smallest member,
// so the result does not depend on the order of Union calls.
func (s *Set) Groups(min int) [][]int {
	byRoot := make(map[int][]int)
	for i := range s.parent {
		r := s.Find(i)
		byRoot[r] = append(byRoot[r], i)
	}
	var out [][]int
	for _, g := range byRoot {
		if len(g) >= min {
			out = append(out, g)
		}
	}
	// members are appended in ascending order already.
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
