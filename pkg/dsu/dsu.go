// Package dsu implements a disjoint-set union (union-find) over
// non-negative integer elements.
//
// Elements are plain ints, so parent and rank live in slices rather than
// maps. Elements are inserted lazily: referencing an element the structure
// has not seen yet adds it (and every smaller missing element) as a
// singleton first.
//
//	d := dsu.New(4)        // {0} {1} {2} {3}
//	d.Union(0, 1)
//	d.Union(2, 3)
//	d.Count()              // 2
//	d.AreConnected(1, 0)   // true
//
// Find uses path compression and Union uses union by rank, giving
// amortized near-constant time per operation. A DSU is not safe for
// concurrent use.
package dsu

import (
	"fmt"
	"slices"
)

// DSU is a forest of disjoint sets over the elements 0..Len()-1.
type DSU struct {
	parent []int
	rank   []int
	count  int
}

// New returns a DSU seeded with the singletons 0..n-1.
func New(n int) *DSU {
	d := &DSU{}
	if n > 0 {
		d.grow(n)
	}
	return d
}

// grow adds singletons until the DSU holds n elements.
func (d *DSU) grow(n int) {
	for i := len(d.parent); i < n; i++ {
		d.parent = append(d.parent, i)
		d.rank = append(d.rank, 0)
		d.count++
	}
}

func (d *DSU) check(x int) {
	if x < 0 {
		panic(fmt.Sprintf("dsu: negative element %d", x))
	}
	if x >= len(d.parent) {
		d.grow(x + 1)
	}
}

// Len returns the number of elements inserted so far.
func (d *DSU) Len() int { return len(d.parent) }

// Count returns the number of disjoint sets.
func (d *DSU) Count() int { return d.count }

// MakeSet inserts x as a singleton and reports whether it was new.
// It panics if x is negative.
func (d *DSU) MakeSet(x int) bool {
	if x >= 0 && x < len(d.parent) {
		return false
	}
	d.check(x)
	return true
}

// Find returns the representative of the set containing x, inserting x
// first if needed. It panics if x is negative.
func (d *DSU) Find(x int) int {
	d.check(x)
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		x, d.parent[x] = d.parent[x], root
	}
	return root
}

// Union merges the sets containing x and y and reports whether they were
// distinct. It panics if either element is negative.
func (d *DSU) Union(x, y int) bool {
	rx, ry := d.Find(x), d.Find(y)
	if rx == ry {
		return false
	}
	switch {
	case d.rank[rx] < d.rank[ry]:
		d.parent[rx] = ry
	case d.rank[rx] > d.rank[ry]:
		d.parent[ry] = rx
	default:
		d.parent[ry] = rx
		d.rank[rx]++
	}
	d.count--
	return true
}

// UnionAll merges every element of xs into the set of xs[0].
func (d *DSU) UnionAll(xs []int) {
	for _, x := range xs[min(1, len(xs)):] {
		d.Union(xs[0], x)
	}
}

// AreConnected reports whether x and y are in the same set.
func (d *DSU) AreConnected(x, y int) bool {
	return d.Find(x) == d.Find(y)
}

// Groups returns the sets as a map from representative to members.
// Members are sorted ascending.
func (d *DSU) Groups() map[int][]int {
	groups := make(map[int][]int, d.count)
	for x := range d.parent {
		root := d.Find(x)
		groups[root] = append(groups[root], x)
	}
	for _, members := range groups {
		slices.Sort(members)
	}
	return groups
}
