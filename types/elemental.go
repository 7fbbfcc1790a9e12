package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey stores an edge's two vertex indices packed into one unsigned integer so
that the edge can be used as a map key regardless of traversal direction.
An edge between vertices [4] and [0] is always stored as [0,4].
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	i1, i2 := verts[0], verts[1]
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	packed = EdgeKey(uint64(i1) | uint64(i2)<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek & math.MaxUint32)
	verts[1] = int(ek >> 32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// EdgeUse counts how many faces reference each edge of a surface.
type EdgeUse map[EdgeKey]int

// AddFace registers every edge of a closed polygon given by its vertices.
func (eu EdgeUse) AddFace(verts ...int) {
	nv := len(verts)
	for i := 0; i < nv; i++ {
		eu[NewEdgeKey([2]int{verts[i], verts[(i+1)%nv]})]++
	}
}

// Open returns edges used by exactly one face, in ascending key order
func (eu EdgeUse) Open() (edges []EdgeKey) {
	return eu.filter(func(n int) bool { return n == 1 })
}

// NonManifold returns edges shared by more than two faces, in ascending key order
func (eu EdgeUse) NonManifold() (edges []EdgeKey) {
	return eu.filter(func(n int) bool { return n > 2 })
}

func (eu EdgeUse) filter(keep func(n int) bool) (edges []EdgeKey) {
	for ek, n := range eu {
		if keep(n) {
			edges = append(edges, ek)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	return
}
