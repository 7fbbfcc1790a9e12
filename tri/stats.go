package tri

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gotri/types"
	"github.com/notargets/gotri/utils"
)

// Stats summarizes the size and surface quality of a triangulation.
type Stats struct {
	NNode, NTri, NQuad, NQ int
	Components             []int
	MinValence, MaxValence int // elements touching a node, over referenced nodes
	OrphanNodes            int // nodes referenced by no element
	OpenEdges              int // edges used by a single element
	NonManifoldEdges       int // edges used by more than two elements
	DegenerateElements     int // elements naming one node at two corners
	BBoxMin, BBoxMax       [3]float64

	Open, NonManifold []types.EdgeKey // the edges counted above, ascending
}

// Stats validates the triangulation, then builds the element to node
// incidence matrix and the edge use table to summarize it.
func (tr *Triangulation) Stats() (st Stats, err error) {
	if err = tr.Validate(); err != nil {
		return
	}
	st = Stats{
		NNode:      tr.NNode(),
		NTri:       tr.NTri(),
		NQuad:      tr.NQuad(),
		NQ:         tr.NQ(),
		Components: tr.Components(),
	}
	for i := 0; i < 3; i++ {
		st.BBoxMin[i], st.BBoxMax[i] = math.Inf(1), math.Inf(-1)
	}
	for n := 0; n < st.NNode; n++ {
		for i, x := range tr.Nodes.RowView(n) {
			st.BBoxMin[i] = math.Min(st.BBoxMin[i], x)
			st.BBoxMax[i] = math.Max(st.BBoxMax[i], x)
		}
	}

	nElem := st.NTri + st.NQuad
	if nElem == 0 || st.NNode == 0 {
		st.OrphanNodes = st.NNode
		return
	}
	EToN := utils.NewDOK(nElem, st.NNode)
	eu := make(types.EdgeUse)
	for k, t := range tr.Tris {
		for _, n := range t {
			EToN.Set(k, n, 1)
		}
		eu.AddFace(t[:]...)
	}
	for k, q := range tr.Quads {
		for _, n := range q {
			EToN.Set(st.NTri+k, n, 1)
		}
		eu.AddFace(q[:]...)
	}
	CSR := EToN.ToCSR()
	for k, nc := range CSR.RowCounts() {
		corners := 3
		if k >= st.NTri {
			corners = 4
		}
		if nc < corners {
			st.DegenerateElements++
		}
	}
	valence := CSR.ColumnCounts()
	st.MinValence = math.MaxInt
	for _, v := range valence {
		if v == 0 {
			st.OrphanNodes++
			continue
		}
		st.MinValence = min(st.MinValence, v)
		st.MaxValence = max(st.MaxValence, v)
	}
	st.Open, st.NonManifold = eu.Open(), eu.NonManifold()
	st.OpenEdges, st.NonManifoldEdges = len(st.Open), len(st.NonManifold)
	return
}

func (st Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nodes: %d\n", st.NNode)
	fmt.Fprintf(&sb, "Triangles: %d\n", st.NTri)
	fmt.Fprintf(&sb, "Quads: %d\n", st.NQuad)
	if st.NQ > 0 {
		fmt.Fprintf(&sb, "States per node: %d\n", st.NQ)
	}
	fmt.Fprintf(&sb, "Components: %v\n", st.Components)
	if st.NNode > 0 {
		fmt.Fprintf(&sb, "Bounding box: [%g %g %g] to [%g %g %g]\n",
			st.BBoxMin[0], st.BBoxMin[1], st.BBoxMin[2], st.BBoxMax[0], st.BBoxMax[1], st.BBoxMax[2])
	}
	fmt.Fprintf(&sb, "Node valence: min %d, max %d\n", st.MinValence, st.MaxValence)
	fmt.Fprintf(&sb, "Orphan nodes: %d\n", st.OrphanNodes)
	fmt.Fprintf(&sb, "Open edges: %d\n", st.OpenEdges)
	fmt.Fprintf(&sb, "Non-manifold edges: %d\n", st.NonManifoldEdges)
	fmt.Fprintf(&sb, "Degenerate elements: %d\n", st.DegenerateElements)
	return sb.String()
}
