// Package tri serializes surface triangulations into the Cart3D family of
// interchange formats: ASCII .tri and .triq, Fortran record binary .tri in
// four width/endianness variants, mixed triangle/quad surface files for
// volume meshing, and stereolithography.
//
// Node indices are zero based in memory and one based in every file written.
// Every writer validates all of its inputs before the first byte is written.
package tri

import (
	"math"
	"sort"

	"github.com/notargets/gotri/utils"
)

// Triangulation gathers every array any of the encoders can consume. Only
// Nodes and Tris are required; the optional vectors are either nil or sized
// to their owning element or node set.
type Triangulation struct {
	Nodes  utils.Matrix // nNode x 3
	Tris   [][3]int
	CompID []int // per triangle
	BCFlag []int // per triangle

	Quads      [][4]int
	QuadCompID []int
	QuadBCFlag []int

	Q       utils.Matrix // nNode x nq state at each node
	Normals utils.Matrix // nTri x 3

	BLDS  []float64 // per node initial boundary layer spacing
	BLDel []float64 // per node boundary layer thickness

	Name      string         // STL solid name, UH3D title
	CompNames map[int]string // component name by ID, when the source names them
}

// NewTriangulation wraps node and triangle arrays.
func NewTriangulation(P utils.Matrix, T [][3]int) *Triangulation {
	return &Triangulation{Nodes: P, Tris: T}
}

func (tr *Triangulation) NNode() int {
	nr, _ := tr.Nodes.Dims()
	return nr
}

func (tr *Triangulation) NTri() int  { return len(tr.Tris) }
func (tr *Triangulation) NQuad() int { return len(tr.Quads) }

// NQ is the number of state variables carried per node.
func (tr *Triangulation) NQ() int {
	_, nc := tr.Q.Dims()
	return nc
}

// CheckTris returns an *IndexError for the first triangle corner outside the
// node set.
func (tr *Triangulation) CheckTris() error { return checkTris(tr.Tris, tr.NNode()) }

func (tr *Triangulation) CheckQuads() error { return checkQuads(tr.Quads, tr.NNode()) }

// Validate checks every populated array against the counts it depends on.
func (tr *Triangulation) Validate() (err error) {
	var nNode int
	if nNode, err = checkNodes(tr.Nodes); err != nil {
		return
	}
	if err = tr.CheckTris(); err != nil {
		return
	}
	if err = tr.CheckQuads(); err != nil {
		return
	}
	nTri, nQuad := tr.NTri(), tr.NQuad()
	optional := []struct {
		name string
		n    int
		set  bool
		want int
	}{
		{"triangle component", len(tr.CompID), tr.CompID != nil, nTri},
		{"triangle BC flag", len(tr.BCFlag), tr.BCFlag != nil, nTri},
		{"quad component", len(tr.QuadCompID), tr.QuadCompID != nil, nQuad},
		{"quad BC flag", len(tr.QuadBCFlag), tr.QuadBCFlag != nil, nQuad},
		{"boundary layer spacing", len(tr.BLDS), tr.BLDS != nil, nNode},
		{"boundary layer thickness", len(tr.BLDel), tr.BLDel != nil, nNode},
	}
	for _, o := range optional {
		if o.set {
			if err = checkLength(o.name, o.n, o.want); err != nil {
				return
			}
		}
	}
	if !tr.Q.IsEmpty() {
		if err = checkRows("state", tr.Q, nNode, -1); err != nil {
			return
		}
	}
	if !tr.Normals.IsEmpty() {
		if err = checkRows("normal", tr.Normals, nTri, 3); err != nil {
			return
		}
	}
	return
}

// TriNormals computes the unit normal of every triangle from its right handed
// vertex ordering. Degenerate triangles get a zero normal. Large surfaces are
// split over goroutines, each filling its own rows.
func (tr *Triangulation) TriNormals() (N utils.Matrix) {
	nTri := tr.NTri()
	N = utils.NewMatrix(nTri, 3)
	if nTri == 0 {
		return
	}
	pm := utils.NewPartitionMap(utils.ParallelDegree(nTri, 4096), nTri)
	pm.Run(func(_, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			tr.triNormal(tr.Tris[k], N.RowView(k))
		}
	})
	return
}

func (tr *Triangulation) triNormal(t [3]int, n []float64) {
	p0, p1, p2 := tr.Nodes.RowView(t[0]), tr.Nodes.RowView(t[1]), tr.Nodes.RowView(t[2])
	var a, b [3]float64
	for i := 0; i < 3; i++ {
		a[i], b[i] = p1[i]-p0[i], p2[i]-p0[i]
	}
	n[0] = a[1]*b[2] - a[2]*b[1]
	n[1] = a[2]*b[0] - a[0]*b[2]
	n[2] = a[0]*b[1] - a[1]*b[0]
	mag := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if mag == 0 {
		n[0], n[1], n[2] = 0, 0, 0
		return
	}
	for i := range n {
		n[i] /= mag
	}
}

// RemoveOrphans drops the nodes no element references, renumbering the
// elements and compacting the per node arrays to match. Element indices must
// already be valid. It returns the number of nodes removed.
func (tr *Triangulation) RemoveOrphans() (removed int) {
	var (
		nNode    = tr.NNode()
		used     = make([]bool, nNode)
		newIndex = make([]int, nNode)
		kept     int
	)
	for _, t := range tr.Tris {
		for _, n := range t {
			used[n] = true
		}
	}
	for _, q := range tr.Quads {
		for _, n := range q {
			used[n] = true
		}
	}
	for i, u := range used {
		newIndex[i] = -1
		if u {
			newIndex[i] = kept
			kept++
		}
	}
	if removed = nNode - kept; removed == 0 {
		return
	}
	compactRows := func(M utils.Matrix) utils.Matrix {
		if M.IsEmpty() {
			return M
		}
		_, nc := M.Dims()
		R := utils.NewMatrix(kept, nc)
		for i, ni := range newIndex {
			if ni >= 0 {
				R.SetRow(ni, M.RowView(i))
			}
		}
		return R
	}
	compact := func(v []float64) []float64 {
		if v == nil {
			return nil
		}
		r := make([]float64, kept)
		for i, ni := range newIndex {
			if ni >= 0 {
				r[ni] = v[i]
			}
		}
		return r
	}
	tr.Nodes, tr.Q = compactRows(tr.Nodes), compactRows(tr.Q)
	tr.BLDS, tr.BLDel = compact(tr.BLDS), compact(tr.BLDel)
	for k := range tr.Tris {
		for c, n := range tr.Tris[k] {
			tr.Tris[k][c] = newIndex[n]
		}
	}
	for k := range tr.Quads {
		for c, n := range tr.Quads[k] {
			tr.Quads[k][c] = newIndex[n]
		}
	}
	return
}

// ApplyBCMap sets the BC flag of every triangle and quad from its component
// ID, using defaultFlag for components missing from the map. Component IDs
// that were never assigned are treated as component 1.
func (tr *Triangulation) ApplyBCMap(bcs map[int]int, defaultFlag int) {
	lookup := func(comp int) int {
		if f, ok := bcs[comp]; ok {
			return f
		}
		return defaultFlag
	}
	tr.BCFlag = make([]int, tr.NTri())
	for k, c := range tr.TriCompIDs() {
		tr.BCFlag[k] = lookup(c)
	}
	tr.QuadBCFlag = make([]int, tr.NQuad())
	for k, c := range tr.QuadCompIDs() {
		tr.QuadBCFlag[k] = lookup(c)
	}
}

// TriCompIDs returns CompID, or a vector of ones when none were assigned.
func (tr *Triangulation) TriCompIDs() []int {
	if tr.CompID != nil {
		return tr.CompID
	}
	return constInts(tr.NTri(), 1)
}

// QuadCompIDs returns QuadCompID, or a vector of ones when none were assigned.
func (tr *Triangulation) QuadCompIDs() []int {
	if tr.QuadCompID != nil {
		return tr.QuadCompID
	}
	return constInts(tr.NQuad(), 1)
}

// TriBCFlags returns BCFlag, or zeros when none were assigned.
func (tr *Triangulation) TriBCFlags() []int {
	if tr.BCFlag != nil {
		return tr.BCFlag
	}
	return constInts(tr.NTri(), 0)
}

// QuadBCFlags returns QuadBCFlag, or zeros when none were assigned.
func (tr *Triangulation) QuadBCFlags() []int {
	if tr.QuadBCFlag != nil {
		return tr.QuadBCFlag
	}
	return constInts(tr.NQuad(), 0)
}

// Components lists the distinct component IDs of all elements, ascending.
func (tr *Triangulation) Components() (comps []int) {
	seen := make(map[int]struct{})
	for _, c := range tr.TriCompIDs() {
		seen[c] = struct{}{}
	}
	for _, c := range tr.QuadCompIDs() {
		seen[c] = struct{}{}
	}
	comps = make([]int, 0, len(seen))
	for c := range seen {
		comps = append(comps, c)
	}
	sort.Ints(comps)
	return
}

func constInts(n, val int) (v []int) {
	v = make([]int, n)
	if val != 0 {
		for i := range v {
			v[i] = val
		}
	}
	return
}

func checkNodes(P utils.Matrix) (nNode int, err error) {
	nr, nc := P.Dims()
	if nr > 0 && nc != 3 {
		err = dimensionError("node matrix has %d columns, expected 3", nc)
		return
	}
	return nr, nil
}

func checkCorners(kind string, k int, corners []int, nNode int) error {
	for c, n := range corners {
		if n < 0 || n >= nNode {
			return &IndexError{Element: kind, Number: k, Corner: c, Node: n, NNode: nNode}
		}
	}
	return nil
}

func checkTris(T [][3]int, nNode int) error {
	for k := range T {
		if err := checkCorners("triangle", k, T[k][:], nNode); err != nil {
			return err
		}
	}
	return nil
}

func checkQuads(Q [][4]int, nNode int) error {
	for k := range Q {
		if err := checkCorners("quad", k, Q[k][:], nNode); err != nil {
			return err
		}
	}
	return nil
}

func checkLength(name string, n, want int) error {
	if n != want {
		return dimensionError("%s vector has length %d, expected %d", name, n, want)
	}
	return nil
}

// checkRows verifies the row count of M, and its column count when wantCols >= 0.
func checkRows(name string, M utils.Matrix, wantRows, wantCols int) error {
	nr, nc := M.Dims()
	if nr != wantRows {
		return dimensionError("%s matrix has %d rows, expected %d", name, nr, wantRows)
	}
	if wantCols >= 0 && nr > 0 && nc != wantCols {
		return dimensionError("%s matrix has %d columns, expected %d", name, nc, wantCols)
	}
	return nil
}
