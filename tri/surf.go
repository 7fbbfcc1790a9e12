package tri

import (
	"bufio"
	"fmt"
	"io"

	"github.com/notargets/gotri/utils"
)

// Section keywords of the mixed element surface format, in file order.
const (
	SectionNodes          = "Nodes"
	SectionTriangles      = "Triangles"
	SectionTriComponents  = "TriangleComponents"
	SectionTriBCs         = "TriangleBCs"
	SectionQuads          = "Quads"
	SectionQuadComponents = "QuadComponents"
	SectionQuadBCs        = "QuadBCs"
)

// surfSections is the fixed block order; every block is always present.
var surfSections = []string{
	SectionNodes, SectionTriangles, SectionTriComponents, SectionTriBCs,
	SectionQuads, SectionQuadComponents, SectionQuadBCs,
}

// WriteSurf writes a mixed triangle/quad surface for volume mesh generation.
// Each block starts with a "<Keyword> <count>" line; quad blocks are written
// with a zero count when there are no quads, so readers never special case
// their absence.
func WriteSurf(w io.Writer, P utils.Matrix, T [][3]int, CT, BCT []int,
	Quads [][4]int, CQ, BCQ []int) (err error) {
	if err = checkSurf(P, T, CT, BCT, Quads, CQ, BCQ); err != nil {
		return
	}
	nNode, _ := P.Dims()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d\n", SectionNodes, nNode)
	writeNodeRows(bw, P)
	fmt.Fprintf(bw, "%s %d\n", SectionTriangles, len(T))
	writeTris(bw, T)
	fmt.Fprintf(bw, "%s %d\n", SectionTriComponents, len(CT))
	writeInts(bw, CT)
	fmt.Fprintf(bw, "%s %d\n", SectionTriBCs, len(BCT))
	writeInts(bw, BCT)
	fmt.Fprintf(bw, "%s %d\n", SectionQuads, len(Quads))
	for _, q := range Quads {
		fmt.Fprintf(bw, "%d %d %d %d\n", q[0]+1, q[1]+1, q[2]+1, q[3]+1)
	}
	fmt.Fprintf(bw, "%s %d\n", SectionQuadComponents, len(CQ))
	writeInts(bw, CQ)
	fmt.Fprintf(bw, "%s %d\n", SectionQuadBCs, len(BCQ))
	writeInts(bw, BCQ)
	return flush(bw)
}

// WriteAFLR3 writes an AFLR3 .surf file: a "nTri nQuad nNode" header, node
// lines "x y z blds bldel", triangle lines "n1 n2 n3 comp 0 bc" and quad lines
// "n1 n2 n3 n4 comp 0 bc". The zero column is the reconnection flag. Nil
// BLDS or BLDel are written as zeros.
func WriteAFLR3(w io.Writer, P utils.Matrix, BLDS, BLDel []float64, T [][3]int, CT, BCT []int,
	Quads [][4]int, CQ, BCQ []int) (err error) {
	if err = checkSurf(P, T, CT, BCT, Quads, CQ, BCQ); err != nil {
		return
	}
	nNode, _ := P.Dims()
	if BLDS != nil {
		if err = checkLength("boundary layer spacing", len(BLDS), nNode); err != nil {
			return
		}
	}
	if BLDel != nil {
		if err = checkLength("boundary layer thickness", len(BLDel), nNode); err != nil {
			return
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", len(T), len(Quads), nNode)
	row := make([]float64, 5)
	for i := 0; i < nNode; i++ {
		copy(row, P.RowView(i))
		row[3], row[4] = 0, 0
		if BLDS != nil {
			row[3] = BLDS[i]
		}
		if BLDel != nil {
			row[4] = BLDel[i]
		}
		writeFloatRow(bw, row)
	}
	for k, t := range T {
		fmt.Fprintf(bw, "%d %d %d %d 0 %d\n", t[0]+1, t[1]+1, t[2]+1, CT[k], BCT[k])
	}
	for k, q := range Quads {
		fmt.Fprintf(bw, "%d %d %d %d %d 0 %d\n", q[0]+1, q[1]+1, q[2]+1, q[3]+1, CQ[k], BCQ[k])
	}
	return flush(bw)
}

// checkSurf validates every tag vector against its element set, and every
// element against the node set, before anything is written.
func checkSurf(P utils.Matrix, T [][3]int, CT, BCT []int, Quads [][4]int, CQ, BCQ []int) (err error) {
	var nNode int
	if nNode, err = checkNodes(P); err != nil {
		return
	}
	lengths := []struct {
		name   string
		n, own int
	}{
		{"triangle component", len(CT), len(T)},
		{"triangle BC flag", len(BCT), len(T)},
		{"quad component", len(CQ), len(Quads)},
		{"quad BC flag", len(BCQ), len(Quads)},
	}
	for _, l := range lengths {
		if err = checkLength(l.name, l.n, l.own); err != nil {
			return
		}
	}
	if err = checkTris(T, nNode); err != nil {
		return
	}
	return checkQuads(Quads, nNode)
}
