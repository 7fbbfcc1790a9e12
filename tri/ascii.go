package tri

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/notargets/gotri/utils"
)

// FloatFormat is used for every floating point value in the ASCII formats.
// Seventeen significant digits reproduce any float64 exactly on re-read.
const FloatFormat = "%+.16E"

// WriteTri writes an ASCII Cart3D triangulation: a "nNode nTri" header, one
// line of coordinates per node, then one line of one based node indices per
// triangle.
func WriteTri(w io.Writer, P utils.Matrix, T [][3]int) (err error) {
	var nNode int
	if nNode, err = checkNodes(P); err != nil {
		return
	}
	if err = checkTris(T, nNode); err != nil {
		return
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", nNode, len(T))
	writeNodeRows(bw, P)
	writeTris(bw, T)
	return flush(bw)
}

// WriteCompID writes one component ID per line in triangle order, to follow
// the triangles of a triangulation with nTri elements.
func WriteCompID(w io.Writer, C []int, nTri int) (err error) {
	if err = checkLength("component", len(C), nTri); err != nil {
		return
	}
	bw := bufio.NewWriter(w)
	writeInts(bw, C)
	return flush(bw)
}

// AppendCompIDFile appends a component ID section to an existing ASCII tri
// file after checking len(C) against the triangle count in its header.
func AppendCompIDFile(fileName string, C []int) (err error) {
	var (
		file *os.File
		nTri int
	)
	if file, err = os.Open(fileName); err != nil {
		return ioError(err)
	}
	_, nTri, _, err = ReadTriHeader(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("unable to read header of %s: %w", fileName, err)
	}
	if err = checkLength("component", len(C), nTri); err != nil {
		return
	}
	if file, err = os.OpenFile(fileName, os.O_WRONLY|os.O_APPEND, 0); err != nil {
		return ioError(err)
	}
	if err = WriteCompID(file, C, nTri); err != nil {
		file.Close()
		return
	}
	return ioError(file.Close())
}

// WriteTriQ writes a .triq file: the triangulation with an "nNode nTri nq"
// header, its component IDs, then the nq state values of each node on one
// line, in node order.
func WriteTriQ(w io.Writer, P utils.Matrix, T [][3]int, C []int, Q utils.Matrix) (err error) {
	var nNode int
	if nNode, err = checkNodes(P); err != nil {
		return
	}
	if err = checkTris(T, nNode); err != nil {
		return
	}
	if err = checkLength("component", len(C), len(T)); err != nil {
		return
	}
	if err = checkRows("state", Q, nNode, -1); err != nil {
		return
	}
	_, nq := Q.Dims()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", nNode, len(T), nq)
	writeNodeRows(bw, P)
	writeTris(bw, T)
	writeInts(bw, C)
	writeNodeRows(bw, Q)
	return flush(bw)
}

func writeFloatRow(bw *bufio.Writer, row []float64) {
	for j, v := range row {
		if j != 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, FloatFormat, v)
	}
	bw.WriteByte('\n')
}

func writeNodeRows(bw *bufio.Writer, M utils.Matrix) {
	nr, _ := M.Dims()
	for i := 0; i < nr; i++ {
		writeFloatRow(bw, M.RowView(i))
	}
}

func writeTris(bw *bufio.Writer, T [][3]int) {
	for _, t := range T {
		fmt.Fprintf(bw, "%d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
}

func writeInts(bw *bufio.Writer, C []int) {
	for _, c := range C {
		fmt.Fprintf(bw, "%d\n", c)
	}
}

// flush surfaces the first error seen by the buffered writer, which keeps it
// and refuses further writes once one occurs.
func flush(bw *bufio.Writer) error {
	return ioError(bw.Flush())
}
