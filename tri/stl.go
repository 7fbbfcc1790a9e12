package tri

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/notargets/gotri/utils"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 12*4 + 2 // normal and three vertices as float32, attribute byte count
)

// WriteTriSTL writes an ASCII STL solid with one facet per triangle. Normals
// are written exactly as given; vertices are resolved from the node indices in
// triangle order.
func WriteTriSTL(w io.Writer, P utils.Matrix, T [][3]int, N utils.Matrix, name string) (err error) {
	if err = checkSTL(P, T, N); err != nil {
		return
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for k, t := range T {
		bw.WriteString("   facet normal ")
		writeFloatRow(bw, N.RowView(k))
		bw.WriteString("      outer loop\n")
		for _, n := range t {
			bw.WriteString("         vertex ")
			writeFloatRow(bw, P.RowView(n))
		}
		bw.WriteString("      endloop\n")
		bw.WriteString("   endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return flush(bw)
}

// WriteTriSTLBinary writes a little endian binary STL: an 80 byte header, the
// facet count, then a 50 byte record per triangle with float32 values.
func WriteTriSTLBinary(w io.Writer, P utils.Matrix, T [][3]int, N utils.Matrix, header string) (err error) {
	if err = checkSTL(P, T, N); err != nil {
		return
	}
	if int64(len(T)) > math.MaxUint32 {
		return dimensionError("%d triangles exceed the binary STL facet count", len(T))
	}
	var (
		bw  = bufio.NewWriter(w)
		hdr [stlHeaderSize + 4]byte
		rec [stlFacetSize]byte
	)
	for i := 0; i < stlHeaderSize; i++ {
		hdr[i] = ' '
	}
	copy(hdr[:stlHeaderSize], header)
	binary.LittleEndian.PutUint32(hdr[stlHeaderSize:], uint32(len(T)))
	bw.Write(hdr[:])
	put := func(off int, row []float64) {
		for i := 0; i < 3; i++ {
			binary.LittleEndian.PutUint32(rec[off+4*i:], math.Float32bits(float32(row[i])))
		}
	}
	for k, t := range T {
		put(0, N.RowView(k))
		for v, n := range t {
			put(12*(v+1), P.RowView(n))
		}
		bw.Write(rec[:])
	}
	return flush(bw)
}

func checkSTL(P utils.Matrix, T [][3]int, N utils.Matrix) (err error) {
	var nNode int
	if nNode, err = checkNodes(P); err != nil {
		return
	}
	if err = checkTris(T, nNode); err != nil {
		return
	}
	return checkRows("normal", N, len(T), 3)
}
