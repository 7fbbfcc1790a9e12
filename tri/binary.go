package tri

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/notargets/gotri/utils"
)

// BinaryFormat selects the float width and byte order of a record binary
// triangulation. Integers (counts, node indices, component IDs and the record
// length markers) are always 4 byte signed integers in the same byte order.
type BinaryFormat struct {
	Name  string
	Width int // bytes per float, 4 or 8
	Order binary.ByteOrder
}

var (
	B4  = BinaryFormat{Name: "b4", Width: 4, Order: binary.BigEndian}
	LB4 = BinaryFormat{Name: "lb4", Width: 4, Order: binary.LittleEndian}
	B8  = BinaryFormat{Name: "b8", Width: 8, Order: binary.BigEndian}
	LB8 = BinaryFormat{Name: "lb8", Width: 8, Order: binary.LittleEndian}
)

var BinaryFormats = []BinaryFormat{B4, LB4, B8, LB8}

func ParseBinaryFormat(name string) (bf BinaryFormat, err error) {
	for _, f := range BinaryFormats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	err = fmt.Errorf("unknown binary format: [%s], should be one of b4, lb4, b8, lb8", name)
	return
}

func (bf BinaryFormat) String() string { return bf.Name }

func (bf BinaryFormat) check() error {
	if bf.Width != 4 && bf.Width != 8 {
		return fmt.Errorf("binary float width must be 4 or 8, have %d", bf.Width)
	}
	if bf.Order == nil {
		return fmt.Errorf("binary format %q has no byte order", bf.Name)
	}
	return nil
}

// WriteTriBinary writes the triangulation as Fortran unformatted sequential
// records, each framed by its payload byte length:
//
//	[8]      nNode nTri        [8]
//	[3*nNode*width] x y z ...  [3*nNode*width]
//	[12*nTri] n1 n2 n3 ...     [12*nTri]
//	[4*nTri]  comp ...         [4*nTri]   (only when C is not nil)
//
// Node indices are one based.
func WriteTriBinary(w io.Writer, P utils.Matrix, T [][3]int, C []int, bf BinaryFormat) (err error) {
	var nNode int
	if err = bf.check(); err != nil {
		return
	}
	if nNode, err = checkNodes(P); err != nil {
		return
	}
	if err = checkTris(T, nNode); err != nil {
		return
	}
	if C != nil {
		if err = checkLength("component", len(C), len(T)); err != nil {
			return
		}
	}
	nTri := len(T)
	if int64(3*nNode*bf.Width) > math.MaxInt32 || int64(3*nTri*4) > math.MaxInt32 {
		return dimensionError("%d nodes and %d triangles exceed the 4 byte record length", nNode, nTri)
	}
	for _, c := range C {
		if int64(c) > math.MaxInt32 || int64(c) < math.MinInt32 {
			return dimensionError("component ID %d does not fit a 4 byte integer", c)
		}
	}
	rw := newRecordWriter(w, bf)
	rw.begin(8)
	rw.int32(nNode)
	rw.int32(nTri)
	rw.end(8)

	rw.begin(3 * nNode * bf.Width)
	for i := 0; i < nNode; i++ {
		for _, x := range P.RowView(i) {
			rw.float(x)
		}
	}
	rw.end(3 * nNode * bf.Width)

	rw.begin(3 * nTri * 4)
	for _, t := range T {
		rw.int32(t[0] + 1)
		rw.int32(t[1] + 1)
		rw.int32(t[2] + 1)
	}
	rw.end(3 * nTri * 4)

	if C != nil {
		rw.begin(nTri * 4)
		for _, c := range C {
			rw.int32(c)
		}
		rw.end(nTri * 4)
	}
	return flush(rw.bw)
}

func WriteTriB4(w io.Writer, P utils.Matrix, T [][3]int) error {
	return WriteTriBinary(w, P, T, nil, B4)
}

func WriteTriLB4(w io.Writer, P utils.Matrix, T [][3]int) error {
	return WriteTriBinary(w, P, T, nil, LB4)
}

func WriteTriB8(w io.Writer, P utils.Matrix, T [][3]int) error {
	return WriteTriBinary(w, P, T, nil, B8)
}

func WriteTriLB8(w io.Writer, P utils.Matrix, T [][3]int) error {
	return WriteTriBinary(w, P, T, nil, LB8)
}

type recordWriter struct {
	bw      *bufio.Writer
	bf      BinaryFormat
	scratch [8]byte
}

func newRecordWriter(w io.Writer, bf BinaryFormat) *recordWriter {
	return &recordWriter{bw: bufio.NewWriter(w), bf: bf}
}

func (rw *recordWriter) begin(nBytes int) { rw.int32(nBytes) }
func (rw *recordWriter) end(nBytes int)   { rw.int32(nBytes) }

func (rw *recordWriter) int32(v int) {
	rw.bf.Order.PutUint32(rw.scratch[:4], uint32(int32(v)))
	rw.bw.Write(rw.scratch[:4])
}

func (rw *recordWriter) float(v float64) {
	if rw.bf.Width == 4 {
		rw.bf.Order.PutUint32(rw.scratch[:4], math.Float32bits(float32(v)))
		rw.bw.Write(rw.scratch[:4])
		return
	}
	rw.bf.Order.PutUint64(rw.scratch[:8], math.Float64bits(v))
	rw.bw.Write(rw.scratch[:8])
}
