package tri

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gotri/utils"
)

// unitSquare is four nodes in the z=0 plane split into two triangles
func unitSquare() *Triangulation {
	P := utils.NewMatrix(4, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	})
	return NewTriangulation(P, [][3]int{{0, 1, 2}, {0, 2, 3}})
}

func TestWriteTri(t *testing.T) {
	tr := unitSquare()
	{ // Exact layout
		var buf bytes.Buffer
		require.NoError(t, WriteTri(&buf, tr.Nodes, tr.Tris))
		zero, one := "+0.0000000000000000E+00", "+1.0000000000000000E+00"
		expected := strings.Join([]string{
			"4 2",
			zero + " " + zero + " " + zero,
			one + " " + zero + " " + zero,
			one + " " + one + " " + zero,
			zero + " " + one + " " + zero,
			"1 2 3",
			"1 3 4",
		}, "\n") + "\n"
		assert.Equal(t, expected, buf.String())
	}
	{ // Round trip of awkward values
		P := utils.NewMatrix(3, 3, []float64{
			0.1, -2.0 / 3.0, 1e-300,
			123456789.123456789, -0.0, 7,
			3.141592653589793, 2.718281828459045, -1e22,
		})
		T := [][3]int{{2, 0, 1}}
		var buf bytes.Buffer
		require.NoError(t, WriteTri(&buf, P, T))
		got, err := ReadTri(&buf)
		require.NoError(t, err)
		assert.Equal(t, P.Data(), got.Nodes.Data())
		assert.Equal(t, T, got.Tris)
		assert.Nil(t, got.CompID)
	}
	{ // Empty triangulation
		var buf bytes.Buffer
		require.NoError(t, WriteTri(&buf, utils.NewMatrix(0, 3), nil))
		assert.Equal(t, "0 0\n", buf.String())
	}
}

func TestIndexValidation(t *testing.T) {
	tr := unitSquare()
	bad := [][3]int{{0, 1, 2}, {0, 4, 3}}
	{
		var buf bytes.Buffer
		err := WriteTri(&buf, tr.Nodes, bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, IndexError{Element: "triangle", Number: 1, Corner: 1, Node: 4, NNode: 4}, *ie)
		assert.Zero(t, buf.Len())
	}
	{ // Negative index
		err := WriteTri(&bytes.Buffer{}, tr.Nodes, [][3]int{{-1, 0, 1}})
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	}
	{ // Through the file sink nothing is created
		fileName := filepath.Join(t.TempDir(), "bad.tri")
		err := WriteFile(fileName, func(w io.Writer) error { return WriteTri(w, tr.Nodes, bad) })
		require.Error(t, err)
		_, statErr := os.Stat(fileName)
		assert.True(t, os.IsNotExist(statErr))
		entries, _ := os.ReadDir(filepath.Dir(fileName))
		assert.Empty(t, entries)
	}
	{ // An existing file is left as it was
		fileName := filepath.Join(t.TempDir(), "keep.tri")
		require.NoError(t, os.WriteFile(fileName, []byte("previous\n"), 0644))
		err := WriteFile(fileName, func(w io.Writer) error { return WriteTri(w, tr.Nodes, bad) })
		require.Error(t, err)
		data, _ := os.ReadFile(fileName)
		assert.Equal(t, "previous\n", string(data))
	}
	{ // Wrong coordinate count per node
		err := WriteTri(&bytes.Buffer{}, utils.NewMatrix(2, 2), nil)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
}

func TestCompID(t *testing.T) {
	tr := unitSquare()
	{
		var buf bytes.Buffer
		require.NoError(t, WriteCompID(&buf, []int{3, 7}, 2))
		assert.Equal(t, "3\n7\n", buf.String())
		err := WriteCompID(&buf, []int{3}, 2)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{ // Append to a written file, checked against its header
		fileName := filepath.Join(t.TempDir(), "Components.pyCart.tri")
		require.NoError(t, WriteFile(fileName, func(w io.Writer) error {
			return WriteTri(w, tr.Nodes, tr.Tris)
		}))
		before, _ := os.ReadFile(fileName)
		err := AppendCompIDFile(fileName, []int{1, 2, 3})
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		after, _ := os.ReadFile(fileName)
		assert.Equal(t, before, after)

		require.NoError(t, AppendCompIDFile(fileName, []int{11, 12}))
		file, err := os.Open(fileName)
		require.NoError(t, err)
		defer file.Close()
		got, err := ReadTri(file)
		require.NoError(t, err)
		assert.Equal(t, []int{11, 12}, got.CompID)
		assert.Equal(t, tr.Tris, got.Tris)
	}
	{
		err := AppendCompIDFile(filepath.Join(t.TempDir(), "missing.tri"), []int{1})
		assert.True(t, errors.Is(err, ErrIO))
	}
}

func TestWriteTriQ(t *testing.T) {
	tr := unitSquare()
	Q := utils.NewMatrix(4, 2, []float64{
		1.0, 10,
		1.1, 11,
		1.2, 12,
		1.3, 13,
	})
	C := []int{5, 6}
	{
		var buf bytes.Buffer
		require.NoError(t, WriteTriQ(&buf, tr.Nodes, tr.Tris, C, Q))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Equal(t, "4 2 2", lines[0])
		// header, nodes, triangles, components, then one state line per node
		require.Len(t, lines, 1+4+2+2+4)
		got, err := ReadTri(strings.NewReader(buf.String()))
		require.NoError(t, err)
		assert.Equal(t, C, got.CompID)
		for i := 0; i < 4; i++ {
			assert.Equal(t, Q.Row(i), got.Q.Row(i))
		}
	}
	{
		var buf bytes.Buffer
		err := WriteTriQ(&buf, tr.Nodes, tr.Tris, C, utils.NewMatrix(3, 2))
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		err = WriteTriQ(&buf, tr.Nodes, tr.Tris, []int{1}, Q)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
		assert.Zero(t, buf.Len())
	}
}

func TestWriteSurf(t *testing.T) {
	tr := unitSquare()
	CT, BCT := []int{1, 2}, []int{-1, 2}
	{ // No quads: the quad sections are present with zero counts
		var buf bytes.Buffer
		require.NoError(t, WriteSurf(&buf, tr.Nodes, tr.Tris, CT, BCT, nil, nil, nil))
		out := buf.String()
		for _, marker := range []string{"Nodes 4\n", "Triangles 2\n", "TriangleComponents 2\n",
			"TriangleBCs 2\n", "Quads 0\n", "QuadComponents 0\n", "QuadBCs 0\n"} {
			assert.Contains(t, out, marker)
		}
		assert.True(t, strings.HasSuffix(out, "Quads 0\nQuadComponents 0\nQuadBCs 0\n"))
		got, err := ReadSurf(strings.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, tr.Tris, got.Tris)
		assert.Equal(t, CT, got.CompID)
		assert.Equal(t, BCT, got.BCFlag)
		assert.Equal(t, 0, got.NQuad())
	}
	{ // Mixed elements
		P := utils.NewMatrix(6, 3, []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
			2, 0, 0,
			2, 1, 0,
		})
		Quads := [][4]int{{1, 4, 5, 2}}
		var buf bytes.Buffer
		require.NoError(t, WriteSurf(&buf, P, tr.Tris, CT, BCT, Quads, []int{9}, []int{3}))
		assert.Contains(t, buf.String(), "Quads 1\n2 5 6 3\nQuadComponents 1\n9\nQuadBCs 1\n3\n")
		got, err := ReadSurf(&buf)
		require.NoError(t, err)
		assert.Equal(t, Quads, got.Quads)
		assert.Equal(t, []int{9}, got.QuadCompID)
		assert.Equal(t, []int{3}, got.QuadBCFlag)
	}
	{ // Every tag vector is checked before anything is written
		cases := []struct {
			CT, BCT, CQ, BCQ []int
		}{
			{[]int{1}, BCT, nil, nil},
			{CT, []int{1, 2, 3}, nil, nil},
			{CT, BCT, []int{1}, nil},
			{CT, BCT, nil, []int{4}},
		}
		for _, c := range cases {
			var buf bytes.Buffer
			err := WriteSurf(&buf, tr.Nodes, tr.Tris, c.CT, c.BCT, nil, c.CQ, c.BCQ)
			assert.True(t, errors.Is(err, ErrDimensionMismatch))
			assert.Zero(t, buf.Len())
		}
		var buf bytes.Buffer
		err := WriteSurf(&buf, tr.Nodes, tr.Tris, CT, BCT, [][4]int{{0, 1, 2, 9}}, []int{1}, []int{1})
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		assert.Zero(t, buf.Len())
	}
}

func TestWriteAFLR3(t *testing.T) {
	tr := unitSquare()
	BLDS := []float64{1e-5, 1e-5, 2e-5, 2e-5}
	var buf bytes.Buffer
	require.NoError(t, WriteAFLR3(&buf, tr.Nodes, BLDS, nil, tr.Tris, []int{1, 2}, []int{-1, -1},
		[][4]int{{0, 1, 2, 3}}, []int{3}, []int{2}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+4+2+1)
	assert.Equal(t, "2 1 4", lines[0])
	assert.Equal(t, "1 2 3 1 0 -1", lines[5])
	assert.Equal(t, "1 2 3 4 3 0 2", lines[7])
	got, err := ReadAFLR3(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, tr.Nodes.Data(), got.Nodes.Data())
	assert.Equal(t, BLDS, got.BLDS)
	assert.Equal(t, []float64{0, 0, 0, 0}, got.BLDel)
	assert.Equal(t, []int{3}, got.QuadCompID)

	err = WriteAFLR3(&bytes.Buffer{}, tr.Nodes, BLDS[:2], nil, tr.Tris, []int{1, 2}, []int{-1, -1}, nil, nil, nil)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestWriteUH3D(t *testing.T) {
	tr := unitSquare()
	var (
		buf   bytes.Buffer
		zero  = "+0.0000000000000000E+00"
		one   = "+1.0000000000000000E+00"
		names = map[int]string{1: "wing"}
	)
	require.NoError(t, WriteUH3D(&buf, tr.Nodes, tr.Tris, []int{1, 2}, names, "part"))
	assert.Equal(t, "part\n"+
		"4, 4, 2, 2, 2, 2\n"+
		"1, "+zero+", "+zero+", "+zero+"\n"+
		"2, "+one+", "+zero+", "+zero+"\n"+
		"3, "+one+", "+one+", "+zero+"\n"+
		"4, "+zero+", "+one+", "+zero+"\n"+
		"1, 1, 2, 3, 1\n"+
		"2, 1, 3, 4, 2\n"+
		"1, wing\n"+
		"2, 2\n"+
		UH3DEnd+"\n", buf.String())

	buf.Reset()
	err := WriteUH3D(&buf, tr.Nodes, [][3]int{{0, 1, 9}}, []int{1}, nil, "part")
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	err = WriteUH3D(&buf, tr.Nodes, tr.Tris, []int{1}, nil, "part")
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Error(t, WriteUH3D(&buf, tr.Nodes, tr.Tris, []int{1, 1}, map[int]string{1: "a\nb"}, "part"))
	assert.Error(t, WriteUH3D(&buf, tr.Nodes, tr.Tris, []int{1, 1}, nil, "two\nlines"))
	assert.Zero(t, buf.Len())
}

func TestWriteTriSTL(t *testing.T) {
	P := utils.NewMatrix(4, 3, []float64{
		9, 9, 9,
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	})
	T := [][3]int{{3, 1, 2}}
	N := utils.NewMatrix(1, 3, []float64{0, 0, 2}) // not unit length, written as given
	{
		var buf bytes.Buffer
		require.NoError(t, WriteTriSTL(&buf, P, T, N, "part"))
		out := buf.String()
		assert.Equal(t, 1, strings.Count(out, "facet normal"))
		assert.True(t, strings.HasPrefix(out, "solid part\n"))
		assert.True(t, strings.HasSuffix(out, "endsolid part\n"))
		var (
			normal   []string
			vertices [][]string
		)
		for _, line := range strings.Split(out, "\n") {
			fields := strings.Fields(line)
			switch {
			case len(fields) == 5 && fields[0] == "facet":
				normal = fields[2:]
			case len(fields) == 4 && fields[0] == "vertex":
				vertices = append(vertices, fields[1:])
			}
		}
		assert.Equal(t, []string{"+0.0000000000000000E+00", "+0.0000000000000000E+00", "+2.0000000000000000E+00"}, normal)
		require.Len(t, vertices, 3)
		zero, one := "+0.0000000000000000E+00", "+1.0000000000000000E+00"
		assert.Equal(t, []string{zero, one, zero}, vertices[0])
		assert.Equal(t, []string{zero, zero, zero}, vertices[1])
		assert.Equal(t, []string{one, zero, zero}, vertices[2])
	}
	{
		err := WriteTriSTL(&bytes.Buffer{}, P, T, utils.NewMatrix(2, 3), "part")
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{
		var buf bytes.Buffer
		require.NoError(t, WriteTriSTLBinary(&buf, P, T, N, "part"))
		b := buf.Bytes()
		require.Equal(t, stlHeaderSize+4+stlFacetSize, len(b))
		assert.Equal(t, "part", strings.TrimRight(string(b[:stlHeaderSize]), " \x00"))
		assert.Equal(t, []byte{1, 0, 0, 0}, b[stlHeaderSize:stlHeaderSize+4])
		facet := b[stlHeaderSize+4:]
		f32 := func(i int) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(facet[4*i:])))
		}
		assert.Equal(t, []float64{0, 0, 2}, []float64{f32(0), f32(1), f32(2)})
		for c := 0; c < 3; c++ {
			want := P.RowView(T[0][c])
			assert.Equal(t, want, []float64{f32(3 + 3*c), f32(4 + 3*c), f32(5 + 3*c)}, "vertex %d", c)
		}
		assert.Equal(t, []byte{0, 0}, facet[48:50])
	}
	{ // Corner indices outside the node set are rejected before writing
		bad := [][3]int{{1, 2, 4}}
		var buf bytes.Buffer
		err := WriteTriSTL(&buf, P, bad, N, "part")
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		err = WriteTriSTLBinary(&buf, P, bad, N, "part")
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
		assert.Zero(t, buf.Len())
	}
}

func TestBinaryVariants(t *testing.T) {
	tr := unitSquare()
	C := []int{4, 5}
	for _, bf := range BinaryFormats {
		t.Run(bf.Name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTriBinary(&buf, tr.Nodes, tr.Tris, C, bf))
			b := buf.Bytes()
			// header record, coordinate record, connectivity record, component record
			expectedLen := (4 + 8 + 4) + (4 + 12*bf.Width + 4) + (4 + 24 + 4) + (4 + 8 + 4)
			require.Len(t, b, expectedLen)
			assert.Equal(t, uint32(8), bf.Order.Uint32(b[0:]))
			assert.Equal(t, uint32(4), bf.Order.Uint32(b[4:]))
			assert.Equal(t, uint32(2), bf.Order.Uint32(b[8:]))
			assert.Equal(t, uint32(12*bf.Width), bf.Order.Uint32(b[16:]))
			// The first connectivity index is one based
			triStart := 16 + 4 + 12*bf.Width + 4
			assert.Equal(t, uint32(24), bf.Order.Uint32(b[triStart:]))
			assert.Equal(t, uint32(1), bf.Order.Uint32(b[triStart+4:]))

			got, err := ReadTriBinary(bytes.NewReader(b), bf)
			require.NoError(t, err)
			assert.Equal(t, tr.Nodes.Data(), got.Nodes.Data())
			assert.Equal(t, tr.Tris, got.Tris)
			assert.Equal(t, C, got.CompID)
		})
	}
	{ // Byte order differs between the two axes
		var be, le bytes.Buffer
		require.NoError(t, WriteTriB8(&be, tr.Nodes, tr.Tris))
		require.NoError(t, WriteTriLB8(&le, tr.Nodes, tr.Tris))
		assert.Equal(t, []byte{0, 0, 0, 8}, be.Bytes()[:4])
		assert.Equal(t, []byte{8, 0, 0, 0}, le.Bytes()[:4])
		got, err := ReadTriBinary(&le, LB8)
		require.NoError(t, err)
		assert.Nil(t, got.CompID)
	}
	{ // Single precision rounds the coordinates
		P := utils.NewMatrix(3, 3, []float64{0.1, 0, 0, 0, 0.1, 0, 0, 0, 0.1})
		var b4, lb4 bytes.Buffer
		require.NoError(t, WriteTriB4(&b4, P, [][3]int{{0, 1, 2}}))
		require.NoError(t, WriteTriLB4(&lb4, P, [][3]int{{0, 1, 2}}))
		for _, c := range []struct {
			buf *bytes.Buffer
			bf  BinaryFormat
		}{{&b4, B4}, {&lb4, LB4}} {
			got, err := ReadTriBinary(c.buf, c.bf)
			require.NoError(t, err)
			assert.Equal(t, float64(float32(0.1)), got.Nodes.At(0, 0))
		}
	}
	{
		_, err := ParseBinaryFormat("r8")
		assert.Error(t, err)
		bf, err := ParseBinaryFormat("LB4")
		require.NoError(t, err)
		assert.Equal(t, LB4, bf)
		err = WriteTriBinary(&bytes.Buffer{}, tr.Nodes, tr.Tris, nil, BinaryFormat{Name: "x", Width: 2})
		assert.Error(t, err)
	}
	{ // Corner indices outside the node set are rejected before writing
		var buf bytes.Buffer
		for _, bf := range BinaryFormats {
			err := WriteTriBinary(&buf, tr.Nodes, [][3]int{{0, 1, 4}}, nil, bf)
			assert.True(t, errors.Is(err, ErrIndexOutOfRange), bf.Name)
			err = WriteTriBinary(&buf, tr.Nodes, [][3]int{{-1, 1, 2}}, nil, bf)
			assert.True(t, errors.Is(err, ErrIndexOutOfRange), bf.Name)
		}
		assert.Zero(t, buf.Len())
	}
}

func TestReadMalformedCounts(t *testing.T) {
	{ // Negative and overflowing counts in the ASCII formats
		_, err := ReadSurf(strings.NewReader("Nodes -1\n"))
		assert.Error(t, err)
		_, err = ReadAFLR3(strings.NewReader("0 0 -1\n"))
		assert.Error(t, err)
		_, err = ReadAFLR3(strings.NewReader("-2 0 0\n"))
		assert.Error(t, err)
		_, err = ReadTri(strings.NewReader("4611686018427387904 0\n"))
		assert.Error(t, err)
		_, err = ReadTri(strings.NewReader("1 0 4611686018427387904\n0 0 0\n"))
		assert.Error(t, err)
	}
	{ // Large counts with no data behind them end in an error, not an allocation
		_, err := ReadTri(strings.NewReader("100000000 100000000\n0 0 0\n"))
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		_, err = ReadAFLR3(strings.NewReader("100000000 0 100000000\n"))
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
		_, err = ReadSurf(strings.NewReader("Nodes 100000000\n1 2 3\n"))
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	}
	header := func(bf BinaryFormat, nNode, nTri uint32) *bytes.Buffer {
		var buf bytes.Buffer
		for _, v := range []uint32{8, nNode, nTri, 8} {
			b := make([]byte, 4)
			bf.Order.PutUint32(b, v)
			buf.Write(b)
		}
		return &buf
	}
	{ // A binary header claiming 2^28 nodes with no coordinate record
		_, err := ReadTriBinary(header(LB8, 1<<28, 0), LB8)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF))
	}
	{ // A coordinate record marker that disagrees with the header count
		buf := header(B4, 1<<28, 0)
		marker := make([]byte, 4)
		B4.Order.PutUint32(marker, 12)
		buf.Write(marker)
		_, err := ReadTriBinary(buf, B4)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{ // A record marker larger than the data behind it
		buf := header(LB4, 1<<20, 0)
		marker := make([]byte, 4)
		LB4.Order.PutUint32(marker, 12<<20)
		buf.Write(marker)
		buf.Write(make([]byte, 64))
		_, err := ReadTriBinary(buf, LB4)
		assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	}
	{ // Negative binary counts
		_, err := ReadTriBinary(header(LB8, 0xFFFFFFFF, 0), LB8)
		assert.Error(t, err)
	}
}

func TestFormats(t *testing.T) {
	tr := unitSquare()
	tr.CompID = []int{1, 2}
	tr.Q = utils.NewMatrix(4, 1, []float64{1, 2, 3, 4})
	dir := t.TempDir()
	for _, name := range FormatNames() {
		f, err := LookupFormat(name)
		require.NoError(t, err)
		fileName := filepath.Join(dir, f.File)
		require.NoError(t, WriteFile(fileName, func(w io.Writer) error { return f.Write(w, tr) }), name)
		info, err := os.Stat(fileName)
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), name)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(Formats)) // no staged temporaries remain
	{
		file, err := os.Open(filepath.Join(dir, Formats["tri"].File))
		require.NoError(t, err)
		defer file.Close()
		got, err := ReadTri(file)
		require.NoError(t, err)
		assert.Equal(t, tr.CompID, got.CompID)
	}
	_, err = LookupFormat("vtk")
	assert.Error(t, err)
	{ // Untagged meshes get component 1 in every format that carries components
		untagged := unitSquare()
		var buf bytes.Buffer
		require.NoError(t, Formats["lb8"].Write(&buf, untagged))
		got, err := ReadTriBinary(&buf, LB8)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 1}, got.CompID)
		buf.Reset()
		require.NoError(t, Formats["tri"].Write(&buf, untagged))
		got, err = ReadTri(&buf)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 1}, got.CompID)
	}
}

func TestWriteFileIOError(t *testing.T) {
	tr := unitSquare()
	fileName := filepath.Join(t.TempDir(), "no", "such", "dir", "out.tri")
	err := WriteFile(fileName, func(w io.Writer) error { return WriteTri(w, tr.Nodes, tr.Tris) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
}

func TestStats(t *testing.T) {
	tr := unitSquare()
	st, err := tr.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, st.NNode)
	assert.Equal(t, 2, st.NTri)
	assert.Equal(t, 0, st.OrphanNodes)
	assert.Equal(t, 4, st.OpenEdges)
	assert.Equal(t, 0, st.NonManifoldEdges)
	assert.Equal(t, 1, st.MinValence)
	assert.Equal(t, 2, st.MaxValence)
	assert.Equal(t, [3]float64{0, 0, 0}, st.BBoxMin)
	assert.Equal(t, [3]float64{1, 1, 0}, st.BBoxMax)
	assert.Equal(t, []int{1}, st.Components)
	assert.Contains(t, st.String(), "Open edges: 4")
	assert.Len(t, st.Open, 4)
	assert.Zero(t, st.DegenerateElements)
	{ // A sliver naming node 2 twice
		sliver := unitSquare()
		sliver.Tris = append(sliver.Tris, [3]int{1, 2, 2})
		st, err := sliver.Stats()
		require.NoError(t, err)
		assert.Equal(t, 1, st.DegenerateElements)
	}

	tr.CompID = []int{1}
	_, err = tr.Stats()
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestTriangulationHelpers(t *testing.T) {
	tr := unitSquare()
	N := tr.TriNormals()
	assert.Equal(t, []float64{0, 0, 1}, N.Row(0))
	assert.Equal(t, []float64{0, 0, 1}, N.Row(1))

	tr.CompID = []int{1, 2}
	tr.Quads = [][4]int{{0, 1, 2, 3}}
	tr.QuadCompID = []int{7}
	tr.ApplyBCMap(map[int]int{2: -1, 7: 3}, 1)
	assert.Equal(t, []int{1, -1}, tr.BCFlag)
	assert.Equal(t, []int{3}, tr.QuadBCFlag)
	assert.Equal(t, []int{1, 2, 7}, tr.Components())
	require.NoError(t, tr.Validate())
}

func TestRemoveOrphans(t *testing.T) {
	P := utils.NewMatrix(5, 3, []float64{
		5, 5, 5, // unreferenced
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	})
	tr := NewTriangulation(P, [][3]int{{1, 2, 3}, {1, 3, 4}})
	tr.BLDS = []float64{9, 1, 2, 3, 4}
	assert.Equal(t, 1, tr.RemoveOrphans())
	assert.Equal(t, unitSquare().Nodes.Data(), tr.Nodes.Data())
	assert.Equal(t, unitSquare().Tris, tr.Tris)
	assert.Equal(t, []float64{1, 2, 3, 4}, tr.BLDS)
	assert.Equal(t, 0, tr.RemoveOrphans())
	require.NoError(t, tr.Validate())
}
