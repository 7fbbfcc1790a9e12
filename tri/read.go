package tri

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/notargets/gotri/utils"
)

// ReadTriHeader reads the first line of an ASCII .tri or .triq file. nq is
// zero for a plain triangulation.
func ReadTriHeader(r io.Reader) (nNode, nTri, nq int, err error) {
	var line string
	if line, err = bufio.NewReader(r).ReadString('\n'); err != nil && line == "" {
		err = fmt.Errorf("unable to read tri header: %w", err)
		return
	}
	return parseTriHeader(line)
}

func parseTriHeader(line string) (nNode, nTri, nq int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 && len(fields) != 3 {
		err = fmt.Errorf("badly formed tri header [%s], expected nNode nTri [nq]", strings.TrimSpace(line))
		return
	}
	var vals [3]int
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil || vals[i] < 0 {
			err = fmt.Errorf("badly formed tri header [%s]", strings.TrimSpace(line))
			return
		}
	}
	return vals[0], vals[1], vals[2], nil
}

// ReadTri reads an ASCII triangulation. A component ID section following the
// triangles is read when present, and when the header carries a state count
// the file is read as a .triq with its per node states.
func ReadTri(r io.Reader) (tr *Triangulation, err error) {
	var (
		br              = bufio.NewReader(r)
		line            string
		nNode, nTri, nq int
	)
	if line, err = br.ReadString('\n'); err != nil && line == "" {
		return nil, fmt.Errorf("unable to read tri header: %w", err)
	}
	if nNode, nTri, nq, err = parseTriHeader(line); err != nil {
		return
	}
	isTriQ := len(strings.Fields(line)) == 3
	if err = checkCount("node", nNode, max(3, nq)); err != nil {
		return nil, err
	}
	if err = checkCount("triangle", nTri, 3); err != nil {
		return nil, err
	}
	ts := newTokenScanner(br)
	tr = &Triangulation{}
	if tr.Nodes, err = ts.matrix(nNode, 3); err != nil {
		return nil, err
	}
	if tr.Tris, err = ts.tris(nTri, nNode); err != nil {
		return nil, err
	}
	if !isTriQ && ts.atEOF() {
		return
	}
	if tr.CompID, err = ts.ints(nTri); err != nil {
		return nil, err
	}
	if isTriQ {
		if tr.Q, err = ts.matrix(nNode, nq); err != nil {
			return nil, err
		}
	}
	return
}

// ReadTriQ reads a .triq file, failing when the header has no state count.
func ReadTriQ(r io.Reader) (tr *Triangulation, err error) {
	if tr, err = ReadTri(r); err != nil {
		return
	}
	if tr.Q.IsEmpty() && tr.NNode() > 0 {
		return nil, fmt.Errorf("not a triq file: the header has no state count")
	}
	return
}

// ReadSurf reads the sectioned mixed element surface written by WriteSurf.
func ReadSurf(r io.Reader) (tr *Triangulation, err error) {
	var (
		ts     = newTokenScanner(bufio.NewReader(r))
		counts = make(map[string]int, len(surfSections))
	)
	tr = &Triangulation{}
	section := func(name string) (n int, err error) {
		var word string
		if word, err = ts.word(); err != nil {
			return
		}
		if word != name {
			err = fmt.Errorf("expected section %s, found [%s]", name, word)
			return
		}
		if n, err = ts.int(); err != nil {
			return
		}
		if err = checkCount(name, n, 4); err != nil {
			return
		}
		counts[name] = n
		return
	}
	var n int
	for _, name := range surfSections {
		if n, err = section(name); err != nil {
			return nil, err
		}
		switch name {
		case SectionNodes:
			tr.Nodes, err = ts.matrix(n, 3)
		case SectionTriangles:
			tr.Tris, err = ts.tris(n, tr.NNode())
		case SectionTriComponents:
			tr.CompID, err = ts.ints(n)
		case SectionTriBCs:
			tr.BCFlag, err = ts.ints(n)
		case SectionQuads:
			tr.Quads, err = ts.quads(n, tr.NNode())
		case SectionQuadComponents:
			tr.QuadCompID, err = ts.ints(n)
		case SectionQuadBCs:
			tr.QuadBCFlag, err = ts.ints(n)
		}
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
	}
	if counts[SectionTriComponents] != counts[SectionTriangles] || counts[SectionTriBCs] != counts[SectionTriangles] ||
		counts[SectionQuadComponents] != counts[SectionQuads] || counts[SectionQuadBCs] != counts[SectionQuads] {
		return nil, dimensionError("section counts disagree: %v", counts)
	}
	return
}

// ReadAFLR3 reads an AFLR3 .surf file as written by WriteAFLR3.
func ReadAFLR3(r io.Reader) (tr *Triangulation, err error) {
	var (
		ts                 = newTokenScanner(bufio.NewReader(r))
		nTri, nQuad, nNode int
		vals               []float64
		iv                 []int
	)
	for _, p := range []*int{&nTri, &nQuad, &nNode} {
		if *p, err = ts.int(); err != nil {
			return nil, fmt.Errorf("unable to read AFLR3 header: %w", err)
		}
	}
	if err = checkCount("node", nNode, 5); err != nil {
		return nil, err
	}
	if err = checkCount("triangle", nTri, 6); err != nil {
		return nil, err
	}
	if err = checkCount("quad", nQuad, 7); err != nil {
		return nil, err
	}
	var (
		xyz         = make([]float64, 0, 3*allocHint(nNode))
		blds, bldel = make([]float64, 0, allocHint(nNode)), make([]float64, 0, allocHint(nNode))
	)
	for i := 0; i < nNode; i++ {
		if vals, err = ts.floats(5); err != nil {
			return nil, err
		}
		xyz = append(xyz, vals[:3]...)
		blds, bldel = append(blds, vals[3]), append(bldel, vals[4])
	}
	tr = &Triangulation{
		Nodes: utils.NewMatrix(nNode, 3, xyz),
		BLDS:  blds,
		BLDel: bldel,
	}
	tr.Tris, tr.CompID, tr.BCFlag = make([][3]int, 0, allocHint(nTri)), make([]int, 0, allocHint(nTri)), make([]int, 0, allocHint(nTri))
	for k := 0; k < nTri; k++ {
		if iv, err = ts.intsN(6); err != nil {
			return nil, err
		}
		t := [3]int{iv[0] - 1, iv[1] - 1, iv[2] - 1}
		if err = checkCorners("triangle", k, t[:], nNode); err != nil {
			return nil, err
		}
		tr.Tris = append(tr.Tris, t)
		tr.CompID, tr.BCFlag = append(tr.CompID, iv[3]), append(tr.BCFlag, iv[5])
	}
	tr.Quads, tr.QuadCompID, tr.QuadBCFlag = make([][4]int, 0, allocHint(nQuad)), make([]int, 0, allocHint(nQuad)), make([]int, 0, allocHint(nQuad))
	for k := 0; k < nQuad; k++ {
		if iv, err = ts.intsN(7); err != nil {
			return nil, err
		}
		q := [4]int{iv[0] - 1, iv[1] - 1, iv[2] - 1, iv[3] - 1}
		if err = checkCorners("quad", k, q[:], nNode); err != nil {
			return nil, err
		}
		tr.Quads = append(tr.Quads, q)
		tr.QuadCompID, tr.QuadBCFlag = append(tr.QuadCompID, iv[4]), append(tr.QuadBCFlag, iv[6])
	}
	return
}

// ReadTriBinary decodes a record binary triangulation written with the same
// BinaryFormat. A trailing component record is read when present.
func ReadTriBinary(r io.Reader, bf BinaryFormat) (tr *Triangulation, err error) {
	if err = bf.check(); err != nil {
		return
	}
	var (
		rr          = &recordReader{r: bufio.NewReader(r), bf: bf}
		nNode, nTri int
		rec         []byte
	)
	if rec, err = rr.record(8); err != nil {
		return nil, fmt.Errorf("header record: %w", err)
	}
	nNode, nTri = rr.int32(rec[0:]), rr.int32(rec[4:])
	if nNode < 0 || nTri < 0 {
		return nil, fmt.Errorf("negative counts in header: %d %d", nNode, nTri)
	}
	// Record payloads are read and sized before anything is allocated from
	// the header counts.
	if rec, err = rr.record(3 * nNode * bf.Width); err != nil {
		return nil, fmt.Errorf("coordinate record: %w", err)
	}
	tr = &Triangulation{Nodes: utils.NewMatrix(nNode, 3)}
	data := tr.Nodes.Data()
	for i := range data {
		data[i] = rr.float(rec[i*bf.Width:])
	}
	if rec, err = rr.record(12 * nTri); err != nil {
		return nil, fmt.Errorf("connectivity record: %w", err)
	}
	tr.Tris = make([][3]int, nTri)
	for k := 0; k < nTri; k++ {
		for c := 0; c < 3; c++ {
			tr.Tris[k][c] = rr.int32(rec[4*(3*k+c):]) - 1
		}
		if err = checkCorners("triangle", k, tr.Tris[k][:], nNode); err != nil {
			return nil, err
		}
	}
	if rec, err = rr.record(4 * nTri); err != nil {
		if errors.Is(err, io.EOF) {
			return tr, nil
		}
		return nil, fmt.Errorf("component record: %w", err)
	}
	tr.CompID = make([]int, nTri)
	for k := range tr.CompID {
		tr.CompID[k] = rr.int32(rec[4*k:])
	}
	return
}

type recordReader struct {
	r  *bufio.Reader
	bf BinaryFormat
}

// record returns the payload of the next record, which must hold exactly
// want bytes, or io.EOF if the stream ends cleanly before it. The payload
// buffer grows with the bytes actually read, never from the marker alone.
func (rr *recordReader) record(want int) (payload []byte, err error) {
	var marker [4]byte
	if _, err = io.ReadFull(rr.r, marker[:]); err != nil {
		return
	}
	n := rr.int32(marker[:])
	if n != want {
		return nil, dimensionError("record has %d bytes, expected %d", n, want)
	}
	if payload, err = io.ReadAll(io.LimitReader(rr.r, int64(n))); err != nil {
		return nil, err
	}
	if len(payload) != n {
		return nil, fmt.Errorf("truncated record: %w", io.ErrUnexpectedEOF)
	}
	if _, err = io.ReadFull(rr.r, marker[:]); err != nil {
		return nil, fmt.Errorf("missing trailing record marker: %w", io.ErrUnexpectedEOF)
	}
	if m := rr.int32(marker[:]); m != n {
		return nil, fmt.Errorf("record markers disagree: %d and %d", n, m)
	}
	return
}

func (rr *recordReader) int32(b []byte) int {
	return int(int32(rr.bf.Order.Uint32(b)))
}

func (rr *recordReader) float(b []byte) float64 {
	if rr.bf.Width == 4 {
		return float64(math.Float32frombits(rr.bf.Order.Uint32(b)))
	}
	return math.Float64frombits(rr.bf.Order.Uint64(b))
}

// tokenScanner walks whitespace separated tokens of the ASCII formats.
type tokenScanner struct {
	sc      *bufio.Scanner
	pending bool // sc.Text() holds a token that was peeked but not consumed
}

func newTokenScanner(r io.Reader) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenScanner{sc: sc}
}

func (ts *tokenScanner) word() (string, error) {
	if ts.pending {
		ts.pending = false
		return ts.sc.Text(), nil
	}
	if !ts.sc.Scan() {
		if err := ts.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("early end of file: %w", io.ErrUnexpectedEOF)
	}
	return ts.sc.Text(), nil
}

// atEOF peeks for another token, leaving it to be returned by the next word.
func (ts *tokenScanner) atEOF() bool {
	if ts.pending {
		return false
	}
	if ts.sc.Scan() {
		ts.pending = true
		return false
	}
	return true
}

func (ts *tokenScanner) int() (n int, err error) {
	var w string
	if w, err = ts.word(); err != nil {
		return
	}
	if n, err = strconv.Atoi(w); err != nil {
		err = fmt.Errorf("unable to read integer from token: [%s]", w)
	}
	return
}

func (ts *tokenScanner) float() (x float64, err error) {
	var w string
	if w, err = ts.word(); err != nil {
		return
	}
	if x, err = strconv.ParseFloat(w, 64); err != nil {
		err = fmt.Errorf("unable to read float from token: [%s]", w)
	}
	return
}

func (ts *tokenScanner) floats(n int) (vals []float64, err error) {
	vals = make([]float64, n)
	for i := range vals {
		if vals[i], err = ts.float(); err != nil {
			return nil, err
		}
	}
	return
}

func (ts *tokenScanner) intsN(n int) (vals []int, err error) {
	vals = make([]int, 0, allocHint(n))
	var v int
	for i := 0; i < n; i++ {
		if v, err = ts.int(); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return
}

func (ts *tokenScanner) ints(n int) ([]int, error) { return ts.intsN(n) }

func (ts *tokenScanner) matrix(nr, nc int) (M utils.Matrix, err error) {
	if err = checkCount("row", nr, max(nc, 1)); err != nil {
		return
	}
	var (
		n    = nr * nc
		data = make([]float64, 0, allocHint(n))
		x    float64
	)
	for i := 0; i < n; i++ {
		if x, err = ts.float(); err != nil {
			return
		}
		data = append(data, x)
	}
	M = utils.NewMatrix(nr, nc, data)
	return
}

func (ts *tokenScanner) tris(nTri, nNode int) (T [][3]int, err error) {
	T = make([][3]int, 0, allocHint(nTri))
	var iv []int
	for k := 0; k < nTri; k++ {
		if iv, err = ts.intsN(3); err != nil {
			return nil, err
		}
		t := [3]int{iv[0] - 1, iv[1] - 1, iv[2] - 1}
		if err = checkCorners("triangle", k, t[:], nNode); err != nil {
			return nil, err
		}
		T = append(T, t)
	}
	return
}

func (ts *tokenScanner) quads(nQuad, nNode int) (Q [][4]int, err error) {
	Q = make([][4]int, 0, allocHint(nQuad))
	var iv []int
	for k := 0; k < nQuad; k++ {
		if iv, err = ts.intsN(4); err != nil {
			return nil, err
		}
		q := [4]int{iv[0] - 1, iv[1] - 1, iv[2] - 1, iv[3] - 1}
		if err = checkCorners("quad", k, q[:], nNode); err != nil {
			return nil, err
		}
		Q = append(Q, q)
	}
	return
}

// maxPrealloc bounds the storage reserved from a count read out of a file;
// beyond it slices grow with the data actually present.
const maxPrealloc = 1 << 16

func allocHint(n int) int { return min(max(n, 0), maxPrealloc) }

// checkCount rejects a count read from a file that is negative, or whose
// product with the values stored per item overflows an int.
func checkCount(name string, n, perItem int) error {
	if n < 0 {
		return fmt.Errorf("negative %s count %d", name, n)
	}
	if perItem > 0 && n > math.MaxInt/perItem {
		return fmt.Errorf("%s count %d is too large", name, n)
	}
	return nil
}
