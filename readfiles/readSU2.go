package readfiles

import (
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gotri/tri"
	"github.com/notargets/gotri/utils"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
)

// ReadSU2 extracts the boundary surface of a 3D SU2 mesh. Each marker becomes
// a component, numbered from 1 in file order and named by its MARKER_TAG.
// Volume elements are skipped, leaving their interior nodes as orphans.
func ReadSU2(r io.Reader) (tr *tri.Triangulation, names map[int]string, err error) {
	var (
		ls       = newLineScanner(r, "%")
		ndime    int
		hasNodes bool
	)
	tr = &tri.Triangulation{}
	names = make(map[int]string)
	for ls.Scan() {
		key, val, ok := keyValue(ls.Text())
		if !ok {
			return nil, nil, ls.errorf("expected a KEYWORD= line, found [%s]", ls.Text())
		}
		var n int
		if key != "MARKER_TAG" {
			if n, err = firstInt(val); err != nil || n < 0 {
				return nil, nil, ls.errorf("invalid %s value: [%s]", key, val)
			}
		}
		switch key {
		case "NDIME":
			if ndime = n; ndime != 3 {
				return nil, nil, ls.errorf("only 3D meshes have a surface to extract, NDIME=%d", ndime)
			}
		case "NELEM":
			for i := 0; i < n; i++ {
				if _, err = ls.next("NELEM"); err != nil {
					return nil, nil, err
				}
			}
		case "NPOIN":
			if ndime == 0 {
				return nil, nil, ls.errorf("NPOIN found before NDIME")
			}
			if err = readSU2Nodes(ls, n, tr); err != nil {
				return nil, nil, err
			}
			hasNodes = true
		case "NMARK":
			for m := 0; m < n; m++ {
				if err = readSU2Marker(ls, m+1, names, tr); err != nil {
					return nil, nil, err
				}
			}
		default:
			return nil, nil, ls.errorf("unknown keyword %s", key)
		}
	}
	if err = ls.Err(); err != nil {
		return nil, nil, err
	}
	if !hasNodes {
		return nil, nil, ls.errorf("no NPOIN section")
	}
	if err = tr.Validate(); err != nil {
		return nil, nil, err
	}
	return
}

func readSU2Nodes(ls *lineScanner, nNode int, tr *tri.Triangulation) (err error) {
	var (
		line   string
		coords = make([]float64, 0, 3*min(nNode, maxPrealloc))
	)
	for i := 0; i < nNode; i++ {
		if line, err = ls.next("NPOIN"); err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return ls.errorf("invalid node line: [%s]", line)
		}
		for j := 0; j < 3; j++ {
			var x float64
			if x, err = strconv.ParseFloat(parts[j], 64); err != nil {
				return ls.errorf("invalid coordinate: [%s]", parts[j])
			}
			coords = append(coords, x)
		}
	}
	tr.Nodes = utils.NewMatrix(nNode, 3, coords)
	return
}

func readSU2Marker(ls *lineScanner, comp int, names map[int]string, tr *tri.Triangulation) (err error) {
	var (
		line     string
		nElem    int
		key, val string
		ok       bool
	)
	if line, err = ls.next("NMARK"); err != nil {
		return
	}
	if key, val, ok = keyValue(line); !ok || key != "MARKER_TAG" {
		return ls.errorf("expected MARKER_TAG=, found [%s]", line)
	}
	names[comp] = val
	if line, err = ls.next("MARKER_TAG"); err != nil {
		return
	}
	if key, val, ok = keyValue(line); !ok || key != "MARKER_ELEMS" {
		return ls.errorf("expected MARKER_ELEMS=, found [%s]", line)
	}
	if nElem, err = firstInt(val); err != nil || nElem < 0 {
		return ls.errorf("invalid MARKER_ELEMS value: [%s]", val)
	}
	for k := 0; k < nElem; k++ {
		if line, err = ls.next("MARKER_ELEMS"); err != nil {
			return
		}
		var fields []int
		if fields, err = atoiFields(line); err != nil || len(fields) < 1 {
			return ls.errorf("invalid boundary element line: [%s]", line)
		}
		switch fields[0] {
		case int(ELType_Triangle):
			if len(fields) < 4 {
				return ls.errorf("triangle needs 3 nodes: [%s]", line)
			}
			tr.Tris = append(tr.Tris, [3]int{fields[1], fields[2], fields[3]})
			tr.CompID = append(tr.CompID, comp)
		case int(ELType_Quadrilateral):
			if len(fields) < 5 {
				return ls.errorf("quadrilateral needs 4 nodes: [%s]", line)
			}
			tr.Quads = append(tr.Quads, [4]int{fields[1], fields[2], fields[3], fields[4]})
			tr.QuadCompID = append(tr.QuadCompID, comp)
		default:
			return ls.errorf("marker %s: element type %d is not a surface element", names[comp], fields[0])
		}
	}
	return
}

func keyValue(line string) (key, val string, ok bool) {
	var i int
	if i = strings.Index(line, "="); i < 0 {
		return
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func firstInt(val string) (int, error) {
	parts := strings.Fields(val)
	if len(parts) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(parts[0])
}
