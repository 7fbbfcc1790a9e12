package readfiles

import (
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gotri/tri"
	"github.com/notargets/gotri/utils"
)

// Gmsh 2.2 element type numbers of the surface elements
const (
	gmshTriangle   = 2
	gmshQuadrangle = 3
)

// ReadGmsh22 extracts the surface of an ASCII Gmsh 2.2 file. Three node
// triangles and four node quadrangles are kept with their physical tag as the
// component ID; every other element type is skipped. Physical group names are
// returned keyed by tag. Node numbers are preserved in file order, so a file
// carrying a volume mesh leaves orphan nodes.
func ReadGmsh22(r io.Reader) (tr *tri.Triangulation, names map[int]string, err error) {
	var (
		ls        = newLineScanner(r, "")
		nodeIndex map[int]int
	)
	tr = &tri.Triangulation{}
	names = make(map[int]string)
	for ls.Scan() {
		switch line := ls.Text(); line {
		case "$MeshFormat":
			err = readGmshFormat(ls)
		case "$PhysicalNames":
			err = readGmshNames(ls, names)
		case "$Nodes":
			nodeIndex, err = readGmshNodes(ls, tr)
		case "$Elements":
			if nodeIndex == nil {
				err = ls.errorf("$Elements found before $Nodes")
				break
			}
			err = readGmshElements(ls, nodeIndex, tr)
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = ls.skipTo("$End" + line[1:])
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if err = ls.Err(); err != nil {
		return nil, nil, err
	}
	if nodeIndex == nil {
		return nil, nil, ls.errorf("no $Nodes section")
	}
	return
}

func readGmshFormat(ls *lineScanner) (err error) {
	var line string
	if line, err = ls.next("$MeshFormat"); err != nil {
		return
	}
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return ls.errorf("invalid MeshFormat line: [%s]", line)
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return ls.errorf("unsupported Gmsh version %s, only 2.x files can be read", parts[0])
	}
	if parts[1] != "0" {
		return ls.errorf("binary Gmsh files are not supported")
	}
	return ls.skipTo("$EndMeshFormat")
}

func readGmshNames(ls *lineScanner, names map[int]string) (err error) {
	var (
		line   string
		nNames int
	)
	if line, err = ls.next("$PhysicalNames"); err != nil {
		return
	}
	if nNames, err = strconv.Atoi(line); err != nil {
		return ls.errorf("invalid physical name count: [%s]", line)
	}
	for i := 0; i < nNames; i++ {
		if line, err = ls.next("$PhysicalNames"); err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return ls.errorf("invalid physical name line: [%s]", line)
		}
		var tag int
		if tag, err = strconv.Atoi(parts[1]); err != nil {
			return ls.errorf("invalid physical tag: [%s]", parts[1])
		}
		names[tag] = strings.Trim(strings.Join(parts[2:], " "), "\"")
	}
	return ls.skipTo("$EndPhysicalNames")
}

func readGmshNodes(ls *lineScanner, tr *tri.Triangulation) (nodeIndex map[int]int, err error) {
	var (
		line   string
		nNodes int
	)
	if line, err = ls.next("$Nodes"); err != nil {
		return
	}
	if nNodes, err = strconv.Atoi(line); err != nil || nNodes < 0 {
		return nil, ls.errorf("invalid node count: [%s]", line)
	}
	nodeIndex = make(map[int]int, min(nNodes, maxPrealloc))
	coords := make([]float64, 0, 3*min(nNodes, maxPrealloc))
	for i := 0; i < nNodes; i++ {
		if line, err = ls.next("$Nodes"); err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			return nil, ls.errorf("invalid node line: [%s]", line)
		}
		var id int
		if id, err = strconv.Atoi(parts[0]); err != nil {
			return nil, ls.errorf("invalid node number: [%s]", parts[0])
		}
		if _, dup := nodeIndex[id]; dup {
			return nil, ls.errorf("duplicate node number %d", id)
		}
		nodeIndex[id] = i
		for j := 0; j < 3; j++ {
			var x float64
			if x, err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return nil, ls.errorf("invalid coordinate: [%s]", parts[1+j])
			}
			coords = append(coords, x)
		}
	}
	tr.Nodes = utils.NewMatrix(nNodes, 3, coords)
	err = ls.skipTo("$EndNodes")
	return
}

func readGmshElements(ls *lineScanner, nodeIndex map[int]int, tr *tri.Triangulation) (err error) {
	var (
		line  string
		nElem int
	)
	if line, err = ls.next("$Elements"); err != nil {
		return
	}
	if nElem, err = strconv.Atoi(line); err != nil || nElem < 0 {
		return ls.errorf("invalid element count: [%s]", line)
	}
	for k := 0; k < nElem; k++ {
		if line, err = ls.next("$Elements"); err != nil {
			return
		}
		var fields []int
		if fields, err = atoiFields(line); err != nil || len(fields) < 3 {
			return ls.errorf("invalid element line: [%s]", line)
		}
		var (
			elemType, nTags = fields[1], fields[2]
			nVerts          int
		)
		switch elemType {
		case gmshTriangle:
			nVerts = 3
		case gmshQuadrangle:
			nVerts = 4
		default:
			continue
		}
		if len(fields) != 3+nTags+nVerts {
			return ls.errorf("element %d: expected %d tags and %d nodes: [%s]", fields[0], nTags, nVerts, line)
		}
		comp := 1
		if nTags > 0 {
			comp = fields[3]
		}
		verts := make([]int, nVerts)
		for c, id := range fields[3+nTags:] {
			var ok bool
			if verts[c], ok = nodeIndex[id]; !ok {
				return ls.errorf("element %d references unknown node %d", fields[0], id)
			}
		}
		if nVerts == 3 {
			tr.Tris = append(tr.Tris, [3]int{verts[0], verts[1], verts[2]})
			tr.CompID = append(tr.CompID, comp)
		} else {
			tr.Quads = append(tr.Quads, [4]int{verts[0], verts[1], verts[2], verts[3]})
			tr.QuadCompID = append(tr.QuadCompID, comp)
		}
	}
	return ls.skipTo("$EndElements")
}

func atoiFields(line string) (vals []int, err error) {
	parts := strings.Fields(line)
	vals = make([]int, len(parts))
	for i, p := range parts {
		if vals[i], err = strconv.Atoi(p); err != nil {
			return nil, err
		}
	}
	return
}
