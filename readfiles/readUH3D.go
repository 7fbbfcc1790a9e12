package readfiles

import (
	"io"
	"strconv"
	"strings"

	"github.com/notargets/gotri/tri"
	"github.com/notargets/gotri/utils"
)

// ReadUH3D reads a comma separated UH3D triangulation. Node and triangle
// numbers are looked up rather than assumed sequential. Component names are
// returned keyed by component ID, and the title line becomes the mesh Name.
func ReadUH3D(r io.Reader) (tr *tri.Triangulation, names map[int]string, err error) {
	var (
		ls                  = newLineScanner(r, "")
		line                string
		counts              []int
		nNode, nTri, nComps int
	)
	tr = &tri.Triangulation{}
	if line, err = ls.next("UH3D title"); err != nil {
		return nil, nil, err
	}
	tr.Name = line
	if line, err = ls.next("UH3D counts"); err != nil {
		return nil, nil, err
	}
	if counts, err = atoiCommas(line); err != nil || len(counts) != 6 {
		return nil, nil, ls.errorf("invalid counts line, expected six integers: [%s]", line)
	}
	nNode, nTri, nComps = counts[0], counts[2], counts[4]
	if nNode < 0 || nTri < 0 || nComps < 0 {
		return nil, nil, ls.errorf("negative count: [%s]", line)
	}
	var (
		nodeIndex = make(map[int]int, min(nNode, maxPrealloc))
		rows      = make([][]float64, 0, min(nNode, maxPrealloc))
	)
	for i := 0; i < nNode; i++ {
		if line, err = ls.next("UH3D nodes"); err != nil {
			return nil, nil, err
		}
		parts := splitCommas(line)
		if len(parts) != 4 {
			return nil, nil, ls.errorf("invalid node line: [%s]", line)
		}
		var id int
		if id, err = strconv.Atoi(parts[0]); err != nil {
			return nil, nil, ls.errorf("invalid node number: [%s]", parts[0])
		}
		if _, dup := nodeIndex[id]; dup {
			return nil, nil, ls.errorf("duplicate node number %d", id)
		}
		nodeIndex[id] = i
		xyz := make([]float64, 3)
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return nil, nil, ls.errorf("invalid coordinate: [%s]", parts[1+j])
			}
		}
		rows = append(rows, xyz)
	}
	if tr.Nodes, err = utils.NewMatrixFromRows(rows); err != nil {
		return nil, nil, err
	}
	if nNode == 0 {
		tr.Nodes = utils.NewMatrix(0, 3)
	}
	for k := 0; k < nTri; k++ {
		if line, err = ls.next("UH3D triangles"); err != nil {
			return nil, nil, err
		}
		var fields []int
		if fields, err = atoiCommas(line); err != nil || len(fields) != 5 {
			return nil, nil, ls.errorf("invalid triangle line: [%s]", line)
		}
		var t [3]int
		for c, id := range fields[1:4] {
			var ok bool
			if t[c], ok = nodeIndex[id]; !ok {
				return nil, nil, ls.errorf("triangle %d references unknown node %d", fields[0], id)
			}
		}
		tr.Tris = append(tr.Tris, t)
		tr.CompID = append(tr.CompID, fields[4])
	}
	names = make(map[int]string, min(nComps, maxPrealloc))
	for i := 0; i < nComps; i++ {
		if line, err = ls.next("UH3D components"); err != nil {
			return nil, nil, err
		}
		id, name, ok := strings.Cut(line, ",")
		var comp int
		if comp, err = strconv.Atoi(strings.TrimSpace(id)); err != nil || !ok {
			return nil, nil, ls.errorf("invalid component line: [%s]", line)
		}
		names[comp] = strings.TrimSpace(name)
	}
	if ls.Scan() && strings.ReplaceAll(ls.Text(), " ", "") != tri.UH3DEnd {
		return nil, nil, ls.errorf("expected %s after the components, found [%s]", tri.UH3DEnd, ls.Text())
	}
	if err = ls.Err(); err != nil {
		return nil, nil, err
	}
	if err = tr.Validate(); err != nil {
		return nil, nil, err
	}
	return
}

func splitCommas(line string) (parts []string) {
	parts = strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return
}

func atoiCommas(line string) (vals []int, err error) {
	parts := splitCommas(line)
	vals = make([]int, len(parts))
	for i, p := range parts {
		if vals[i], err = strconv.Atoi(p); err != nil {
			return nil, err
		}
	}
	return
}
