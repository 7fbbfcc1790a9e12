package tri

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/gotri/utils"
)

// UH3DEnd closes the component list of a UH3D file.
const UH3DEnd = "99,99,99,99,99,99"

// WriteUH3D writes the comma separated UH3D triangulation: a title line, the
// counts line "nNode, nNode, nTri, nTri, nComp, nComp", numbered nodes and
// triangles with one based indices and the triangle component, then one
// "ID, name" line per component. Components missing from names are named by
// their ID.
func WriteUH3D(w io.Writer, P utils.Matrix, T [][3]int, C []int, names map[int]string, title string) (err error) {
	var nNode int
	if nNode, err = checkNodes(P); err != nil {
		return
	}
	if err = checkTris(T, nNode); err != nil {
		return
	}
	if err = checkLength("triangle component", len(C), len(T)); err != nil {
		return
	}
	if strings.ContainsAny(title, "\r\n") {
		return fmt.Errorf("UH3D title must be a single line: [%s]", title)
	}
	var (
		seen  = make(map[int]bool)
		comps []int
	)
	for _, c := range C {
		if !seen[c] {
			seen[c] = true
			comps = append(comps, c)
		}
	}
	sort.Ints(comps)
	labels := make([]string, len(comps))
	for i, c := range comps {
		if labels[i] = names[c]; labels[i] == "" {
			labels[i] = strconv.Itoa(c)
		}
		if strings.ContainsAny(labels[i], "\r\n") {
			return fmt.Errorf("component %d name must be a single line: [%s]", c, labels[i])
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", title)
	fmt.Fprintf(bw, "%d, %d, %d, %d, %d, %d\n", nNode, nNode, len(T), len(T), len(comps), len(comps))
	for i := 0; i < nNode; i++ {
		fmt.Fprintf(bw, "%d", i+1)
		for _, x := range P.RowView(i) {
			bw.WriteString(", ")
			fmt.Fprintf(bw, FloatFormat, x)
		}
		bw.WriteByte('\n')
	}
	for k, t := range T {
		fmt.Fprintf(bw, "%d, %d, %d, %d, %d\n", k+1, t[0]+1, t[1]+1, t[2]+1, C[k])
	}
	for i, c := range comps {
		fmt.Fprintf(bw, "%d, %s\n", c, labels[i])
	}
	fmt.Fprintf(bw, "%s\n", UH3DEnd)
	return flush(bw)
}
