package readfiles

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gotri/tri"
)

// InputFormats lists the format names ReadMesh accepts.
var InputFormats = []string{"tri", "triq", "surf", "aflr3", "msh", "su2", "uh3d", "b4", "lb4", "b8", "lb8"}

// ReadMeshFile reads a surface mesh, choosing the reader from the file
// extension. A .tri file whose name carries a binary variant before the
// extension, as in Components.pyCart.lb8.tri, is read as record binary. A
// .surf file is read as the sectioned surface when it starts with the Nodes
// keyword, and as AFLR3 otherwise.
func ReadMeshFile(fileName string) (tr *tri.Triangulation, names map[int]string, err error) {
	var (
		file   *os.File
		format string
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	br := bufio.NewReader(file)
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".tri", ".triq":
		format = "tri"
		if bf, ok := binaryVariant(fileName); ok {
			format = bf.Name
		}
	case ".surf":
		format = "aflr3"
		if isSectionedSurf(br) {
			format = "surf"
		}
	case ".msh", ".su2", ".uh3d":
		format = ext[1:]
	default:
		return nil, nil, fmt.Errorf("unsupported mesh file extension: %s", ext)
	}
	if tr, names, err = ReadMesh(br, format); err != nil {
		err = fmt.Errorf("reading %s: %w", fileName, err)
	}
	return
}

// ReadMesh reads a mesh in the named format, one of InputFormats. Component
// names are returned, and kept on the mesh, when the format carries them. Nodes that only belonged
// to volume elements are removed.
func ReadMesh(r io.Reader, format string) (tr *tri.Triangulation, names map[int]string, err error) {
	switch format {
	case "tri", "triq":
		tr, err = tri.ReadTri(r)
	case "surf":
		tr, err = tri.ReadSurf(r)
	case "aflr3":
		tr, err = tri.ReadAFLR3(r)
	case "msh":
		if tr, names, err = ReadGmsh22(r); err == nil {
			err = tr.Validate()
		}
	case "su2":
		tr, names, err = ReadSU2(r)
	case "uh3d":
		tr, names, err = ReadUH3D(r)
	default:
		var bf tri.BinaryFormat
		if bf, err = tri.ParseBinaryFormat(format); err != nil {
			return nil, nil, fmt.Errorf("unsupported mesh format: %s", format)
		}
		tr, err = tri.ReadTriBinary(r, bf)
	}
	if err != nil {
		return nil, nil, err
	}
	if format == "msh" || format == "su2" {
		tr.RemoveOrphans()
	}
	if names != nil {
		tr.CompNames = names
	}
	return
}

// binaryVariant looks for b4, lb4, b8 or lb8 as the second extension.
func binaryVariant(fileName string) (bf tri.BinaryFormat, ok bool) {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	inner := strings.TrimPrefix(filepath.Ext(base), ".")
	if inner == "" {
		return
	}
	var err error
	if bf, err = tri.ParseBinaryFormat(inner); err != nil {
		return
	}
	return bf, true
}

func isSectionedSurf(br *bufio.Reader) bool {
	head, _ := br.Peek(64)
	fields := bytes.Fields(head)
	return len(fields) != 0 && string(fields[0]) == tri.SectionNodes
}
