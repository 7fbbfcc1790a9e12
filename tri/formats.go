package tri

import (
	"fmt"
	"io"
	"sort"

	"github.com/notargets/gotri/utils"
)

// Format binds a format name to its default file name and to the encoder
// that writes a Triangulation in that format.
type Format struct {
	Name        string
	File        string
	Description string
	Write       func(w io.Writer, tr *Triangulation) error
}

// Formats is the dispatch table of every writer, keyed by format name. The
// default file names follow the Components.pyCart convention. Every format
// that carries component IDs writes them, with 1 for an untagged mesh.
var Formats = map[string]Format{
	"tri": {
		Name: "tri", File: "Components.pyCart.tri",
		Description: "ASCII Cart3D triangulation with component IDs",
		Write: func(w io.Writer, tr *Triangulation) (err error) {
			if err = tr.Validate(); err != nil {
				return
			}
			if err = WriteTri(w, tr.Nodes, tr.Tris); err != nil {
				return
			}
			return WriteCompID(w, tr.TriCompIDs(), tr.NTri())
		},
	},
	"triq": {
		Name: "triq", File: "Components.pyCart.triq",
		Description: "ASCII Cart3D triangulation with per node state",
		Write: func(w io.Writer, tr *Triangulation) error {
			return WriteTriQ(w, tr.Nodes, tr.Tris, tr.TriCompIDs(), tr.Q)
		},
	},
	"surf": {
		Name: "surf", File: "Components.pyCart.surf",
		Description: "sectioned mixed triangle/quad surface with component IDs and BC flags",
		Write: func(w io.Writer, tr *Triangulation) error {
			return WriteSurf(w, tr.Nodes, tr.Tris, tr.TriCompIDs(), tr.TriBCFlags(),
				tr.Quads, tr.QuadCompIDs(), tr.QuadBCFlags())
		},
	},
	"aflr3": {
		Name: "aflr3", File: "Components.pyCart.aflr3.surf",
		Description: "AFLR3 surface with boundary layer spacing, component IDs and BC flags",
		Write: func(w io.Writer, tr *Triangulation) error {
			return WriteAFLR3(w, tr.Nodes, tr.BLDS, tr.BLDel, tr.Tris, tr.TriCompIDs(), tr.TriBCFlags(),
				tr.Quads, tr.QuadCompIDs(), tr.QuadBCFlags())
		},
	},
	"uh3d": {
		Name: "uh3d", File: "Components.pyCart.uh3d",
		Description: "comma separated UH3D triangulation with component IDs and names",
		Write: func(w io.Writer, tr *Triangulation) error {
			return WriteUH3D(w, tr.Nodes, tr.Tris, tr.TriCompIDs(), tr.CompNames, tr.solidName())
		},
	},
	"stl": {
		Name: "stl", File: "Components.pyCart.stl",
		Description: "ASCII stereolithography",
		Write: func(w io.Writer, tr *Triangulation) error {
			return WriteTriSTL(w, tr.Nodes, tr.Tris, tr.facetNormals(), tr.solidName())
		},
	},
	"stlb": {
		Name: "stlb", File: "Components.pyCart.b.stl",
		Description: "binary little endian stereolithography",
		Write: func(w io.Writer, tr *Triangulation) error {
			return WriteTriSTLBinary(w, tr.Nodes, tr.Tris, tr.facetNormals(), "gotri "+tr.solidName())
		},
	},
}

func init() {
	for _, bf := range BinaryFormats {
		bf := bf
		Formats[bf.Name] = Format{
			Name:        bf.Name,
			File:        "Components.pyCart." + bf.Name + ".tri",
			Description: fmt.Sprintf("Fortran record binary triangulation with component IDs, %d byte floats, %s", bf.Width, bf.Order),
			Write: func(w io.Writer, tr *Triangulation) error {
				return WriteTriBinary(w, tr.Nodes, tr.Tris, tr.TriCompIDs(), bf)
			},
		}
	}
}

// facetNormals returns the supplied normals, or computes unit normals when
// the triangulation carries none.
func (tr *Triangulation) facetNormals() utils.Matrix {
	if tr.Normals.IsEmpty() && tr.NTri() > 0 && tr.CheckTris() == nil {
		return tr.TriNormals()
	}
	return tr.Normals
}

func (tr *Triangulation) solidName() string {
	if tr.Name != "" {
		return tr.Name
	}
	return "Components"
}

func LookupFormat(name string) (f Format, err error) {
	var ok bool
	if f, ok = Formats[name]; !ok {
		err = fmt.Errorf("unknown format: [%s], should be one of %v", name, FormatNames())
	}
	return
}

func FormatNames() (names []string) {
	for name := range Formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
