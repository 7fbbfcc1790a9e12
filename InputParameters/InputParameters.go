package InputParameters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gotri/tri"
	"github.com/notargets/gotri/types"
)

// Parameters obtained from the YAML job file
type WriterParameters struct {
	Title     string            `json:"Title"`
	Outputs   map[string]string `json:"Outputs"` // format name -> file name, empty for the default
	BCs       map[int]BCName    `json:"BCs"`     // component ID -> BC flag
	DefaultBC BCName            `json:"DefaultBC"`
	BLDS      float64           `json:"BLDS"`  // initial boundary layer spacing at every node
	BLDel     float64           `json:"BLDel"` // boundary layer thickness at every node
	SolidName string            `json:"SolidName"`
}

// BCName holds a boundary condition given either by name or as an integer.
type BCName string

func (b *BCName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) != 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = BCName(s)
		return nil
	}
	*b = BCName(data)
	return nil
}

func (b BCName) Flag() (int, error) { return types.NewBCFlag(string(b)) }

func (wp *WriterParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, wp); err != nil {
		return
	}
	for name := range wp.Outputs {
		if _, err = tri.LookupFormat(name); err != nil {
			return
		}
	}
	_, _, err = wp.BCMap()
	return
}

// BCMap resolves the component to flag map and the flag for components not
// named in it.
func (wp *WriterParameters) BCMap() (bcs map[int]int, defaultFlag int, err error) {
	defaultFlag = types.BC_None
	if wp.DefaultBC != "" {
		if defaultFlag, err = wp.DefaultBC.Flag(); err != nil {
			return
		}
	}
	bcs = make(map[int]int, len(wp.BCs))
	for comp, name := range wp.BCs {
		if bcs[comp], err = name.Flag(); err != nil {
			err = fmt.Errorf("component %d: %w", comp, err)
			return
		}
	}
	return
}

// Targets returns the file name of every format to write, keyed by format.
// Formats named on the command line win over the job file, and with neither
// an ASCII tri file is written.
func (wp *WriterParameters) Targets(formats []string) (targets map[string]string, err error) {
	targets = make(map[string]string)
	if len(formats) == 0 {
		for name := range wp.Outputs {
			formats = append(formats, name)
		}
	}
	if len(formats) == 0 {
		formats = []string{"tri"}
	}
	var f tri.Format
	for _, name := range formats {
		if f, err = tri.LookupFormat(name); err != nil {
			return nil, err
		}
		targets[name] = f.File
		if file := wp.Outputs[name]; file != "" {
			targets[name] = file
		}
	}
	return
}

// Apply sets BC flags and boundary layer values on tr. Values already carried
// by the mesh are kept unless the job file gives a BC map.
func (wp *WriterParameters) Apply(tr *tri.Triangulation) (err error) {
	var (
		bcs         map[int]int
		defaultFlag int
	)
	if bcs, defaultFlag, err = wp.BCMap(); err != nil {
		return
	}
	if len(bcs) != 0 || wp.DefaultBC != "" {
		tr.ApplyBCMap(bcs, defaultFlag)
	}
	fill := func(val float64) (v []float64) {
		v = make([]float64, tr.NNode())
		for i := range v {
			v[i] = val
		}
		return
	}
	if wp.SolidName != "" {
		tr.Name = wp.SolidName
	}
	if wp.BLDS != 0 && tr.BLDS == nil {
		tr.BLDS = fill(wp.BLDS)
	}
	if wp.BLDel != 0 && tr.BLDel == nil {
		tr.BLDel = fill(wp.BLDel)
	}
	return
}

func (wp *WriterParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", wp.Title)
	names := make([]string, 0, len(wp.Outputs))
	for name := range wp.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "Outputs[%s] = %s\n", name, wp.Outputs[name])
	}
	comps := make([]int, 0, len(wp.BCs))
	for comp := range wp.BCs {
		comps = append(comps, comp)
	}
	sort.Ints(comps)
	for _, comp := range comps {
		fmt.Fprintf(w, "BCs[%d] = %s\n", comp, wp.BCs[comp])
	}
	if wp.DefaultBC != "" {
		fmt.Fprintf(w, "[%s]\t\t= Default BC\n", wp.DefaultBC)
	}
	if wp.BLDS != 0 || wp.BLDel != 0 {
		fmt.Fprintf(w, "%8.5g\t\t= BLDS\n", wp.BLDS)
		fmt.Fprintf(w, "%8.5g\t\t= BLDel\n", wp.BLDel)
	}
}
