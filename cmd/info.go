/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/notargets/gotri/tri"
	"github.com/notargets/gotri/types"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the size, components and surface quality of a mesh",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			meshFile, inputFormat string
			edges                 bool
			tr                    *tri.Triangulation
			names                 map[int]string
			st                    tri.Stats
		)
		if meshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		if inputFormat, err = cmd.Flags().GetString("inputFormat"); err != nil {
			return
		}
		if edges, err = cmd.Flags().GetBool("edges"); err != nil {
			return
		}
		if len(meshFile) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --meshFile)")
		}
		cj := &ConvertJob{MeshFile: meshFile, InputFormat: inputFormat}
		if tr, names, err = cj.readMesh(); err != nil {
			return
		}
		if st, err = tr.Stats(); err != nil {
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File: %s\n", meshFile)
		fmt.Fprint(out, st.String())
		comps := make([]int, 0, len(names))
		for comp := range names {
			comps = append(comps, comp)
		}
		sort.Ints(comps)
		for _, comp := range comps {
			fmt.Fprintf(out, "Component %d = %s\n", comp, names[comp])
		}
		if edges {
			printEdges(out, "Open edge", st.Open)
			printEdges(out, "Non-manifold edge", st.NonManifold)
		}
		return
	},
}

// printEdges lists edges by their one based node numbers
func printEdges(w io.Writer, label string, edges []types.EdgeKey) {
	for _, ek := range edges {
		verts := ek.GetVertices(false)
		fmt.Fprintf(w, "%s: %d %d\n", label, verts[0]+1, verts[1]+1)
	}
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().StringP("meshFile", "F", "", "surface mesh to read")
	InfoCmd.Flags().String("inputFormat", "", "read the mesh as this format instead of choosing by extension")
	InfoCmd.Flags().Bool("edges", false, "list the open and non-manifold edges by node number")
}
