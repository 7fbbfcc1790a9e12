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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/gotri/InputParameters"
	"github.com/notargets/gotri/logger"
	"github.com/notargets/gotri/readfiles"
	"github.com/notargets/gotri/tri"
	"github.com/notargets/gotri/utils"
)

type ConvertJob struct {
	MeshFile    string
	InputFormat string // empty to choose by file extension
	JobFile     string
	OutputDir   string
	Formats     []string
	Watch       bool
	Profile     string
}

const exampleJobFile = `
########################################
Title: "Wing body"
Outputs:
  surf: wingbody.surf
  lb8: ""                # empty for the default file name
BCs:                     # component ID: BC name or AFLR3 flag
  1: viscous
  2: farfield
DefaultBC: solid
BLDS: 1.0e-5
SolidName: wingbody
########################################
`

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Read a surface mesh and write it in one or more output formats",
	Long: `Read a surface mesh and write it in every requested format. Formats named with
-f replace the Outputs of the job file; with neither, a .tri file is written.
Each output is staged beside its destination and only moved into place once
completely written. Example job file:` + exampleJobFile,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			cj    = &ConvertJob{}
			flags = cmd.Flags()
		)
		if cj.MeshFile, err = flags.GetString("meshFile"); err != nil {
			return
		}
		if cj.InputFormat, err = flags.GetString("inputFormat"); err != nil {
			return
		}
		if cj.JobFile, err = flags.GetString("jobFile"); err != nil {
			return
		}
		if cj.Formats, err = flags.GetStringSlice("format"); err != nil {
			return
		}
		if cj.Watch, err = flags.GetBool("watch"); err != nil {
			return
		}
		if cj.Profile, err = flags.GetString("profile"); err != nil {
			return
		}
		cj.OutputDir = viper.GetString("output")
		return cj.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("meshFile", "F", "", "surface mesh to read: .tri, .triq, .surf, .uh3d, .msh (Gmsh 2.2) or .su2")
	ConvertCmd.Flags().String("inputFormat", "", "read the mesh as this format instead of choosing by extension")
	ConvertCmd.Flags().StringP("jobFile", "I", "", "YAML job file with outputs, BC map and boundary layer values")
	ConvertCmd.Flags().StringSliceP("format", "f", nil, "output format, may be repeated; see the formats command")
	ConvertCmd.Flags().StringP("output", "o", ".", "directory for output files named without a path")
	ConvertCmd.Flags().BoolP("watch", "w", false, "keep running and rewrite the outputs whenever the mesh file changes")
	ConvertCmd.Flags().String("profile", "", "write a cpu or mem profile into the output directory")
	viper.BindPFlag("output", ConvertCmd.Flags().Lookup("output"))
}

func (cj *ConvertJob) Run(ctx context.Context) (err error) {
	var wp *InputParameters.WriterParameters
	if len(cj.MeshFile) == 0 {
		return fmt.Errorf("must supply a mesh file (-F, --meshFile)")
	}
	if wp, err = readJobFile(cj.JobFile); err != nil {
		return
	}
	if cj.OutputDir != "" {
		if err = os.MkdirAll(cj.OutputDir, 0755); err != nil {
			return
		}
	}
	switch cj.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cj.OutputDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cj.OutputDir), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile type: [%s], should be cpu or mem", cj.Profile)
	}
	if err = cj.convert(wp); err != nil || !cj.Watch {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info("watching for changes", zap.String("file", cj.MeshFile))
	return watchFile(ctx, cj.MeshFile, func() error { return cj.convert(wp) })
}

func readJobFile(fileName string) (wp *InputParameters.WriterParameters, err error) {
	wp = &InputParameters.WriterParameters{}
	if len(fileName) == 0 {
		return
	}
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	if err = wp.Parse(data); err != nil {
		return nil, fmt.Errorf("job file %s: %w", fileName, err)
	}
	if logger.Log.Core().Enabled(zap.DebugLevel) {
		wp.Print(os.Stderr)
	}
	return
}

func (cj *ConvertJob) readMesh() (tr *tri.Triangulation, names map[int]string, err error) {
	if cj.InputFormat == "" {
		return readfiles.ReadMeshFile(cj.MeshFile)
	}
	var file *os.File
	if file, err = os.Open(cj.MeshFile); err != nil {
		return
	}
	defer file.Close()
	return readfiles.ReadMesh(file, cj.InputFormat)
}

func (cj *ConvertJob) convert(wp *InputParameters.WriterParameters) (err error) {
	var (
		start   = time.Now()
		tr      *tri.Triangulation
		names   map[int]string
		targets map[string]string
	)
	if tr, names, err = cj.readMesh(); err != nil {
		return
	}
	logger.Info("read mesh",
		zap.String("file", cj.MeshFile),
		zap.Int("nodes", tr.NNode()),
		zap.Int("triangles", tr.NTri()),
		zap.Int("quads", tr.NQuad()),
		zap.Duration("elapsed", time.Since(start)))
	for _, comp := range tr.Components() {
		if name, ok := names[comp]; ok {
			logger.Debug("component", zap.Int("id", comp), zap.String("name", name))
		}
	}
	if utils.IsNan(tr.Nodes) {
		logger.Warn("mesh has non finite node coordinates", zap.String("file", cj.MeshFile))
	}
	if err = wp.Apply(tr); err != nil {
		return
	}
	if targets, err = wp.Targets(cj.Formats); err != nil {
		return
	}
	if err = writeTargets(tr, targets, cj.OutputDir, cj.MeshFile); err != nil {
		return
	}
	logger.Debug("memory", zap.String("usage", utils.GetMemUsage()))
	return
}

// writeTargets writes each format to its own file concurrently. Every failure
// is logged and the first, in format name order, is returned. No target may
// overwrite the mesh file it was converted from.
func writeTargets(tr *tri.Triangulation, targets map[string]string, outputDir, meshFile string) (err error) {
	var (
		names = make([]string, 0, len(targets))
		paths = make(map[string]string, len(targets))
		owner = make(map[string]string, len(targets))
		input string
	)
	if meshFile != "" {
		if input, err = filepath.Abs(meshFile); err != nil {
			return
		}
	}
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := targets[name]
		if !filepath.IsAbs(path) {
			path = filepath.Join(outputDir, path)
		}
		path = filepath.Clean(path)
		if input != "" {
			var abs string
			if abs, err = filepath.Abs(path); err != nil {
				return
			}
			if abs == input {
				return fmt.Errorf("format %s would overwrite the input mesh %s", name, meshFile)
			}
		}
		if other, dup := owner[path]; dup {
			return fmt.Errorf("formats %s and %s would both write %s", other, name, path)
		}
		owner[path], paths[name] = name, path
	}
	var (
		errs = make([]error, len(names))
		wg   = sync.WaitGroup{}
	)
	for i, name := range names {
		wg.Add(1)
		go func(i int, format tri.Format, path string) {
			defer wg.Done()
			start := time.Now()
			if errs[i] = tri.WriteFile(path, func(w io.Writer) error { return format.Write(w, tr) }); errs[i] != nil {
				return
			}
			logger.Info("wrote",
				zap.String("format", format.Name),
				zap.String("file", path),
				zap.Duration("elapsed", time.Since(start)))
		}(i, tri.Formats[name], paths[name])
	}
	wg.Wait()
	for i, e := range errs {
		if e == nil {
			continue
		}
		logger.Error("write failed", zap.String("format", names[i]), zap.String("file", paths[names[i]]), zap.Error(e))
		if err == nil {
			err = fmt.Errorf("writing %s: %w", names[i], e)
		}
	}
	return
}
