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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/notargets/gotri/readfiles"
	"github.com/notargets/gotri/tri"
)

// FormatsCmd represents the formats command
var FormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the output formats and their default file names",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "FORMAT\tDEFAULT FILE\tDESCRIPTION")
		for _, name := range tri.FormatNames() {
			f := tri.Formats[name]
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.File, f.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nInput formats: %s\n", strings.Join(readfiles.InputFormats, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(FormatsCmd)
}
