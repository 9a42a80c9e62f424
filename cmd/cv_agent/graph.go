package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-agent/internal/pipeline"
)

var graphCommand = &cobra.Command{
	Use:   "graph",
	Short: "Describe the pipeline stage graph",
	Long:  "Prints the pipeline's stages and transitions. With --output the description is written to a file; a .dot extension selects Graphviz DOT format.",
	RunE:  runGraphCmd,
}

var graphOutput string

func init() {
	graphCommand.Flags().StringVarP(&graphOutput, "output", "o", "", "Write to this file instead of stdout (.dot extension selects DOT format)")
	rootCmd.AddCommand(graphCommand)
}

func runGraphCmd(_ *cobra.Command, _ []string) error {
	write := pipeline.WriteText
	if strings.HasSuffix(graphOutput, ".dot") {
		write = pipeline.WriteDOT
	}

	var w io.Writer = os.Stdout
	if graphOutput != "" {
		f, err := os.Create(graphOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", graphOutput, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return write(w)
}
