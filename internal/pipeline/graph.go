package pipeline

import (
	"fmt"
	"io"
)

// Edge is one directed edge in the stage graph.
type Edge struct {
	From, To string
}

var stageEdges = []Edge{
	{StageExtraction, StageTranslation},
	{StageTranslation, StageRetrieval},
	{StageRetrieval, StageCV},
	{StageRetrieval, StageLetter},
	{StageCV, StageRendering},
	{StageLetter, StageRendering},
	{StageRendering, StageOutput},
	{StageOutput, StagePersistence},
}

// Graph returns the stage nodes in execution order and the edges between
// them.
func Graph() (nodes []string, edges []Edge) {
	nodes = []string{
		StageExtraction,
		StageTranslation,
		StageRetrieval,
		StageCV,
		StageLetter,
		StageRendering,
		StageOutput,
		StagePersistence,
	}
	return nodes, stageEdges
}

// WriteText writes a plain-text description of the stage graph.
func WriteText(w io.Writer) error {
	nodes, edges := Graph()
	if _, err := fmt.Fprintln(w, "Stages:"); err != nil {
		return err
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "  %s\n", n); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Transitions:"); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "  %s -> %s\n", e.From, e.To); err != nil {
			return err
		}
	}
	return nil
}

// WriteDOT writes the stage graph in Graphviz DOT format.
func WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph pipeline {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  rankdir=LR;"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  node [shape=box, fontname=\"Helvetica\"];"); err != nil {
		return err
	}
	_, edges := Graph()
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
