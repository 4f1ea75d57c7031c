package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/transform"
)

const lineageSeparator = ":"

// Lineage returns the column lineage of the pipeline. Every vertex is a version of a
// column: input columns are keyed by their name and columns written by a step are keyed
// by "<step>:<column>". Edges go from the column read to the column written and carry the
// step name as "label". The "label" attribute of a vertex is the column name.
//
// Expanding steps only know their outputs once fitted; before that their declared outputs
// are used.
func (p *Pipeline) Lineage() (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic())
	current := make(map[string]string)

	for _, ns := range p.steps {
		spec := ns.step.Columns()
		written := make(map[string]string)

		for idx, input := range spec.Inputs {
			source, ok := current[input]
			if !ok {
				err := addColumnVertex(g, input, input)
				if err != nil {
					return nil, err
				}
				source = input
				current[input] = source
			}

			for _, output := range outputsOf(ns.step, spec, idx) {
				target := ns.name + lineageSeparator + output

				err := addColumnVertex(g, target, output)
				if err != nil {
					return nil, err
				}

				err = g.AddEdge(source, target, graph.EdgeAttribute("label", ns.name))
				if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
					return nil, errors.Wrapf(err, "unable to link %s to %s", source, target)
				}
				written[output] = target
			}
		}

		for output, target := range written {
			current[output] = target
		}
	}

	return g, nil
}

func addColumnVertex(g graph.Graph[string, string], id, column string) error {
	err := g.AddVertex(id, graph.VertexAttribute("label", column))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add column %s", id)
	}

	return nil
}

func outputsOf(step transform.Step, spec transform.ColumnSpec, idx int) []string {
	if mapper, ok := step.(transform.ColumnMapper); ok && step.IsFitted() {
		return mapper.OutputsOf(spec.Inputs[idx])
	}

	return []string{spec.Output(idx)}
}
