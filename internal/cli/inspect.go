package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline"
	"github.com/askiada/go-preprocess/pkg/transform"
)

func newInspectCmd(a *app) *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe the steps and fitted state of a pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipe, err := a.loadPipeline(cmd.Context(), src)
			if err != nil {
				return err
			}

			describe(cmd.OutOrStdout(), pipe)

			return nil
		},
	}

	src.register(cmd)

	return cmd
}

func describe(w io.Writer, pipe *pipeline.Pipeline) {
	fmt.Fprintf(w, "Pipeline %s\n", pipe.ID())
	fmt.Fprintf(w, "Steps: %d, fitted: %t\n", pipe.Len(), pipe.IsFitted())

	for i, info := range pipe.Steps() {
		state := "unfitted"
		if info.Fitted {
			state = "fitted"
		}

		fmt.Fprintf(w, "\n%d. %s (%s, %s)\n", i+1, info.Name, info.Kind, state)
		fmt.Fprintf(w, "   inputs:  %s\n", strings.Join(info.Inputs, ", "))
		fmt.Fprintf(w, "   outputs: %s\n", strings.Join(info.Outputs, ", "))

		step, _ := pipe.Step(info.Name)
		for _, line := range stateSummary(step) {
			fmt.Fprintf(w, "   %s\n", line)
		}
	}
}

func stateSummary(step transform.Step) []string {
	var lines []string

	switch s := step.(type) {
	case *transform.MinMaxScaler:
		if st := s.State(); st != nil {
			for _, r := range st.Ranges {
				lines = append(lines, fmt.Sprintf("%s: [%s, %s]", r.Column, dataset.FormatFloat(r.Min), dataset.FormatFloat(r.Max)))
			}
		}
	case *transform.Rounder:
		lines = append(lines, fmt.Sprintf("places: %d", s.Places()))
	case interface{ State() *transform.VocabularyState }:
		if st := s.State(); st != nil {
			for _, cv := range st.Vocabularies {
				lines = append(lines, fmt.Sprintf("%s: %s", cv.Column, strings.Join(cv.Labels, ", ")))
			}
		}
	}

	return lines
}
