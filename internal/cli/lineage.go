package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/pkg/pipeline/drawer"
)

func newLineageCmd(a *app) *cobra.Command {
	var (
		src    source
		output string
	)

	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Print the column lineage of a pipeline as a DOT graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipe, err := a.loadPipeline(cmd.Context(), src)
			if err != nil {
				return err
			}

			g, err := pipe.Lineage()
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				return drawer.WriteDOT(g, w, drawer.GraphAttribute("rankdir", "LR"))
			})
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "DOT file (default stdout)")

	return cmd
}
