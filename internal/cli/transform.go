package cli

import (
	"github.com/spf13/cobra"
)

type transformFlags struct {
	src         source
	input       string
	categorical []string
	output      string
}

func newTransformCmd(a *app) *cobra.Command {
	f := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a fitted pipeline to a CSV file",
		Example: `  preprocess transform --pipeline pipeline.bin --input test.csv --output test_out.csv
  preprocess transform --from-registry diamonds@2 --input test.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pipe, err := a.loadPipeline(ctx, f.src)
			if err != nil {
				return err
			}

			ds, err := readDataset(cmd, f.input, f.categorical)
			if err != nil {
				return err
			}

			out, err := pipe.Transform(ctx, ds)
			if err != nil {
				return err
			}

			return writeOutput(cmd, f.output, out.WriteCSV)
		},
	}

	f.src.register(cmd)

	flags := cmd.Flags()
	flags.StringVar(&f.input, "input", "", "CSV file to transform, - for stdin")
	flags.StringSliceVar(&f.categorical, "categorical", nil, "columns read as categorical even when numeric")
	flags.StringVar(&f.output, "output", "", "file receiving the transformed CSV (default stdout)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
