package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/internal/config"
	"github.com/askiada/go-preprocess/internal/registry"
	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline/drawer"
	"github.com/askiada/go-preprocess/pkg/pipeline/logging"
	"github.com/askiada/go-preprocess/pkg/pipeline/measure"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
)

type fitFlags struct {
	definition  string
	input       string
	categorical []string
	out         string
	register    string
	output      string
	draw        string
}

func newFitCmd(a *app) *cobra.Command {
	f := &fitFlags{}

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a pipeline definition on a CSV file",
		Example: `  preprocess fit --definition steps.yaml --input train.csv --out pipeline.bin
  preprocess fit --definition steps.yaml --input train.csv --register diamonds --output train_out.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFit(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.definition, "definition", "", "YAML pipeline definition")
	flags.StringVar(&f.input, "input", "", "training CSV file, - for stdin")
	flags.StringSliceVar(&f.categorical, "categorical", nil, "columns read as categorical even when numeric")
	flags.StringVar(&f.out, "out", "", "file receiving the fitted pipeline")
	flags.StringVar(&f.register, "register", "", "register the fitted pipeline under this name")
	flags.StringVar(&f.output, "output", "", "file receiving the transformed training data, - for stdout")
	flags.StringVar(&f.draw, "draw", "", "DOT file receiving the step graph with timings")
	_ = cmd.MarkFlagRequired("definition")
	_ = cmd.MarkFlagRequired("input")
	cmd.MarkFlagsOneRequired("out", "register")

	return cmd
}

func (a *app) runFit(cmd *cobra.Command, f *fitFlags) error {
	ctx := cmd.Context()

	def, err := config.ReadDefinitionFile(f.definition)
	if err != nil {
		return err
	}

	msr := measure.NewDefaultMeasure()
	opts := []model.PipelineOption{logging.PipelineLogger(a.logger), measure.PipelineMeasure(msr)}
	if f.draw != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(f.draw), msr))
	}

	pipe, err := def.Build(config.BuildOptions{
		Separator:       a.cfg.Separator,
		StepOptions:     a.stepOptions(),
		PipelineOptions: opts,
	})
	if err != nil {
		return err
	}

	ds, err := readDataset(cmd, f.input, f.categorical)
	if err != nil {
		return err
	}

	var transformed *dataset.Dataset
	if f.output != "" {
		transformed, err = pipe.FitTransform(ctx, ds)
	} else {
		err = pipe.Fit(ctx, ds)
	}
	if err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "✓ Fitted %d steps on %d rows\n", pipe.Len(), ds.Len())

	if f.out != "" {
		err = writeOutput(cmd, f.out, pipe.Save)
		if err != nil {
			return err
		}
		fmt.Fprintf(status, "✓ Saved pipeline %s to %s\n", pipe.ID(), f.out)
	}

	if f.register != "" {
		store, err := a.openRegistry(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.Put(ctx, f.register, pipe)
		if err != nil {
			return errors.Wrap(err, "unable to register pipeline")
		}
		fmt.Fprintf(status, "✓ Registered %s\n", registry.Ref(entry.Name, entry.Version))
	}

	if transformed != nil {
		err = writeOutput(cmd, f.output, transformed.WriteCSV)
		if err != nil {
			return err
		}
	}

	return nil
}
