package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-preprocess/internal/registry"
	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline"
	"github.com/askiada/go-preprocess/pkg/pipeline/logging"
)

// stdio names standard input or output in path flags.
const stdio = "-"

func readDataset(cmd *cobra.Command, path string, categorical []string) (*dataset.Dataset, error) {
	if path == stdio {
		return dataset.ReadCSV(cmd.InOrStdin(), dataset.AsCategorical(categorical...))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open input")
	}
	defer f.Close()

	ds, err := dataset.ReadCSV(f, dataset.AsCategorical(categorical...))
	if err != nil {
		return nil, errors.Wrapf(err, "input %s", path)
	}

	return ds, nil
}

// writeOutput writes through fn to path, or to the command output when path is empty or
// "-". The file is only created once fn succeeds.
func writeOutput(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	if path == "" || path == stdio {
		return fn(cmd.OutOrStdout())
	}

	var buf bytes.Buffer

	err := fn(&buf)
	if err != nil {
		return err
	}

	err = os.WriteFile(path, buf.Bytes(), 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	return nil
}

func (a *app) openRegistry(ctx context.Context) (*registry.Store, error) {
	err := os.MkdirAll(filepath.Dir(a.cfg.RegistryPath), 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create registry dir")
	}

	return registry.Open(ctx, a.cfg.RegistryPath)
}

// source selects a fitted pipeline from a file or from the registry.
type source struct {
	path string
	ref  string
}

func (s *source) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.path, "pipeline", "", "fitted pipeline file")
	cmd.Flags().StringVar(&s.ref, "from-registry", "", "registered pipeline, NAME or NAME@VERSION")
	cmd.MarkFlagsMutuallyExclusive("pipeline", "from-registry")
	cmd.MarkFlagsOneRequired("pipeline", "from-registry")
}

func (a *app) loadPipeline(ctx context.Context, src source) (*pipeline.Pipeline, error) {
	opts := []pipeline.LoadOption{
		pipeline.WithPipelineOptions(logging.PipelineLogger(a.logger)),
		pipeline.WithStepOptions(a.stepOptions()...),
	}

	if src.path != "" {
		f, err := os.Open(src.path)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open pipeline")
		}
		defer f.Close()

		pipe, err := pipeline.Load(f, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline %s", src.path)
		}

		return pipe, nil
	}

	name, version, err := registry.ParseRef(src.ref)
	if err != nil {
		return nil, err
	}

	store, err := a.openRegistry(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	pipe, entry, err := store.Load(ctx, name, version, opts...)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Pipeline loaded from registry.", "name", entry.Name, "version", entry.Version, "id", entry.PipelineID)

	return pipe, nil
}
