package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
	"github.com/askiada/go-preprocess/pkg/transform"
)

var cutCategories = []string{"IDEAL", "PREMIUM", "VERY_GOOD", "GOOD", "FAIR"}

func diamonds(t *testing.T) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.New(
		dataset.NewNumeric("CARAT", []float64{0.2, 0.5, 1.0}),
		dataset.NewCategorical("CUT", []string{"IDEAL", "FAIR", "GOOD"}),
		dataset.NewCategorical("COLOR", []string{"E", "J", "E"}),
	)
	require.NoError(t, err)

	return ds
}

func floatsOf(t *testing.T, ds *dataset.Dataset, name string) []float64 {
	t.Helper()

	col, err := ds.Column(name)
	require.NoError(t, err)

	values, err := col.Floats()
	require.NoError(t, err)

	return values
}

// diamondPipeline scales CARAT, rounds the scaled value, encodes CUT and one-hot encodes
// COLOR.
func diamondPipeline(t *testing.T, opts ...model.PipelineOption) *pipeline.Pipeline {
	t.Helper()

	pipe, err := pipeline.New(opts...)
	require.NoError(t, err)

	scaler, err := transform.NewMinMaxScaler(transform.MinMaxConfig{
		Columns: transform.ColumnSpec{Inputs: []string{"CARAT"}, Outputs: []string{"CARAT_NORM"}},
	})
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("scale", scaler))

	rounder, err := transform.NewRounder(transform.RounderConfig{
		Columns: transform.ColumnSpec{Inputs: []string{"CARAT_NORM"}},
		Places:  1,
	})
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("round", rounder))

	ordinal, err := transform.NewOrdinalEncoder(transform.OrdinalConfig{
		Columns:    transform.ColumnSpec{Inputs: []string{"CUT"}, Outputs: []string{"CUT_ORD"}},
		Categories: map[string][]string{"CUT": cutCategories},
	})
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("cut", ordinal))

	onehot, err := transform.NewOneHotEncoder(transform.OneHotConfig{
		Columns:    transform.ColumnSpec{Inputs: []string{"COLOR"}},
		DropInputs: true,
	})
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("color", onehot))

	return pipe
}

type recorder struct {
	calls    []string
	runs     []model.RunInfo
	newErr   error
	stepErr  error
	finished int
}

func (r *recorder) New() error {
	r.calls = append(r.calls, "new")

	return r.newErr
}

func (r *recorder) PrepareStep(parentStep, step *model.StepInfo) error {
	r.calls = append(r.calls, "prepare "+parentStep.Name+" "+step.Name)

	return r.stepErr
}

func (r *recorder) OnStepFit(step *model.StepInfo, _ int, _ time.Duration) error {
	r.calls = append(r.calls, "fit "+step.Name)

	return nil
}

func (r *recorder) OnStepTransform(step *model.StepInfo, _ int, _ time.Duration) error {
	r.calls = append(r.calls, "transform "+step.Name)

	return nil
}

func (r *recorder) Finish(run *model.RunInfo) error {
	r.finished++
	r.runs = append(r.runs, *run)

	return nil
}
