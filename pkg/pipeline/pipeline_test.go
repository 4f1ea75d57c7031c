package pipeline_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-preprocess/pkg/dataset"
	"github.com/askiada/go-preprocess/pkg/pipeline"
	"github.com/askiada/go-preprocess/pkg/pipeline/model"
	"github.com/askiada/go-preprocess/pkg/transform"
)

func TestPipelineFitTransform(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := diamonds(t)
	pipe := diamondPipeline(t)
	assert.False(t, pipe.IsFitted())

	got, err := pipe.FitTransform(ctx, ds)
	require.NoError(t, err)
	assert.True(t, pipe.IsFitted())

	assert.Equal(t, []string{"CARAT", "CUT", "CARAT_NORM", "CUT_ORD", "COLOR_E", "COLOR_J"}, got.Names())
	assert.Equal(t, []float64{0, 0.4, 1}, floatsOf(t, got, "CARAT_NORM"))
	assert.Equal(t, []float64{0, 4, 3}, floatsOf(t, got, "CUT_ORD"))
	assert.Equal(t, []float64{1, 0, 1}, floatsOf(t, got, "COLOR_E"))

	again, err := pipe.Transform(ctx, ds)
	require.NoError(t, err)
	assert.True(t, got.Equal(again))
}

func TestPipelineFitThenTransformEqualsFitTransform(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := diamonds(t)

	fitted := diamondPipeline(t)
	require.NoError(t, fitted.Fit(ctx, ds))

	got, err := fitted.Transform(ctx, ds)
	require.NoError(t, err)

	expected, err := diamondPipeline(t).FitTransform(ctx, ds)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got))
}

func TestPipelineCarat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ds := diamonds(t)

	pipe, err := pipeline.New()
	require.NoError(t, err)

	scaler, err := transform.NewMinMaxScaler(transform.MinMaxConfig{
		Columns: transform.ColumnSpec{Inputs: []string{"CARAT"}, Outputs: []string{"CARAT_NORM"}},
	})
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("scale", scaler))

	got, err := pipe.FitTransform(ctx, ds)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.375, 1}, floatsOf(t, got, "CARAT_NORM"), 1e-12)
}

func TestPipelineAddStepErrors(t *testing.T) {
	t.Parallel()

	pipe := diamondPipeline(t)

	scaler, err := transform.NewMinMaxScaler(transform.MinMaxConfig{Columns: transform.ColumnSpec{Inputs: []string{"CARAT"}}})
	require.NoError(t, err)

	tcs := map[string]struct {
		name     string
		step     transform.Step
		expected error
	}{
		"empty name": {
			step:     scaler,
			expected: pipeline.ErrStepNameRequired,
		},
		"nil step": {
			name:     "other",
			expected: pipeline.ErrStepMustBeSet,
		},
		"duplicate": {
			name:     "scale",
			step:     scaler,
			expected: pipeline.ErrDuplicateStep,
		},
		"start vertex name": {
			name:     "start",
			step:     scaler,
			expected: pipeline.ErrInvalidStepName,
		},
		"end vertex name": {
			name:     "end",
			step:     scaler,
			expected: pipeline.ErrInvalidStepName,
		},
		"lineage separator": {
			name:     "scale:v2",
			step:     scaler,
			expected: pipeline.ErrInvalidStepName,
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			err := pipe.AddStep(tc.name, tc.step)
			assert.ErrorIs(t, err, tc.expected)
			assert.ErrorIs(t, err, pipeline.ErrConfiguration)
		})
	}

	assert.Equal(t, 4, pipe.Len())
}

func TestPipelineTransformNotFitted(t *testing.T) {
	t.Parallel()

	pipe := diamondPipeline(t)

	_, err := pipe.Transform(context.Background(), diamonds(t))
	assert.ErrorIs(t, err, pipeline.ErrNotFitted)
	assert.ErrorIs(t, err, transform.ErrNotFitted)
	assert.Contains(t, err.Error(), "pipeline not fitted")

	var stepErr *pipeline.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "scale", stepErr.Step)
	assert.Equal(t, model.OpTransform, stepErr.Op)
}

func TestPipelineStepError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pipe := diamondPipeline(t)
	require.NoError(t, pipe.Fit(ctx, diamonds(t)))

	unseen, err := dataset.New(
		dataset.NewNumeric("CARAT", []float64{0.3}),
		dataset.NewCategorical("CUT", []string{"ROUGH"}),
		dataset.NewCategorical("COLOR", []string{"E"}),
	)
	require.NoError(t, err)

	_, err = pipe.Transform(ctx, unseen)
	assert.ErrorIs(t, err, transform.ErrUnknownCategory)

	var stepErr *pipeline.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "cut", stepErr.Step)
	assert.Contains(t, err.Error(), `step "cut": transform:`)

	missing, err := dataset.New(dataset.NewNumeric("CARAT", []float64{0.3}))
	require.NoError(t, err)

	err = diamondPipeline(t).Fit(ctx, missing)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "cut", stepErr.Step)
	assert.Equal(t, model.OpFit, stepErr.Op)

	_, err = pipe.Transform(ctx, nil)
	assert.ErrorIs(t, err, pipeline.ErrDatasetMustBeSet)
}

func TestPipelineCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := diamondPipeline(t).Fit(ctx, diamonds(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipelineSteps(t *testing.T) {
	t.Parallel()

	pipe := diamondPipeline(t)

	steps := pipe.Steps()
	require.Len(t, steps, 4)
	assert.Equal(t, model.StepInfo{
		Name:    "scale",
		Kind:    transform.MinMaxScalerKind,
		Inputs:  []string{"CARAT"},
		Outputs: []string{"CARAT_NORM"},
	}, steps[0])
	assert.Equal(t, []string{"COLOR"}, steps[3].Outputs)

	require.NoError(t, pipe.Fit(context.Background(), diamonds(t)))

	steps = pipe.Steps()
	assert.True(t, steps[0].Fitted)
	assert.Equal(t, []string{"COLOR_E", "COLOR_J"}, steps[3].Outputs)

	step, ok := pipe.Step("cut")
	require.True(t, ok)
	assert.Equal(t, transform.OrdinalEncoderKind, step.Kind())

	_, ok = pipe.Step("missing")
	assert.False(t, ok)
}

func TestPipelineEmpty(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	assert.True(t, pipe.IsFitted())

	ds := diamonds(t)
	got, err := pipe.Transform(context.Background(), ds)
	require.NoError(t, err)
	assert.True(t, ds.Equal(got))
}

func TestPipelineOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := &recorder{}
	pipe := diamondPipeline(t, rec)

	assert.Equal(t, []string{
		"new",
		"prepare start scale",
		"prepare scale round",
		"prepare round cut",
		"prepare cut color",
	}, rec.calls)

	rec.calls = nil
	require.NoError(t, pipe.Fit(ctx, diamonds(t)))
	assert.Equal(t, []string{
		"fit scale", "transform scale",
		"fit round", "transform round",
		"fit cut", "transform cut",
		"fit color", "transform color",
	}, rec.calls)

	_, err := pipe.Transform(ctx, diamonds(t))
	require.NoError(t, err)

	_, err = pipe.Transform(ctx, nil)
	require.Error(t, err)

	require.Len(t, rec.runs, 3)
	assert.Equal(t, pipe.ID().String(), rec.runs[0].PipelineID)
	assert.Equal(t, model.OpFit, rec.runs[0].Op)
	assert.Equal(t, 4, rec.runs[0].Steps)
	assert.Equal(t, 3, rec.runs[0].Rows)
	assert.NoError(t, rec.runs[0].Err)
	assert.Equal(t, model.OpTransform, rec.runs[1].Op)
	assert.ErrorIs(t, rec.runs[2].Err, pipeline.ErrDatasetMustBeSet)
}

func TestPipelineOptionErrors(t *testing.T) {
	t.Parallel()

	errTest := errors.New("test")

	_, err := pipeline.New(&recorder{newErr: errTest})
	assert.ErrorIs(t, err, errTest)

	pipe, err := pipeline.New(&recorder{stepErr: errTest})
	require.NoError(t, err)

	scaler, err := transform.NewMinMaxScaler(transform.MinMaxConfig{Columns: transform.ColumnSpec{Inputs: []string{"CARAT"}}})
	require.NoError(t, err)
	assert.ErrorIs(t, pipe.AddStep("scale", scaler), errTest)
	assert.Equal(t, 0, pipe.Len())
}
