package transform

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

// Step is a unit that learns parameters from a dataset and maps input columns to output
// columns.
type Step interface {
	// Kind identifies the step type in persisted pipelines.
	Kind() string
	// Columns returns the declared input and output columns.
	Columns() ColumnSpec
	// OutputColumns returns the columns Transform writes. Steps that expand columns only
	// know them once fitted.
	OutputColumns() []string
	// IsFitted reports whether Transform can run.
	IsFitted() bool
	// Fit learns the step parameters from ds.
	Fit(ctx context.Context, ds *dataset.Dataset) error
	// Transform returns a new dataset with the output columns written.
	Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error)
	// Encode returns the configuration and fitted state as self-contained documents.
	Encode() (config, state []byte, err error)
}

// ColumnMapper is implemented by steps whose outputs do not pair with their inputs by
// position.
type ColumnMapper interface {
	// OutputsOf returns the columns derived from one input column.
	OutputsOf(input string) []string
}

type stepOptions struct {
	concurrent int
}

// StepOption configures runtime behaviour of a step. Options are not persisted.
type StepOption func(o *stepOptions)

// StepConcurrency sets how many columns a step processes at the same time.
func StepConcurrency(concurrent int) StepOption {
	return func(o *stepOptions) {
		o.concurrent = concurrent
	}
}

func newStepOptions(opts []StepOption) stepOptions {
	o := stepOptions{concurrent: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if o.concurrent < 1 {
		o.concurrent = 1
	}

	return o
}

func sequentialEachColumn(ctx context.Context, total int, fn func(ctx context.Context, idx int) error) error {
	for idx := 0; idx < total; idx++ {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "column %d", idx)
		default:
		}

		err := fn(ctx, idx)
		if err != nil {
			return err
		}
	}

	return nil
}

func concurrentEachColumn(ctx context.Context, concurrent, total int, fn func(ctx context.Context, idx int) error) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrent)

	for idx := 0; idx < total; idx++ {
		localIdx := idx

		errGrp.Go(func() error {
			select {
			case <-dCtx.Done():
				return errors.Wrapf(dCtx.Err(), "column %d", localIdx)
			default:
			}

			return fn(dCtx, localIdx)
		})
	}

	return errGrp.Wait()
}

// eachColumn runs fn for every column index. Callers write results into a slot keyed by
// idx so the outcome does not depend on scheduling.
func eachColumn(ctx context.Context, concurrent, total int, fn func(ctx context.Context, idx int) error) error {
	if concurrent <= 1 || total <= 1 {
		return sequentialEachColumn(ctx, total, fn)
	}

	return concurrentEachColumn(ctx, concurrent, total, fn)
}

func numericValues(ds *dataset.Dataset, name string) ([]float64, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}

	values, err := col.Floats()
	if err != nil {
		return nil, errors.Wrapf(err, "column %q is %s, want %s", name, col.Kind(), dataset.Numeric)
	}

	return values, nil
}

func labelValues(ds *dataset.Dataset, name string) ([]string, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}

	return col.Labels(), nil
}

func checkColumns(ds *dataset.Dataset, names []string) error {
	for _, name := range names {
		if !ds.Has(name) {
			return errors.Wrapf(dataset.ErrColumnNotFound, "%q", name)
		}
	}

	return nil
}

// writeColumns adds one output per input to ds. The output of input idx may only replace
// an existing column when it is written back under the input name.
func writeColumns(ds *dataset.Dataset, spec ColumnSpec, outs []*dataset.Column, dropInputs bool) (*dataset.Dataset, error) {
	for idx, out := range outs {
		if ds.Has(out.Name()) && out.Name() != spec.Inputs[idx] {
			return nil, errors.Wrapf(ErrOutputCollision, "%q", out.Name())
		}
	}

	return write(ds, spec, outs, dropInputs)
}

// writeIndicators adds expanded outputs to ds. They never replace an existing column.
func writeIndicators(ds *dataset.Dataset, spec ColumnSpec, outs []*dataset.Column, dropInputs bool) (*dataset.Dataset, error) {
	for _, out := range outs {
		if ds.Has(out.Name()) {
			return nil, errors.Wrapf(ErrOutputCollision, "%q", out.Name())
		}
	}

	return write(ds, spec, outs, dropInputs)
}

func write(ds *dataset.Dataset, spec ColumnSpec, outs []*dataset.Column, dropInputs bool) (*dataset.Dataset, error) {
	written := make(map[string]struct{}, len(outs))
	for _, out := range outs {
		written[out.Name()] = struct{}{}
	}

	res, err := ds.With(outs...)
	if err != nil {
		return nil, err
	}

	if !dropInputs {
		return res, nil
	}

	var drop []string
	for _, in := range spec.Inputs {
		if _, ok := written[in]; !ok {
			drop = append(drop, in)
		}
	}

	if len(drop) == 0 {
		return res, nil
	}

	return res.Drop(drop...)
}
