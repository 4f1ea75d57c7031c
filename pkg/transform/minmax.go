package transform

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

const MinMaxScalerKind = "min_max_scaler"

// MinMaxConfig configures a MinMaxScaler.
type MinMaxConfig struct {
	Columns ColumnSpec `msgpack:"columns"`
	// Clip clamps transformed values into [0, 1].
	Clip       bool `msgpack:"clip"`
	DropInputs bool `msgpack:"drop_inputs"`
}

// Range is the observed range of one input column.
type Range struct {
	Column string  `msgpack:"column"`
	Min    float64 `msgpack:"min"`
	Max    float64 `msgpack:"max"`
}

// MinMaxState is the fitted state of a MinMaxScaler.
type MinMaxState struct {
	Ranges []Range `msgpack:"ranges"`
}

// MinMaxScaler maps every value v to (v-min)/(max-min) using the range seen during Fit.
// A constant column maps to 0. NaN and infinite values are ignored by Fit; Transform keeps
// NaN and clips infinities to 0 or 1 when Clip is set.
type MinMaxScaler struct {
	cfg   MinMaxConfig
	opts  stepOptions
	state *MinMaxState
}

// NewMinMaxScaler creates an unfitted scaler.
func NewMinMaxScaler(cfg MinMaxConfig, opts ...StepOption) (*MinMaxScaler, error) {
	err := cfg.Columns.Validate()
	if err != nil {
		return nil, err
	}
	cfg.Columns = cfg.Columns.clone()

	return &MinMaxScaler{cfg: cfg, opts: newStepOptions(opts)}, nil
}

func (s *MinMaxScaler) Kind() string { return MinMaxScalerKind }

func (s *MinMaxScaler) Columns() ColumnSpec { return s.cfg.Columns.clone() }

func (s *MinMaxScaler) OutputColumns() []string { return s.cfg.Columns.ResolvedOutputs() }

func (s *MinMaxScaler) IsFitted() bool { return s.state != nil }

// State returns the fitted ranges, nil before Fit.
func (s *MinMaxScaler) State() *MinMaxState {
	if s.state == nil {
		return nil
	}

	return &MinMaxState{Ranges: append([]Range(nil), s.state.Ranges...)}
}

func (s *MinMaxScaler) Fit(ctx context.Context, ds *dataset.Dataset) error {
	inputs := s.cfg.Columns.Inputs
	ranges := make([]Range, len(inputs))

	err := eachColumn(ctx, s.opts.concurrent, len(inputs), func(_ context.Context, idx int) error {
		values, err := numericValues(ds, inputs[idx])
		if err != nil {
			return err
		}

		lo, hi := observedRange(values)
		ranges[idx] = Range{Column: inputs[idx], Min: lo, Max: hi}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "unable to fit min max scaler")
	}

	s.state = &MinMaxState{Ranges: ranges}

	return nil
}

func (s *MinMaxScaler) Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if s.state == nil {
		return nil, ErrNotFitted
	}

	spec := s.cfg.Columns
	outs := make([]*dataset.Column, len(spec.Inputs))

	err := eachColumn(ctx, s.opts.concurrent, len(spec.Inputs), func(_ context.Context, idx int) error {
		values, err := numericValues(ds, spec.Inputs[idx])
		if err != nil {
			return err
		}

		rng := s.state.Ranges[idx]
		scaled := make([]float64, len(values))
		for i, v := range values {
			scaled[i] = scale(v, rng.Min, rng.Max, s.cfg.Clip)
		}
		outs[idx] = dataset.NewNumeric(spec.Output(idx), scaled)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to transform with min max scaler")
	}

	return writeColumns(ds, spec, outs, s.cfg.DropInputs)
}

func (s *MinMaxScaler) Encode() ([]byte, []byte, error) {
	return encodeStep(s.cfg, s.state)
}

func decodeMinMaxScaler(config, state []byte, opts ...StepOption) (Step, error) {
	var cfg MinMaxConfig

	err := Unmarshal(config, &cfg)
	if err != nil {
		return nil, err
	}

	s, err := NewMinMaxScaler(cfg, opts...)
	if err != nil {
		return nil, err
	}

	var st *MinMaxState

	err = Unmarshal(state, &st)
	if err != nil {
		return nil, err
	}

	if st != nil {
		if len(st.Ranges) != len(cfg.Columns.Inputs) {
			return nil, errors.Wrapf(ErrSerialization, "%d ranges for %d columns", len(st.Ranges), len(cfg.Columns.Inputs))
		}
		for i, rg := range st.Ranges {
			if rg.Column != cfg.Columns.Inputs[i] {
				return nil, errors.Wrapf(ErrSerialization, "range %d is for %q, want %q", i, rg.Column, cfg.Columns.Inputs[i])
			}
		}
	}
	s.state = st

	return s, nil
}

func observedRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if lo > hi {
		return 0, 0
	}

	return lo, hi
}

func scale(v, lo, hi float64, clip bool) float64 {
	if math.IsNaN(v) {
		return v
	}

	if hi == lo {
		return 0
	}

	res := (v - lo) / (hi - lo)
	if clip {
		res = math.Max(0, math.Min(1, res))
	}

	return res
}

var _ Step = (*MinMaxScaler)(nil)
