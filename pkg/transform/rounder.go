package transform

import (
	"context"
	"math"
	"slices"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/askiada/go-preprocess/pkg/dataset"
)

const RounderKind = "rounder"

const maxPlaces = 15

// RounderConfig configures a Rounder.
type RounderConfig struct {
	Columns ColumnSpec `msgpack:"columns"`
	// Places is the number of decimal places kept, between -15 and 15.
	Places     int32 `msgpack:"places"`
	DropInputs bool  `msgpack:"drop_inputs"`
}

// RounderState records the columns checked during Fit.
type RounderState struct {
	Columns []string `msgpack:"columns"`
}

// Rounder rounds numeric columns half away from zero using decimal arithmetic, so 2.675
// rounds to 2.68 rather than to the nearest binary neighbour. It learns nothing; Fit
// only checks that the columns exist and are numeric.
type Rounder struct {
	cfg   RounderConfig
	opts  stepOptions
	state *RounderState
}

// NewRounder creates an unfitted rounder.
func NewRounder(cfg RounderConfig, opts ...StepOption) (*Rounder, error) {
	err := cfg.Columns.Validate()
	if err != nil {
		return nil, err
	}

	if cfg.Places < -maxPlaces || cfg.Places > maxPlaces {
		return nil, errors.Wrapf(ErrInvalidOption, "places %d outside [%d, %d]", cfg.Places, -maxPlaces, maxPlaces)
	}
	cfg.Columns = cfg.Columns.clone()

	return &Rounder{cfg: cfg, opts: newStepOptions(opts)}, nil
}

func (r *Rounder) Kind() string { return RounderKind }

func (r *Rounder) Columns() ColumnSpec { return r.cfg.Columns.clone() }

func (r *Rounder) OutputColumns() []string { return r.cfg.Columns.ResolvedOutputs() }

func (r *Rounder) IsFitted() bool { return r.state != nil }

// Places returns the number of decimal places kept.
func (r *Rounder) Places() int32 { return r.cfg.Places }

func (r *Rounder) Fit(_ context.Context, ds *dataset.Dataset) error {
	for _, name := range r.cfg.Columns.Inputs {
		_, err := numericValues(ds, name)
		if err != nil {
			return errors.Wrap(err, "unable to fit rounder")
		}
	}

	r.state = &RounderState{Columns: append([]string(nil), r.cfg.Columns.Inputs...)}

	return nil
}

func (r *Rounder) Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if r.state == nil {
		return nil, ErrNotFitted
	}

	spec := r.cfg.Columns
	outs := make([]*dataset.Column, len(spec.Inputs))

	err := eachColumn(ctx, r.opts.concurrent, len(spec.Inputs), func(_ context.Context, idx int) error {
		values, err := numericValues(ds, spec.Inputs[idx])
		if err != nil {
			return err
		}

		rounded := make([]float64, len(values))
		for i, v := range values {
			rounded[i] = round(v, r.cfg.Places)
		}
		outs[idx] = dataset.NewNumeric(spec.Output(idx), rounded)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to transform with rounder")
	}

	return writeColumns(ds, spec, outs, r.cfg.DropInputs)
}

func (r *Rounder) Encode() ([]byte, []byte, error) {
	return encodeStep(r.cfg, r.state)
}

func decodeRounder(config, state []byte, opts ...StepOption) (Step, error) {
	var cfg RounderConfig

	err := Unmarshal(config, &cfg)
	if err != nil {
		return nil, err
	}

	r, err := NewRounder(cfg, opts...)
	if err != nil {
		return nil, err
	}

	var st *RounderState

	err = Unmarshal(state, &st)
	if err != nil {
		return nil, err
	}
	if st != nil && !slices.Equal(st.Columns, cfg.Columns.Inputs) {
		return nil, errors.Wrapf(ErrSerialization, "state columns %q, want %q", st.Columns, cfg.Columns.Inputs)
	}
	r.state = st

	return r, nil
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

var _ Step = (*Rounder)(nil)
